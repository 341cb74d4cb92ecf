package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "5000", cfg.Port)
	assert.Empty(t, cfg.DBPath)
	assert.False(t, cfg.SampleData)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeoutDuration())
	assert.Equal(t, time.Hour, cfg.RefreshIntervalDuration())
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.Equal(t, 6, cfg.RefreshRate)
	assert.Equal(t, 2, cfg.RefreshBurst)
	assert.Equal(t, "http://localhost:5000", cfg.PublicURL())
	assert.Equal(t, GetVersion(), cfg.Version)
}

func TestLoadArgsFlagsAndEnv(t *testing.T) {
	t.Setenv("PATREON_AUTH", "token")
	t.Setenv("REFRESH_INTERVAL", "0")

	cfg, err := LoadArgs([]string{
		"--port", "9090",
		"--db-path", "/tmp/episodes.db",
		"--sample-data",
		"--base-url", "https://timeline.example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/episodes.db", cfg.DBPath)
	assert.True(t, cfg.SampleData)
	assert.Equal(t, "token", cfg.PatreonAuth)
	assert.Zero(t, cfg.RefreshIntervalDuration())
	assert.Equal(t, "https://timeline.example.com", cfg.PublicURL())
}

func TestLoadArgsRejectsInvalidValues(t *testing.T) {
	_, err := LoadArgs([]string{"--worker-count", "0"})
	assert.Error(t, err)

	_, err = LoadArgs([]string{"--fetch-timeout", "-1"})
	assert.Error(t, err)

	_, err = LoadArgs([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestApplyTimezone(t *testing.T) {
	original := time.Local
	t.Cleanup(func() { time.Local = original })

	require.NoError(t, applyTimezone("UTC"))
	assert.Equal(t, "UTC", time.Local.String())

	assert.Error(t, applyTimezone("Not/AZone"))
}
