package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath     string `long:"db-path" env:"DB_PATH" description:"SQLite database file; episodes are kept in memory when empty"`
	SampleData bool   `long:"sample-data" env:"SAMPLE_DATA" description:"Seed the store with sample episodes"`

	// Feed configuration
	SourcesFile     string `long:"sources-file" env:"SOURCES_FILE" description:"YAML file listing feed sources (built-in sources when empty)"`
	PatreonAuth     string `long:"patreon-auth" env:"PATREON_AUTH" description:"Auth token for the Patreon feed"`
	FetchTimeout    int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Feed fetch timeout in seconds"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"3600" description:"Background refresh interval in seconds (0 disables)"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"1" description:"Number of background refresh workers"`

	// HTTP configuration
	Port         string `long:"port" env:"PORT" default:"5000" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://timeline.example.com)"`
	RefreshRate  int    `long:"refresh-rate" env:"REFRESH_RATE" default:"6" description:"Allowed refresh requests per minute"`
	RefreshBurst int    `long:"refresh-burst" env:"REFRESH_BURST" default:"2" description:"Refresh request burst size"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Episode-Timeline/1.0" description:"User agent string for feed requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses args and the environment. It returns nil, nil when help was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:          raw.DBPath,
		SampleData:      raw.SampleData,
		SourcesFile:     raw.SourcesFile,
		PatreonAuth:     raw.PatreonAuth,
		FetchTimeout:    raw.FetchTimeout,
		RefreshInterval: raw.RefreshInterval,
		WorkerCount:     raw.WorkerCount,
		Port:            raw.Port,
		BaseUrl:         raw.BaseUrl,
		RefreshRate:     raw.RefreshRate,
		RefreshBurst:    raw.RefreshBurst,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	nonNegativeFields := map[string]int{
		"fetch timeout":    cfg.FetchTimeout,
		"refresh interval": cfg.RefreshInterval,
		"refresh rate":     cfg.RefreshRate,
		"refresh burst":    cfg.RefreshBurst,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
