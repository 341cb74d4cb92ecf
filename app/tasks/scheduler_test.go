package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/episode-timeline/app/ingest"
)

// MockIngester records the modes it was run with
type MockIngester struct {
	mu    sync.Mutex
	modes []ingest.Mode
	err   error
}

func (m *MockIngester) Run(ctx context.Context, mode ingest.Mode) (ingest.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes = append(m.modes, mode)
	return ingest.Result{Mode: mode}, m.err
}

func (m *MockIngester) Modes() []ingest.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ingest.Mode(nil), m.modes...)
}

func TestSchedulerRunsStartupAndPeriodicRefresh(t *testing.T) {
	ingester := &MockIngester{}
	scheduler := NewScheduler(ingester, 20*time.Millisecond, 1, ingest.ModeFull)

	scheduler.Start()
	defer scheduler.Stop()

	assert.Eventually(t, func() bool {
		return len(ingester.Modes()) >= 3
	}, 2*time.Second, 10*time.Millisecond)

	modes := ingester.Modes()
	assert.Equal(t, ingest.ModeFull, modes[0])
	for _, mode := range modes[1:] {
		assert.Equal(t, ingest.ModeIncremental, mode)
	}
}

func TestSchedulerWithoutIntervalOnlyRunsStartup(t *testing.T) {
	ingester := &MockIngester{}
	scheduler := NewScheduler(ingester, 0, 2, ingest.ModeFull)

	scheduler.Start()

	assert.Eventually(t, func() bool {
		return len(ingester.Modes()) == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	scheduler.Stop()

	assert.Equal(t, []ingest.Mode{ingest.ModeFull}, ingester.Modes())
}

func TestSchedulerIncrementalStartupKeepsExistingEpisodes(t *testing.T) {
	ingester := &MockIngester{}
	scheduler := NewScheduler(ingester, 0, 1, ingest.ModeIncremental)

	scheduler.Start()

	assert.Eventually(t, func() bool {
		return len(ingester.Modes()) == 1
	}, time.Second, 10*time.Millisecond)

	scheduler.Stop()

	assert.Equal(t, []ingest.Mode{ingest.ModeIncremental}, ingester.Modes())
}

func TestSchedulerEnqueueTaskQueueFull(t *testing.T) {
	scheduler := NewScheduler(&MockIngester{}, 0, 1, ingest.ModeFull)

	for i := 0; i < taskQueueSize; i++ {
		require.NoError(t, scheduler.EnqueueTask(NewRefreshTask(&MockIngester{}, ingest.ModeIncremental)))
	}

	assert.Error(t, scheduler.EnqueueTask(NewRefreshTask(&MockIngester{}, ingest.ModeIncremental)))
}

func TestSchedulerEnqueueTaskAfterStop(t *testing.T) {
	scheduler := NewScheduler(&MockIngester{}, 0, 1, ingest.ModeFull)
	scheduler.Start()
	scheduler.Stop()

	err := scheduler.EnqueueTask(NewRefreshTask(&MockIngester{}, ingest.ModeIncremental))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRefreshTaskExecute(t *testing.T) {
	ingester := &MockIngester{}
	task := NewRefreshTask(ingester, ingest.ModeFull)

	assert.NotEmpty(t, task.GetID())
	assert.Equal(t, TaskTypeRefresh, task.GetType())
	assert.Zero(t, task.GetDuration())

	task.Start()
	require.NoError(t, task.Execute(context.Background()))
	assert.Equal(t, []ingest.Mode{ingest.ModeFull}, ingester.Modes())
}

func TestRefreshTaskExecuteError(t *testing.T) {
	ingester := &MockIngester{err: ingest.ErrAllSourcesFailed}
	task := NewRefreshTask(ingester, ingest.ModeIncremental)

	err := task.Execute(context.Background())
	assert.True(t, errors.Is(err, ingest.ErrAllSourcesFailed))
}

func TestRefreshTaskExecuteCanceled(t *testing.T) {
	ingester := &MockIngester{}
	task := NewRefreshTask(ingester, ingest.ModeIncremental)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, task.Execute(ctx), context.Canceled)
	assert.Empty(t, ingester.Modes())
}
