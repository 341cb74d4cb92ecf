package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/episode-timeline/app/ingest"
)

const (
	taskQueueSize = 16
	taskTimeout   = 5 * time.Minute
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	ingester    Ingester
	interval    time.Duration
	workerCount int
	startupMode ingest.Mode
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

// NewScheduler returns a scheduler that runs one startupMode refresh on start
// and an incremental refresh every interval. A zero interval disables the ticker.
func NewScheduler(ingester Ingester, interval time.Duration, workerCount int, startupMode ingest.Mode) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		ingester:    ingester,
		interval:    interval,
		workerCount: max(workerCount, 1),
		startupMode: startupMode,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, taskQueueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.enqueueStartupTasks()

	if s.interval <= 0 {
		slog.Debug("Periodic refresh disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	if err := s.EnqueueTask(NewRefreshTask(s.ingester, s.startupMode)); err != nil {
		slog.Warn("Failed to enqueue startup RefreshTask", "error", err)
	}
}

func (s *Scheduler) enqueueTasks() {
	if err := s.EnqueueTask(NewRefreshTask(s.ingester, ingest.ModeIncremental)); err != nil {
		slog.Warn("Failed to enqueue RefreshTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()),
			"id", task.GetID(), "duration", task.GetDuration().String(), "error", err)
	}
}
