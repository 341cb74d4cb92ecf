package tasks

import (
	"context"

	"github.com/lysyi3m/episode-timeline/app/ingest"
)

// TaskSchedulerInterface is what the server needs to run background refreshes.
//
//	scheduler := NewScheduler(ingester, interval, workerCount, ingest.ModeFull)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRefreshTask(ingester, ingest.ModeFull))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

type Ingester interface {
	Run(ctx context.Context, mode ingest.Mode) (ingest.Result, error)
}
