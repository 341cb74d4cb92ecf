package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/episode-timeline/app/ingest"
)

type RefreshTask struct {
	Task
	Mode     ingest.Mode
	ingester Ingester
}

func NewRefreshTask(ingester Ingester, mode ingest.Mode) *RefreshTask {
	return &RefreshTask{
		Task:     NewTask(TaskTypeRefresh),
		Mode:     mode,
		ingester: ingester,
	}
}

func (t *RefreshTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.ingester.Run(ctx, t.Mode)
	if err != nil {
		return fmt.Errorf("failed to refresh episodes: %w", err)
	}

	slog.Info("Task completed", "type", string(t.Type), "mode", string(t.Mode), "feeds", result.Summary(),
		"saved", len(result.Saved), "skipped", result.Skipped, "duration", t.GetDuration().String())

	return nil
}
