package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/lysyi3m/episode-timeline/app/database"
)

type Mode string

const (
	// ModeFull clears the store and recreates every deduplicated item.
	ModeFull Mode = "full"
	// ModeIncremental upserts each deduplicated item.
	ModeIncremental Mode = "incremental"
)

type FeedResult struct {
	Source string
	Count  int
	Err    error
}

func (r FeedResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s failed", r.Source)
	}
	return fmt.Sprintf("%d from %s", r.Count, r.Source)
}

type Result struct {
	Mode     Mode
	Feeds    []FeedResult
	Unique   int
	Saved    []database.Episode
	Skipped  int
	Duration time.Duration
}

// Summary renders the per-feed outcomes, e.g. "12 from regulation, fface failed".
func (r Result) Summary() string {
	return strings.Join(lo.Map(r.Feeds, func(f FeedResult, _ int) string {
		return f.String()
	}), ", ")
}

func (r Result) FailedSources() []string {
	failed := lo.Filter(r.Feeds, func(f FeedResult, _ int) bool {
		return f.Err != nil
	})
	return lo.Map(failed, func(f FeedResult, _ int) string {
		return f.Source
	})
}

func (r Result) AllFailed() bool {
	return len(r.Feeds) > 0 && len(r.FailedSources()) == len(r.Feeds)
}
