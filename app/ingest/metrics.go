package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "episode_timeline_ingest_runs_total",
		Help: "The total number of ingestion runs by mode and outcome",
	}, []string{"mode", "status"})

	ingestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "episode_timeline_ingest_duration_seconds",
		Help:    "Duration of ingestion runs",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
	}, []string{"mode"})

	feedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "episode_timeline_feed_items_total",
		Help: "Items extracted per feed source",
	}, []string{"source"})

	feedFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "episode_timeline_feed_failures_total",
		Help: "Failed fetch or parse attempts per feed source",
	}, []string{"source"})

	episodesSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "episode_timeline_episodes_saved_total",
		Help: "Episodes written to the store by ingestion mode",
	}, []string{"mode"})

	episodesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "episode_timeline_episodes_skipped_total",
		Help: "Deduplicated items rejected by validation or the store",
	})
)
