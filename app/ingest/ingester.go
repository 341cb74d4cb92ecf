package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/episode-timeline/app/database"
	"github.com/lysyi3m/episode-timeline/app/feed"
)

var ErrAllSourcesFailed = errors.New("all feed sources failed")

type SourceProvider interface {
	GetSources() []feed.Source
}

type Ingester struct {
	sources      SourceProvider
	fetcher      *feed.Fetcher
	extractor    *feed.Extractor
	deduplicator *feed.Deduplicator
	episodeRepo  database.EpisodeRepository
	mu           sync.Mutex
}

func NewIngester(sources SourceProvider, fetcher *feed.Fetcher, extractor *feed.Extractor,
	deduplicator *feed.Deduplicator, episodeRepo database.EpisodeRepository) *Ingester {
	return &Ingester{
		sources:      sources,
		fetcher:      fetcher,
		extractor:    extractor,
		deduplicator: deduplicator,
		episodeRepo:  episodeRepo,
	}
}

// Run fetches every source, deduplicates the combined items and persists them.
// Runs are serialized. A failing source contributes no items; if every source
// fails nothing is written and ErrAllSourcesFailed is returned.
func (i *Ingester) Run(ctx context.Context, mode Mode) (Result, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	startedAt := time.Now()
	result := Result{Mode: mode}

	sources := i.sources.GetSources()
	result.Feeds = make([]FeedResult, len(sources))
	perSource := make([][]feed.Item, len(sources))

	var g errgroup.Group
	for idx, source := range sources {
		g.Go(func() error {
			items, err := i.collect(ctx, source)
			result.Feeds[idx] = FeedResult{Source: source.Name, Count: len(items), Err: err}
			perSource[idx] = items
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		ingestRuns.WithLabelValues(string(mode), "canceled").Inc()
		return result, fmt.Errorf("ingestion canceled: %w", err)
	}

	if result.AllFailed() {
		ingestRuns.WithLabelValues(string(mode), "failed").Inc()
		slog.Error("Ingestion failed", "mode", mode, "feeds", result.Summary())
		return result, ErrAllSourcesFailed
	}

	unique := i.deduplicator.Run(lo.Flatten(perSource))
	result.Unique = len(unique)

	saved, skipped, err := i.persist(mode, unique)
	result.Saved = saved
	result.Skipped = skipped
	result.Duration = time.Since(startedAt)

	ingestDuration.WithLabelValues(string(mode)).Observe(result.Duration.Seconds())
	episodesSaved.WithLabelValues(string(mode)).Add(float64(len(saved)))
	episodesSkipped.Add(float64(skipped))

	if err != nil {
		ingestRuns.WithLabelValues(string(mode), "failed").Inc()
		return result, err
	}

	ingestRuns.WithLabelValues(string(mode), "success").Inc()
	slog.Info("Ingestion completed", "mode", mode, "feeds", result.Summary(), "unique", result.Unique,
		"saved", len(saved), "skipped", skipped, "duration", result.Duration.String())

	return result, nil
}

func (i *Ingester) collect(ctx context.Context, source feed.Source) ([]feed.Item, error) {
	slog.Debug("Fetching feed", "source", source.Name)

	data, err := i.fetcher.Run(ctx, source.URL)
	if err != nil {
		feedFailures.WithLabelValues(source.Name).Inc()
		slog.Error("Failed to fetch feed", "source", source.Name, "error", err)
		return nil, err
	}

	items, err := i.extractor.Run(data, source.Name)
	if err != nil {
		feedFailures.WithLabelValues(source.Name).Inc()
		slog.Error("Failed to extract feed items", "source", source.Name, "error", err)
		return nil, err
	}

	feedItems.WithLabelValues(source.Name).Add(float64(len(items)))
	slog.Debug("Feed extracted", "source", source.Name, "items", len(items))
	return items, nil
}

// persist writes items one at a time so a single invalid item is skipped
// without aborting the batch. Only store failures other than validation
// abort the run.
func (i *Ingester) persist(mode Mode, items []feed.Item) ([]database.Episode, int, error) {
	if mode == ModeFull {
		if err := i.episodeRepo.ClearAll(); err != nil {
			return nil, 0, fmt.Errorf("failed to clear episodes: %w", err)
		}
	}

	saved := make([]database.Episode, 0, len(items))
	skipped := 0

	for _, item := range items {
		input := item.ToInput()
		if err := input.Validate(); err != nil {
			skipped++
			slog.Warn("Episode validation failed", "source", item.Source, "title", item.Title, "error", err)
			continue
		}

		var episode database.Episode
		var err error
		if mode == ModeFull {
			episode, err = i.episodeRepo.Create(input)
		} else {
			episode, err = i.episodeRepo.Upsert(input)
		}

		if errors.Is(err, database.ErrInvalidEpisode) {
			skipped++
			slog.Warn("Episode rejected by store", "source", item.Source, "title", item.Title, "error", err)
			continue
		}
		if err != nil {
			return saved, skipped, fmt.Errorf("failed to save episode %q: %w", item.Title, err)
		}

		saved = append(saved, episode)
	}

	return saved, skipped, nil
}
