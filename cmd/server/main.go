package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/episode-timeline/app/api"
	"github.com/lysyi3m/episode-timeline/app/cfg"
	"github.com/lysyi3m/episode-timeline/app/database"
	"github.com/lysyi3m/episode-timeline/app/feed"
	"github.com/lysyi3m/episode-timeline/app/ingest"
	"github.com/lysyi3m/episode-timeline/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	if err := run(appCfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func openStore(appCfg *cfg.Cfg) (database.Store, error) {
	if appCfg.DBPath == "" {
		slog.Info("Using in-memory episode store")
		return database.NewMemoryStore(), nil
	}

	store, err := database.NewSQLiteStore(appCfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Using SQLite episode store", "path", appCfg.DBPath)
	return store, nil
}

func run(appCfg *cfg.Cfg) error {
	slog.Info("Starting Episode Timeline", "version", appCfg.Version, "port", appCfg.Port)

	store, err := openStore(appCfg)
	if err != nil {
		return fmt.Errorf("failed to open episode store: %w", err)
	}
	defer store.Close()

	if appCfg.SampleData {
		if err := database.Seed(store); err != nil {
			return fmt.Errorf("failed to seed sample episodes: %w", err)
		}
		slog.Info("Sample episodes seeded")
	}

	sourceCache := feed.NewSourceCache(appCfg.SourcesFile, appCfg.PatreonAuth)
	if err := sourceCache.Run(); err != nil {
		return fmt.Errorf("failed to load feed sources: %w", err)
	}
	slog.Info("Feed sources loaded", "count", sourceCache.GetSourceCount())

	fetcher := feed.NewFetcher(&http.Client{}, appCfg.UserAgent, appCfg.FetchTimeoutDuration())
	extractor := feed.NewExtractor(feed.NewCategorizer())
	ingester := ingest.NewIngester(sourceCache, fetcher, extractor, feed.NewDeduplicator(), store)

	// A full startup refresh clears the store, which would drop seeded samples.
	startupMode := ingest.ModeFull
	if appCfg.SampleData {
		startupMode = ingest.ModeIncremental
	}

	scheduler := tasks.NewScheduler(ingester, appCfg.RefreshIntervalDuration(), appCfg.WorkerCount, startupMode)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount,
		"interval", appCfg.RefreshIntervalDuration().String(), "startup_mode", startupMode)

	var refreshLimiter *api.RateLimiter
	if appCfg.RefreshRate > 0 {
		refreshLimiter = api.NewRateLimiter(appCfg.RefreshRate, appCfg.RefreshBurst)
	}

	generator := feed.NewGenerator(appCfg.PublicURL(), appCfg.Version)
	handler := api.NewHandler(store, ingester, generator, sourceCache, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, refreshLimiter),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // refresh requests wait for a full ingestion
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr, "url", appCfg.PublicURL())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		return err
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Episode Timeline shutdown complete")
	return nil
}
