package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcingdesk/newsdesk/app/api"
	"github.com/sourcingdesk/newsdesk/app/cache"
	"github.com/sourcingdesk/newsdesk/app/cfg"
	"github.com/sourcingdesk/newsdesk/app/news"
	"github.com/sourcingdesk/newsdesk/app/summary"
	"github.com/sourcingdesk/newsdesk/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Newsdesk server", "version", appConfig.Version)

	// Cache storage backend
	store, err := newStore(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", appConfig.StorageBackend, err)
	}
	defer store.Close()
	slog.Info("Cache storage initialized", "backend", appConfig.StorageBackend)

	freshCache := cache.New(store, time.Duration(appConfig.FreshnessWindow)*time.Hour)

	// Topic configurations
	topicCache := news.NewTopicCache(appConfig.TopicsDir)
	if err := topicCache.Run(); err != nil {
		log.Fatalf("Failed to load topic configurations: %v", err)
	}
	slog.Info("Topic configurations loaded", "count", topicCache.GetConfigCount(), "dir", appConfig.TopicsDir)

	// Core pipeline components
	httpClient := &http.Client{}
	fetcher := news.NewFetcher(httpClient, appConfig.UserAgent,
		time.Duration(appConfig.FetchTimeout)*time.Second, appConfig.FetchRetries)
	aggregator := news.NewAggregator(fetcher)

	summarizer := summary.NewClient(appConfig.SummaryAPIURL, appConfig.SummaryAPIKey, appConfig.SummaryModel)
	if !summarizer.Enabled() {
		slog.Info("Summary service disabled, digests use local fallback (SUMMARY_API_KEY not set)")
	}

	// Background refresh scheduler
	scheduler := tasks.NewScheduler(topicCache, aggregator, summarizer, freshCache)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appConfig.WorkerCount,
		"interval", (time.Duration(appConfig.SchedulerInterval) * time.Second).String())

	// HTTP server
	apiHandler := api.NewHandler(topicCache, freshCache, aggregator, summarizer)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler and store are stopped via defer
	slog.Info("Newsdesk server shutdown complete")
}

func newStore(appConfig *cfg.Cfg) (cache.Store, error) {
	switch appConfig.StorageBackend {
	case "memory":
		return cache.NewMemoryStore(), nil
	case "sqlite":
		return cache.NewSQLiteStore(appConfig.SQLitePath)
	case "redis":
		return cache.NewRedisStore(appConfig.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", appConfig.StorageBackend)
	}
}
