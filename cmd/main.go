package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hypertracker/internal/adapters/config"
	"hypertracker/internal/adapters/errors/noop"
	"hypertracker/internal/adapters/errors/sentry"
	"hypertracker/internal/adapters/hypertracker"
	"hypertracker/internal/adapters/oracle"
	"hypertracker/internal/adapters/postgres"
	"hypertracker/internal/adapters/telegram"
	"hypertracker/internal/metrics"
	repo "hypertracker/internal/repository/postgres"
	"hypertracker/internal/services/tracker"
	"hypertracker/internal/workers"
	heatmapworkers "hypertracker/internal/workers/heatmap"
	"hypertracker/pkg/errors"
	"hypertracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pgClient.Close()

	settingsRepo := repo.NewSettingsRepository(pgClient.DB())
	snapshotRepo := repo.NewSnapshotRepository(pgClient.DB())

	channel, err := telegram.NewBotChannel(cfg.Telegram)
	if err != nil {
		log.Fatalf("Failed to create Telegram channel: %v", err)
	}

	service := tracker.NewService(
		oracle.NewClient(cfg.Oracle),
		hypertracker.NewClient(settingsRepo),
		settingsRepo,
		snapshotRepo,
		channel,
		cfg.Telegram.ChatIDs,
		cfg.Tracker.NearestCount,
	)

	metrics.Init()
	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics.Addr, log)
	}

	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(heatmapworkers.NewIngestCollector(
		service,
		cfg.Tracker.Symbols,
		cfg.Workers.IngestInterval,
		cfg.Workers.RunTimeout,
		cfg.Workers.IngestEnabled,
	))
	scheduler.RegisterWorker(heatmapworkers.NewChangeDetector(
		service,
		cfg.Tracker.Symbols,
		cfg.Workers.ChangeDetectInterval,
		cfg.Workers.ChangeDetectOffset,
		cfg.Workers.RunTimeout,
		cfg.Workers.ChangeDetectEnabled,
	))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Info("System initialized successfully")

	waitForShutdown(ctx, cancel, scheduler, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// startMetricsServer exposes the Prometheus /metrics endpoint
func startMetricsServer(addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	go func() {
		log.Infof("Metrics server listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			log.Errorf("Metrics server error: %v", err)
		}
	}()
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, scheduler *workers.Scheduler, errorTracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	cancel()

	if err := scheduler.Stop(); err != nil {
		log.Warnf("Scheduler shutdown: %v", err)
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(ctx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
