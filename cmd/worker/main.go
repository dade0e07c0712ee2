package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/odyssey-admin/internal/app"
	"github.com/odyssey-erp/odyssey-admin/internal/ledger"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/products"
	"github.com/odyssey-erp/odyssey-admin/internal/media"
	"github.com/odyssey-erp/odyssey-admin/internal/observability"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/cache"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/db"
	"github.com/odyssey-erp/odyssey-admin/internal/report"
	"github.com/odyssey-erp/odyssey-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg).With(slog.String("component", "worker"))

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{ApplicationName: "odyssey-worker"})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	var store media.Store
	if cfg.MediaBackend == "gcs" {
		gcs, err := media.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			logger.Error("init gcs store", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = gcs.Close() }()
		store = gcs
	} else {
		local, err := media.NewLocalStore(cfg.MediaDir, cfg.MediaPublicPrefix)
		if err != nil {
			logger.Error("init local store", slog.Any("error", err))
			os.Exit(1)
		}
		store = local
	}

	reportCache := report.NewCache(redisClient, cfg.ReportCacheTTL)
	reports := report.NewService(
		report.NewStoreSource(
			categories.NewRepository(pool),
			products.NewRepository(pool),
			ledger.NewRepository(pool, ledger.KindSale),
			ledger.NewRepository(pool, ledger.KindExpense),
		),
		reportCache,
		report.Options{Location: cfg.ReportLocation(), Logger: logger, Observer: metrics, BuildTimeout: cfg.AppRequestTimeout},
	)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	client := jobs.NewClient(redisOpts)
	defer func() { _ = client.Close() }()

	// Each data change bumps the cache version; rebuild the rollup right after.
	err = reportCache.Subscribe(ctx, func(version int64) {
		if err := client.EnqueueReportsWarmup(ctx, "cache-bump", version); err != nil {
			logger.Warn("enqueue warmup after bump", slog.Int64("version", version), slog.Any("error", err))
		}
	})
	if err != nil {
		logger.Warn("subscribe to report cache bumps", slog.Any("error", err))
	}

	warmupTask, err := jobs.NewReportsWarmupTask("schedule", 0)
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	mediaJob := jobs.NewMediaDeleteJob(media.NewRemover(store, logger), logger, metrics.Jobs())
	warmupJob := jobs.NewReportsWarmupJob(reports, logger, metrics.Jobs())

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Location:  cfg.ReportLocation(),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskMediaDelete, Handler: mediaJob.Handle},
			{Type: jobs.TaskReportsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "5 0 * * *", Task: warmupTask},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
