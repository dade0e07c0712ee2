package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/odyssey-admin/cmd/odyssey/cli"
	"github.com/odyssey-erp/odyssey-admin/internal/app"
	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/ledger"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/products"
	"github.com/odyssey-erp/odyssey-admin/internal/media"
	"github.com/odyssey-erp/odyssey-admin/internal/observability"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/cache"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/db"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/gotenberg"
	"github.com/odyssey-erp/odyssey-admin/internal/report"
	"github.com/odyssey-erp/odyssey-admin/internal/report/export"
	reporthttp "github.com/odyssey-erp/odyssey-admin/internal/report/http"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
	"github.com/odyssey-erp/odyssey-admin/jobs"
)

const usage = `usage: odyssey [command]

commands:
  serve                 run the HTTP API (default)
  migrate               apply database migrations and exit
  jobs trigger <task>   enqueue a background task (reports:warmup)
  jobs stats            print default queue statistics
  token <email>         sign a development bearer token`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}
	switch command {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "migrate":
		err = db.Migrate(cfg.PGDSN)
		if err == nil {
			logger.Info("migrations applied")
		}
	case "jobs":
		err = runJobs(ctx, cfg, args[1:])
	case "token":
		if len(args) < 2 {
			err = fmt.Errorf("token: email argument required\n%s", usage)
			break
		}
		var token string
		token, err = cli.IssueToken(cfg.AuthSecret, args[1], 24*time.Hour)
		if err == nil {
			fmt.Println(token)
		}
	default:
		err = fmt.Errorf("unknown command %q\n%s", command, usage)
	}
	if err != nil {
		logger.Error(command+" failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runJobs(ctx context.Context, cfg *app.Config, args []string) error {
	c := cli.NewJobsCLI(cfg.RedisAddr)
	defer func() { _ = c.Close() }()

	if len(args) == 0 {
		return fmt.Errorf("jobs: subcommand required\n%s", usage)
	}
	switch args[0] {
	case "trigger":
		if len(args) < 2 {
			return fmt.Errorf("jobs trigger: task name required")
		}
		info, err := c.Trigger(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
		return nil
	case "stats":
		stats, err := c.InspectQueue()
		if err != nil {
			return err
		}
		fmt.Println(stats)
		return nil
	default:
		return fmt.Errorf("jobs: unknown subcommand %q", args[0])
	}
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	if cfg.DBAutoMigrate {
		if err := db.Migrate(cfg.PGDSN); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{ApplicationName: "odyssey-admin"})
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports served uncached and images deleted inline", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()

	store, mediaFiles, err := newMediaStore(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	var jobClient *jobs.Client
	var jobHandler *jobs.Handler
	if redisClient != nil {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		jobClient = jobs.NewClient(redisOpts)
		defer func() { _ = jobClient.Close() }()
		inspector := asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, metrics.Jobs(), logger)
	} else {
		jobHandler = jobs.NewHandler(nil, metrics.Jobs(), logger)
	}
	images := jobs.NewImageQueue(jobClient, media.NewRemover(store, logger), logger)

	categoryRepo := categories.NewRepository(pool)
	productRepo := products.NewRepository(pool)
	salesRepo := ledger.NewRepository(pool, ledger.KindSale)
	expenseRepo := ledger.NewRepository(pool, ledger.KindExpense)

	var reportCache *report.Cache
	if redisClient != nil {
		reportCache = report.NewCache(redisClient, cfg.ReportCacheTTL)
	}
	reports := report.NewService(
		report.NewStoreSource(categoryRepo, productRepo, salesRepo, expenseRepo),
		reportCache,
		report.Options{Location: cfg.ReportLocation(), Logger: logger, Observer: metrics, BuildTimeout: cfg.AppRequestTimeout},
	)

	categoryService := categories.NewService(categoryRepo, reports, logger)
	productService := products.NewService(productRepo, categoryRepo, images, reports, logger)
	salesService := ledger.NewService(ledger.KindSale, salesRepo, productRepo, categoryRepo, reports, logger)
	expenseService := ledger.NewService(ledger.KindExpense, expenseRepo, productRepo, categoryRepo, reports, logger)

	templates, err := view.NewEngine()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	pdf := gotenberg.NewClient(cfg.GotenbergURL)
	if err := pdf.Ping(ctx); err != nil {
		logger.Warn("gotenberg unreachable, pdf exports will fail until it is up", slog.Any("error", err))
	}
	reportHandler := reporthttp.NewHandler(logger, reports, export.NewPrinter(templates, pdf))
	reportHandler.WithExportLimit(cfg.RateLimitPerMinute / 6)

	checks := map[string]app.HealthCheck{"postgres": pool.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	params := app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Metrics:           metrics,
		AuthHandler:       auth.NewHandler(logger, auth.NewVerifier(cfg.AuthSecret, cfg.AdminEmails)),
		CategoriesHandler: categories.NewHandler(logger, categoryService),
		ProductsHandler:   products.NewHandler(logger, productService),
		SalesHandler:      ledger.NewHandler(logger, salesService, cfg.ReportLocation()),
		ExpensesHandler:   ledger.NewHandler(logger, expenseService, cfg.ReportLocation()),
		ReportHandler:     reportHandler,
		MediaHandler:      media.NewHandler(logger, store),
		JobHandler:        jobHandler,
		HealthChecks:      checks,
	}
	if mediaFiles != nil {
		params.MediaFiles = mediaFiles.FileServer()
		params.MediaPrefix = mediaFiles.Prefix()
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      app.NewRouter(params),
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newMediaStore returns the configured store and, for the local backend, the store again
// so its files can be served.
func newMediaStore(ctx context.Context, cfg *app.Config) (media.Store, *media.LocalStore, error) {
	if cfg.MediaBackend == "gcs" {
		store, err := media.NewGCSStore(ctx, cfg.GCSBucket)
		return store, nil, err
	}
	store, err := media.NewLocalStore(cfg.MediaDir, cfg.MediaPublicPrefix)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}
