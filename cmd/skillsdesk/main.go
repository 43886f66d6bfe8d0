package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/skillsdesk/skillsdesk/internal/app"
	"github.com/skillsdesk/skillsdesk/internal/audit"
	"github.com/skillsdesk/skillsdesk/internal/customers"
	"github.com/skillsdesk/skillsdesk/internal/events"
	"github.com/skillsdesk/skillsdesk/internal/installation"
	"github.com/skillsdesk/skillsdesk/internal/observability"
	"github.com/skillsdesk/skillsdesk/internal/platform/cache"
	"github.com/skillsdesk/skillsdesk/internal/platform/db"
	"github.com/skillsdesk/skillsdesk/internal/policy"
	"github.com/skillsdesk/skillsdesk/internal/roaming"
	"github.com/skillsdesk/skillsdesk/internal/shared"
	"github.com/skillsdesk/skillsdesk/internal/waiver"
	"github.com/skillsdesk/skillsdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("skillsdesk", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	waiverPolicy, err := policy.Load(cfg.DocumentsDir)
	if err != nil {
		return err
	}
	template, catalog, err := installation.LoadSchedule(cfg.DocumentsDir)
	if err != nil {
		return err
	}
	coverage, err := installation.LoadCoverage(cfg.DocumentsDir)
	if err != nil {
		return err
	}
	rates, err := roaming.LoadRates(cfg.DocumentsDir)
	if err != nil {
		return err
	}
	ledger, err := customers.LoadLedger(cfg.DocumentsDir)
	if err != nil {
		return err
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var pool *pgxpool.Pool
	if cfg.PGDSN != "" {
		pool, err = db.New(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := db.EnsureAuditSchema(ctx, pool); err != nil {
			return err
		}
	} else {
		logger.Info("audit trail disabled, PG_DSN not set")
	}
	auditLogger := shared.NewAuditLogger(pool)

	var publisher shared.EventPublisher = events.NewLogPublisher(logger)
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.Dial(cfg.AMQPURL, events.Config{Exchange: cfg.AMQPExchange}, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := amqpPublisher.Close(); err != nil {
				logger.Warn("amqp close", slog.Any("error", err))
			}
		}()
		publisher = amqpPublisher
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer inspector.Close()
	dispatcher := jobs.NewDispatcher(jobClient)

	metrics := observability.NewMetrics()

	customerService := customers.NewService(ledger)
	waiverService := waiver.NewService(waiverPolicy, ledger, waiver.NewStore(), waiver.ServiceConfig{
		Notifier: dispatcher,
		Audit:    auditLogger,
		Events:   publisher,
		Metrics:  metrics,
		Logger:   logger,
	})
	allocator := installation.NewAllocator(template, cfg.SlotsLenientDates, nil).LimitSpan(cfg.SlotsMaxSpanDays)
	installationService := installation.NewService(catalog, coverage, allocator, installation.NewStore(), installation.ServiceConfig{
		TechnicianID: cfg.TechnicianID,
		Notifier:     dispatcher,
		Audit:        auditLogger,
		Events:       publisher,
		Metrics:      metrics,
		Logger:       logger,
	})
	roamingService := roaming.NewService(rates, ledger, roaming.ServiceConfig{
		Notifier: dispatcher,
		Audit:    auditLogger,
		Events:   publisher,
		Metrics:  metrics,
		Logger:   logger,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		CustomersHandler:    customers.NewHandler(logger, customerService),
		WaiverHandler:       waiver.NewHandler(logger, waiverService, shared.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)),
		InstallationHandler: installation.NewHandler(logger, installationService),
		RoamingHandler:      roaming.NewHandler(logger, roamingService),
		AuditHandler:        audit.NewHandler(logger, audit.NewService(auditLogger)),
		JobHandler:          jobs.NewHandler(inspector, logger),
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppShutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
