package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/glowdesk/glowdesk/internal/app"
	"github.com/glowdesk/glowdesk/internal/booking"
	"github.com/glowdesk/glowdesk/internal/insights"
	"github.com/glowdesk/glowdesk/internal/ledger"
	"github.com/glowdesk/glowdesk/internal/masterdata"
	"github.com/glowdesk/glowdesk/internal/observability"
	"github.com/glowdesk/glowdesk/internal/platform/cache"
	"github.com/glowdesk/glowdesk/internal/platform/db"
	"github.com/glowdesk/glowdesk/internal/sales"
	"github.com/glowdesk/glowdesk/internal/treasury"
	"github.com/glowdesk/glowdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := db.RunMigrations(cfg.PGDSN); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, treasury snapshots disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	masterRepo := masterdata.NewRepository(pool)
	masterService := masterdata.NewService(masterRepo)
	masterHandler := masterdata.NewHandler(logger, masterService)

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(ledgerRepo, masterService, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService, metrics)

	treasuryRepo := treasury.NewRepository(pool)
	treasuryService := treasury.NewService(treasuryRepo, logger)
	var treasuryCache *treasury.SnapshotCache
	if redisClient != nil {
		treasuryCache = treasury.NewSnapshotCache(redisClient, cfg.TreasuryCacheTTL)
	}
	treasuryHandler := treasury.NewHandler(logger, treasuryService, treasuryCache, metrics)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo, masterService, logger)
	salesHandler := sales.NewHandler(logger, salesService)

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	notifier := jobs.NewSMSNotifier(jobClient, masterService, cfg.SMSSenderName)

	bookingRepo := booking.NewRepository(pool)
	bookingService := booking.NewService(bookingRepo, notifier, logger)
	bookingHandler := booking.NewHandler(logger, bookingService)

	insightsRepo := insights.NewRepository(pool)
	insightsService := insights.NewService(insightsRepo, logger)
	insightsHandler := insights.NewHandler(logger, insightsService, metrics)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		LedgerHandler:     ledgerHandler,
		TreasuryHandler:   treasuryHandler,
		MasterDataHandler: masterHandler,
		SalesHandler:      salesHandler,
		BookingHandler:    bookingHandler,
		InsightsHandler:   insightsHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
