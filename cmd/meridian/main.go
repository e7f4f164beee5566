package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-hq/meridian/internal/app"
	"github.com/meridian-hq/meridian/internal/finance/accounts"
	"github.com/meridian-hq/meridian/internal/finance/aging"
	"github.com/meridian-hq/meridian/internal/finance/journal"
	"github.com/meridian-hq/meridian/internal/finance/ledger"
	"github.com/meridian-hq/meridian/internal/finance/reports"
	"github.com/meridian-hq/meridian/internal/finance/variance"
	"github.com/meridian-hq/meridian/internal/observability"
	"github.com/meridian-hq/meridian/internal/platform/cache"
	"github.com/meridian-hq/meridian/internal/platform/db"
	"github.com/meridian-hq/meridian/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	metrics := observability.NewMetrics()

	queue := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	accountsService := accounts.NewService(accounts.NewRepository(pool), cfg.CompanyID, cfg.BaseCurrency)
	journalService := journal.NewService(journal.NewRepository(pool), cfg.CompanyID)
	ledgerService := ledger.NewService(ledger.NewRepository(pool), cfg.CompanyID)
	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL, metrics)
	reportsService := reports.NewService(reports.NewRepository(pool), reportCache, cfg.CompanyID)
	agingService := aging.NewService(aging.NewRepository(pool), cfg.CompanyID)
	varianceService := variance.NewService(variance.NewRepository(pool), queue, cfg.CompanyID)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AccountsHandler: accounts.NewHandler(logger, accountsService),
		JournalHandler:  journal.NewHandler(logger, journalService),
		LedgerHandler:   ledger.NewHandler(logger, ledgerService),
		ReportsHandler:  reports.NewHandler(logger, reportsService),
		AgingHandler:    aging.NewHandler(logger, agingService),
		VarianceHandler: variance.NewHandler(logger, varianceService),
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("meridian listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("meridian stopped")
}
