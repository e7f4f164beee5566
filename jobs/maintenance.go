package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-hq/meridian/internal/finance/reports"
	"github.com/meridian-hq/meridian/internal/shared"
)

// HandleIdempotencyCleanup prunes idempotency keys older than the payload
// window, defaulting to 24 hours.
func HandleIdempotencyCleanup(store *shared.IdempotencyStore, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload IdempotencyCleanupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.OlderThanHours <= 0 {
			payload.OlderThanHours = 24
		}
		removed, err := store.Cleanup(ctx, time.Duration(payload.OlderThanHours)*time.Hour)
		if err != nil {
			logger.Error("idempotency cleanup", slog.Any("error", err))
			return err
		}
		logger.Info("idempotency cleanup", slog.Int64("removed", removed))
		return nil
	}
}

// HandleReportWarmup loads the three statements so the next page view hits a
// warm cache.
func HandleReportWarmup(svc *reports.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ReportWarmupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if _, err := svc.TrialBalance(ctx, time.Time{}, false); err != nil {
			logger.Error("warm trial balance", slog.Any("error", err))
			return err
		}
		if _, err := svc.BalanceSheet(ctx, time.Time{}); err != nil {
			logger.Error("warm balance sheet", slog.Any("error", err))
			return err
		}
		if _, err := svc.ProfitLoss(ctx, reports.Period{}); err != nil {
			logger.Error("warm profit loss", slog.Any("error", err))
			return err
		}
		logger.Info("report cache warmed", slog.Int64("company_id", payload.CompanyID))
		return nil
	}
}
