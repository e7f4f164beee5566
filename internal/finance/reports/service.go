package reports

import (
	"context"
	"time"
)

// Service assembles financial statements from source rows, with a short
// cache in front of the repository.
type Service struct {
	repo      Repository
	cache     *Cache
	companyID int64
	now       func() time.Time
}

// NewService wires the report service. cache may be nil.
func NewService(repo Repository, cache *Cache, companyID int64) *Service {
	return &Service{repo: repo, cache: cache, companyID: companyID, now: time.Now}
}

func (s *Service) asOfOrToday(asOf time.Time) time.Time {
	if asOf.IsZero() {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return asOf
}

// TrialBalance builds the trial balance as of a date.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time, hideZero bool) (TrialBalance, error) {
	asOf = s.asOfOrToday(asOf)
	var rows []TrialBalanceRow
	key := cacheKey("trial_balance", s.companyID, asOf.Format("2006-01-02"))
	err := s.cache.Fetch(ctx, "trial_balance", key, &rows, func(ctx context.Context) (interface{}, error) {
		return s.repo.TrialBalance(ctx, s.companyID, asOf)
	})
	if err != nil {
		return TrialBalance{}, err
	}
	return BuildTrialBalance(rows, hideZero), nil
}

// BalanceSheet builds the balance sheet as of a date.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (BalanceSheet, error) {
	asOf = s.asOfOrToday(asOf)
	var rows []BalanceSheetRow
	key := cacheKey("balance_sheet", s.companyID, asOf.Format("2006-01-02"))
	err := s.cache.Fetch(ctx, "balance_sheet", key, &rows, func(ctx context.Context) (interface{}, error) {
		return s.repo.BalanceSheet(ctx, s.companyID, asOf)
	})
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(rows), nil
}

// ProfitLoss builds the statement for the period. An open period defaults to
// the current month.
func (s *Service) ProfitLoss(ctx context.Context, p Period) (ProfitLoss, error) {
	if p.Start.IsZero() || p.End.IsZero() {
		now := s.now()
		p.Start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		p.End = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	var rows []ProfitLossRow
	key := cacheKey("profit_loss", s.companyID, p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
	err := s.cache.Fetch(ctx, "profit_loss", key, &rows, func(ctx context.Context) (interface{}, error) {
		return s.repo.ProfitLoss(ctx, s.companyID, p)
	})
	if err != nil {
		return ProfitLoss{}, err
	}
	return BuildProfitLoss(rows), nil
}
