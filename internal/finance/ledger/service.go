package ledger

import (
	"context"
	"time"
)

// Service loads and shapes ledger views.
type Service struct {
	repo      Repository
	companyID int64
	now       func() time.Time
}

// NewService wires the ledger service.
func NewService(repo Repository, companyID int64) *Service {
	return &Service{repo: repo, companyID: companyID, now: time.Now}
}

// normalize fills an open date range: from defaults to the start of the
// current month, to defaults to today.
func (s *Service) normalize(q Query) Query {
	now := s.now()
	if q.From.IsZero() {
		q.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if q.To.IsZero() {
		q.To = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return q
}

// View returns the ledger rows and summary for the query.
func (s *Service) View(ctx context.Context, q Query) ([]Row, Summary, error) {
	q = s.normalize(q)
	lines, err := s.repo.PostedLines(ctx, s.companyID, q)
	if err != nil {
		return nil, Summary{}, err
	}
	if q.AllAccounts() {
		rows, sum := BuildAll(lines)
		return rows, sum, nil
	}
	opening, err := s.repo.AccountOpening(ctx, s.companyID, q.AccountID)
	if err != nil {
		return nil, Summary{}, err
	}
	rows, sum := BuildSingle(opening, lines)
	return rows, sum, nil
}

// ExportView renders the query's ledger as CSV.
func (s *Service) ExportView(ctx context.Context, q Query) (string, error) {
	q = s.normalize(q)
	rows, sum, err := s.View(ctx, q)
	if err != nil {
		return "", err
	}
	return ExportCSV(rows, sum, q.AllAccounts()), nil
}
