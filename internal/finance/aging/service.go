package aging

import (
	"context"
	"time"
)

// Side selects payables or receivables.
type Side string

const (
	Payables    Side = "payables"
	Receivables Side = "receivables"
)

// Report is the assembled aging view.
type Report struct {
	Rows       []Row   `json:"rows,omitempty"`
	Groups     []Group `json:"groups,omitempty"`
	Totals     Buckets `json:"totals"`
	Bars       []Bar   `json:"bars"`
	GrandTotal float64 `json:"grand_total"`
}

// ExportRows returns the report's documents for CSV export. A grouped report
// flattens its groups in display order so the export is never empty.
func (r Report) ExportRows() []Row {
	if len(r.Groups) == 0 {
		return r.Rows
	}
	var out []Row
	for _, g := range r.Groups {
		out = append(out, g.Rows...)
	}
	return out
}

// Service assembles aging reports.
type Service struct {
	repo      Repository
	companyID int64
	now       func() time.Time
}

// NewService wires the aging service.
func NewService(repo Repository, companyID int64) *Service {
	return &Service{repo: repo, companyID: companyID, now: time.Now}
}

// Build returns the aging report for one side, optionally grouped by
// counterparty for drill-down.
func (s *Service) Build(ctx context.Context, side Side, asOf time.Time, grouped bool) (Report, error) {
	if asOf.IsZero() {
		now := s.now()
		asOf = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	var (
		rows []Row
		err  error
	)
	switch side {
	case Receivables:
		rows, err = s.repo.AgedReceivables(ctx, s.companyID, asOf)
	default:
		rows, err = s.repo.AgedPayables(ctx, s.companyID, asOf)
	}
	if err != nil {
		return Report{}, err
	}
	totals := Totals(rows)
	rep := Report{
		Totals:     totals,
		Bars:       Bars(totals),
		GrandTotal: totals.Total,
	}
	if grouped {
		rep.Groups = GroupByCounterparty(rows)
	} else {
		rep.Rows = rows
	}
	return rep, nil
}
