package variance

import (
	"errors"
	"time"
)

// SnapshotStatus enumerates async snapshot lifecycle values.
type SnapshotStatus string

const (
	SnapshotPending    SnapshotStatus = "PENDING"
	SnapshotInProgress SnapshotStatus = "IN_PROGRESS"
	SnapshotReady      SnapshotStatus = "READY"
	SnapshotFailed     SnapshotStatus = "FAILED"
)

var (
	ErrSnapshotNotFound = errors.New("variance: snapshot not found")
	ErrInvalidPeriods   = errors.New("variance: current and previous periods are required")
)

// Amount is one account's aggregated amount in a period. Inverse marks
// expense-type lines where a decrease is the favorable direction.
type Amount struct {
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Section     string  `json:"section"`
	Inverse     bool    `json:"inverse"`
	Amount      float64 `json:"amount"`
}

// Line is one variance row: an account or section matched across the two
// periods.
type Line struct {
	AccountCode string  `json:"account_code,omitempty"`
	AccountName string  `json:"account_name"`
	Section     string  `json:"section"`
	Current     float64 `json:"current"`
	Previous    float64 `json:"previous"`
	Change      float64 `json:"change"`
	Pct         float64 `json:"pct"`
	HasPct      bool    `json:"has_pct"`
	Favorable   bool    `json:"favorable"`
}

// Result pairs the per-account lines with the per-section totals.
type Result struct {
	Lines    []Line `json:"lines"`
	Sections []Line `json:"sections"`
}

// Periods bounds the two compared ranges.
type Periods struct {
	CurrentStart  time.Time `json:"current_start"`
	CurrentEnd    time.Time `json:"current_end"`
	PreviousStart time.Time `json:"previous_start"`
	PreviousEnd   time.Time `json:"previous_end"`
}

// Validate requires both ranges to be closed.
func (p Periods) Validate() error {
	if p.CurrentStart.IsZero() || p.CurrentEnd.IsZero() || p.PreviousStart.IsZero() || p.PreviousEnd.IsZero() {
		return ErrInvalidPeriods
	}
	return nil
}

// Snapshot stores a requested comparison with its computed payload.
type Snapshot struct {
	ID          int64          `json:"id"`
	CompanyID   int64          `json:"company_id"`
	Periods     Periods        `json:"periods"`
	Status      SnapshotStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	Payload     *Result        `json:"payload,omitempty"`
	RequestedBy int64          `json:"requested_by"`
	GeneratedAt *time.Time     `json:"generated_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
