package variance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists snapshots and aggregates period amounts.
type Repository interface {
	InsertSnapshot(ctx context.Context, companyID int64, p Periods, requestedBy int64) (Snapshot, error)
	GetSnapshot(ctx context.Context, id int64) (Snapshot, error)
	ListSnapshots(ctx context.Context, companyID int64, limit int) ([]Snapshot, error)
	UpdateStatus(ctx context.Context, id int64, status SnapshotStatus) error
	SavePayload(ctx context.Context, id int64, payload *Result, errMsg string, at time.Time) error
	PeriodAmounts(ctx context.Context, companyID int64, start, end time.Time) ([]Amount, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed variance repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const snapshotColumns = `id, company_id, current_start, current_end, previous_start, previous_end,
status, COALESCE(error, ''), payload, requested_by, generated_at, created_at, updated_at`

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var s Snapshot
	var payload []byte
	err := row.Scan(&s.ID, &s.CompanyID, &s.Periods.CurrentStart, &s.Periods.CurrentEnd,
		&s.Periods.PreviousStart, &s.Periods.PreviousEnd, &s.Status, &s.Error, &payload,
		&s.RequestedBy, &s.GeneratedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Snapshot{}, err
	}
	if len(payload) > 0 {
		var res Result
		if err := json.Unmarshal(payload, &res); err != nil {
			return Snapshot{}, err
		}
		s.Payload = &res
	}
	return s, nil
}

func (r *repository) InsertSnapshot(ctx context.Context, companyID int64, p Periods, requestedBy int64) (Snapshot, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO variance_snapshots
(company_id, current_start, current_end, previous_start, previous_end, status, requested_by)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING `+snapshotColumns,
		companyID, p.CurrentStart, p.CurrentEnd, p.PreviousStart, p.PreviousEnd, SnapshotPending, requestedBy)
	return scanSnapshot(row)
}

func (r *repository) GetSnapshot(ctx context.Context, id int64) (Snapshot, error) {
	s, err := scanSnapshot(r.db.QueryRow(ctx, `SELECT `+snapshotColumns+` FROM variance_snapshots WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, err
	}
	return s, nil
}

func (r *repository) ListSnapshots(ctx context.Context, companyID int64, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `SELECT `+snapshotColumns+` FROM variance_snapshots
WHERE company_id=$1 ORDER BY created_at DESC LIMIT $2`, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status SnapshotStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE variance_snapshots SET status=$2, updated_at=NOW() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

func (r *repository) SavePayload(ctx context.Context, id int64, payload *Result, errMsg string, at time.Time) error {
	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}
	_, err := r.db.Exec(ctx, `UPDATE variance_snapshots
SET payload=$2, error=NULLIF($3,''), generated_at=$4, updated_at=NOW() WHERE id=$1`, id, raw, errMsg, at)
	return err
}

// PeriodAmounts aggregates the P&L detail rows for a period. Expense lines
// come back with Inverse set so a spend decrease reads as favorable.
func (r *repository) PeriodAmounts(ctx context.Context, companyID int64, start, end time.Time) ([]Amount, error) {
	rows, err := r.db.Query(ctx, `SELECT COALESCE(account_code, ''), account_name, section, amount
FROM get_profit_loss($1, $2, $3) WHERE row_type = 'detail'`, companyID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Amount
	for rows.Next() {
		var a Amount
		if err := rows.Scan(&a.AccountCode, &a.AccountName, &a.Section, &a.Amount); err != nil {
			return nil, err
		}
		a.Inverse = a.Section == "Expenses"
		out = append(out, a)
	}
	return out, rows.Err()
}
