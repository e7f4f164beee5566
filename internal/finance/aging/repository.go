package aging

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads pre-bucketed aging rows from the database functions.
type Repository interface {
	AgedPayables(ctx context.Context, companyID int64, asOf time.Time) ([]Row, error)
	AgedReceivables(ctx context.Context, companyID int64, asOf time.Time) ([]Row, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed aging repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) AgedPayables(ctx context.Context, companyID int64, asOf time.Time) ([]Row, error) {
	return r.query(ctx, `SELECT vendor_id, vendor_name, COALESCE(bill_number, ''), due_date,
current_amount, days_30, days_60, days_90, over_90, total
FROM get_aged_payables($1, $2)`, companyID, asOf)
}

func (r *repository) AgedReceivables(ctx context.Context, companyID int64, asOf time.Time) ([]Row, error) {
	return r.query(ctx, `SELECT customer_id, customer_name, COALESCE(invoice_number, ''), due_date,
current_amount, days_30, days_60, days_90, over_90, total
FROM get_aged_receivables($1, $2)`, companyID, asOf)
}

func (r *repository) query(ctx context.Context, sql string, companyID int64, asOf time.Time) ([]Row, error) {
	rows, err := r.db.Query(ctx, sql, companyID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.CounterpartyID, &row.Counterparty, &row.DocumentNumber, &row.DueDate,
			&row.Current, &row.Days30, &row.Days60, &row.Days90, &row.Over90, &row.Total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
