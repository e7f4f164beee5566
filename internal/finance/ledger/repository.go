package ledger

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads posted journal lines for the ledger.
type Repository interface {
	PostedLines(ctx context.Context, companyID int64, q Query) ([]PostedLine, error)
	AccountOpening(ctx context.Context, companyID, accountID int64) (float64, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed ledger repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// PostedLines returns lines from posted, non-voided entries in the range,
// joined with entry headers and account identity. Voided entries drop out of
// the ledger entirely.
func (r *repository) PostedLines(ctx context.Context, companyID int64, q Query) ([]PostedLine, error) {
	sql := `SELECT e.id, COALESCE(e.entry_number, ''), e.entry_date, COALESCE(e.reference, ''),
COALESCE(NULLIF(l.description, ''), e.description), a.id, a.code, a.name, t.normal_balance,
a.opening_balance, l.debit, l.credit, l.line_order
FROM journal_entry_lines l
JOIN journal_entries e ON e.id = l.journal_entry_id
JOIN accounts a ON a.id = l.account_id
JOIN account_types t ON t.id = a.account_type_id
WHERE e.company_id = $1 AND e.is_posted AND e.voided_at IS NULL
  AND e.entry_date >= $2 AND e.entry_date <= $3`
	args := []any{companyID, q.From, q.To}
	if !q.AllAccounts() {
		sql += ` AND l.account_id = $4`
		args = append(args, q.AccountID)
	}
	sql += ` ORDER BY e.entry_date ASC, e.id ASC, l.line_order ASC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PostedLine
	for rows.Next() {
		var l PostedLine
		if err := rows.Scan(&l.EntryID, &l.EntryNumber, &l.EntryDate, &l.Reference, &l.Description,
			&l.AccountID, &l.AccountCode, &l.AccountName, &l.NormalBalance, &l.OpeningBalance,
			&l.Debit, &l.Credit, &l.LineOrder); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AccountOpening returns the account's opening balance, so a single-account
// view reports opening and closing even when the period has no activity.
func (r *repository) AccountOpening(ctx context.Context, companyID, accountID int64) (float64, error) {
	var opening float64
	err := r.db.QueryRow(ctx, `SELECT opening_balance FROM accounts WHERE company_id=$1 AND id=$2`,
		companyID, accountID).Scan(&opening)
	return opening, err
}
