package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads report rows. The row shape and classification are owned
// by SQL functions in the database; the Go side presents, it does not
// recompute authoritative totals.
type Repository interface {
	TrialBalance(ctx context.Context, companyID int64, asOf time.Time) ([]TrialBalanceRow, error)
	BalanceSheet(ctx context.Context, companyID int64, asOf time.Time) ([]BalanceSheetRow, error)
	ProfitLoss(ctx context.Context, companyID int64, p Period) ([]ProfitLossRow, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed report repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) TrialBalance(ctx context.Context, companyID int64, asOf time.Time) ([]TrialBalanceRow, error) {
	rows, err := r.db.Query(ctx, `SELECT account_code, account_name, account_type, debit_balance, credit_balance
FROM get_trial_balance($1, $2)`, companyID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TrialBalanceRow
	for rows.Next() {
		var row TrialBalanceRow
		if err := rows.Scan(&row.AccountCode, &row.AccountName, &row.AccountType, &row.DebitBalance, &row.CreditBalance); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) BalanceSheet(ctx context.Context, companyID int64, asOf time.Time) ([]BalanceSheetRow, error) {
	rows, err := r.db.Query(ctx, `SELECT category, COALESCE(subcategory, ''), COALESCE(account_code, ''), account_name, balance, is_summary
FROM get_balance_sheet($1, $2)`, companyID, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BalanceSheetRow
	for rows.Next() {
		var row BalanceSheetRow
		if err := rows.Scan(&row.Category, &row.Subcategory, &row.AccountCode, &row.AccountName, &row.Balance, &row.IsSummary); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) ProfitLoss(ctx context.Context, companyID int64, p Period) ([]ProfitLossRow, error) {
	rows, err := r.db.Query(ctx, `SELECT row_type, section, COALESCE(account_code, ''), account_name, amount
FROM get_profit_loss($1, $2, $3)`, companyID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProfitLossRow
	for rows.Next() {
		var row ProfitLossRow
		if err := rows.Scan(&row.RowType, &row.Section, &row.AccountCode, &row.AccountName, &row.Amount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
