package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hq/meridian/internal/platform/db"
)

var (
	// ErrAccountNotFound occurs when an account id has no row.
	ErrAccountNotFound = errors.New("accounts: account not found")
	// ErrDuplicateCode occurs when an account code already exists for the company.
	ErrDuplicateCode = errors.New("accounts: an account with this code already exists")
	// ErrChartNotEmpty occurs when default chart seeding hits existing accounts.
	ErrChartNotEmpty = errors.New("accounts: chart of accounts already initialised")
)

// Repository encapsulates DB operations for the chart of accounts.
type Repository interface {
	ListTypes(ctx context.Context) ([]AccountType, error)
	List(ctx context.Context, companyID int64) ([]Account, error)
	Get(ctx context.Context, id int64) (Account, error)
	Create(ctx context.Context, a Account) (Account, error)
	Update(ctx context.Context, a Account) (Account, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SeedDefaultChart(ctx context.Context, companyID int64, defaults []DefaultAccount) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListTypes(ctx context.Context) ([]AccountType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, normal_balance, display_order FROM account_types ORDER BY display_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var types []AccountType
	for rows.Next() {
		var t AccountType
		if err := rows.Scan(&t.ID, &t.Name, &t.NormalBalance, &t.DisplayOrder); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

const accountColumns = `id, company_id, code, name, COALESCE(description, ''), account_type_id, parent_id, currency, opening_balance, current_balance, is_active, is_system, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Description, &a.TypeID, &a.ParentID,
		&a.Currency, &a.OpeningBalance, &a.CurrentBalance, &a.IsActive, &a.IsSystem, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE company_id=$1 ORDER BY code ASC LIMIT 1000`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, a Account) (Account, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO accounts (company_id, code, name, description, account_type_id, parent_id, currency, opening_balance, current_balance, is_active, is_system)
VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8,$8,$9,false)
RETURNING `+accountColumns,
		a.CompanyID, a.Code, a.Name, a.Description, a.TypeID, a.ParentID, a.Currency, a.OpeningBalance, a.IsActive)
	created, err := scanAccount(row)
	if err != nil {
		return Account{}, mapDuplicate(err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, a Account) (Account, error) {
	row := r.db.QueryRow(ctx, `UPDATE accounts
SET code=$2, name=$3, description=NULLIF($4,''), account_type_id=$5, parent_id=$6, currency=$7, opening_balance=$8, is_active=$9, updated_at=NOW()
WHERE id=$1
RETURNING `+accountColumns,
		a.ID, a.Code, a.Name, a.Description, a.TypeID, a.ParentID, a.Currency, a.OpeningBalance, a.IsActive)
	updated, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, mapDuplicate(err)
	}
	return updated, nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET is_active=$2, updated_at=NOW() WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *repository) SeedDefaultChart(ctx context.Context, companyID int64, defaults []DefaultAccount) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var existing int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE company_id=$1`, companyID).Scan(&existing); err != nil {
			return err
		}
		if existing > 0 {
			return ErrChartNotEmpty
		}
		for _, d := range defaults {
			if _, err := tx.Exec(ctx, `INSERT INTO accounts (company_id, code, name, description, account_type_id, currency, opening_balance, current_balance, is_active, is_system)
SELECT $1, $2, $3, NULLIF($4,''), t.id, $6, 0, 0, true, $7
FROM account_types t WHERE t.name=$5`,
				companyID, d.Code, d.Name, d.Description, d.TypeName, d.Currency, d.IsSystem); err != nil {
				return err
			}
		}
		return nil
	})
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateCode
	}
	return err
}
