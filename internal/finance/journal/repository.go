package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hq/meridian/internal/platform/db"
)

// Repository encapsulates DB operations for journal entries.
type Repository interface {
	List(ctx context.Context, companyID int64) ([]Entry, error)
	GetWithLines(ctx context.Context, id int64) (Entry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available within a transaction. The
// replace-all-lines edit, posting and voiding all run through this so a
// failure can never leave a mixed old/new line set or a half-posted entry.
type TxRepository interface {
	InsertEntry(ctx context.Context, e Entry) (Entry, error)
	UpdateEntryHeader(ctx context.Context, e Entry) error
	DeleteEntry(ctx context.Context, id int64) error
	GetEntryForUpdate(ctx context.Context, id int64) (Entry, error)
	GetLines(ctx context.Context, entryID int64) ([]Line, error)
	ReplaceLines(ctx context.Context, entryID int64, lines []Line) error
	UpdateTotals(ctx context.Context, entryID int64, debit, credit float64) error
	NextEntryNumber(ctx context.Context, companyID int64) (string, error)
	MarkPosted(ctx context.Context, id int64, number string, at time.Time) error
	MarkVoided(ctx context.Context, id int64, by int64, reason string, at time.Time) error
	ApplyToBalances(ctx context.Context, lines []Line, sign float64) error
	ClaimIdempotencyKey(ctx context.Context, key, operation string) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a pgx-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const entryColumns = `id, company_id, COALESCE(entry_number, ''), entry_date, COALESCE(reference, ''), description, source_type,
is_posted, posted_at, voided_at, voided_by, COALESCE(void_reason, ''), total_debit, total_credit, created_by, created_at, updated_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.CompanyID, &e.EntryNumber, &e.EntryDate, &e.Reference, &e.Description, &e.SourceType,
		&e.IsPosted, &e.PostedAt, &e.VoidedAt, &e.VoidedBy, &e.VoidReason, &e.TotalDebit, &e.TotalCredit,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE company_id=$1 ORDER BY entry_date DESC, id DESC LIMIT 500`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) GetWithLines(ctx context.Context, id int64) (Entry, error) {
	e, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}
	lines, err := queryLines(ctx, r.db, id)
	if err != nil {
		return Entry{}, err
	}
	e.Lines = lines
	return e, nil
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryLines(ctx context.Context, q queryer, entryID int64) ([]Line, error) {
	rows, err := q.Query(ctx, `SELECT id, journal_entry_id, account_id, COALESCE(description, ''), debit, credit, line_order, created_at
FROM journal_entry_lines WHERE journal_entry_id=$1 ORDER BY line_order ASC`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.Description, &l.Debit, &l.Credit, &l.LineOrder, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertEntry(ctx context.Context, e Entry) (Entry, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (company_id, entry_date, reference, description, source_type, is_posted, total_debit, total_credit, created_by)
VALUES ($1,$2,NULLIF($3,''),$4,$5,false,$6,$7,$8)
RETURNING id, created_at, updated_at`,
		e.CompanyID, e.EntryDate, e.Reference, e.Description, e.SourceType, e.TotalDebit, e.TotalCredit, e.CreatedBy)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (r *txRepository) UpdateEntryHeader(ctx context.Context, e Entry) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries
SET entry_date=$2, reference=NULLIF($3,''), description=$4, source_type=$5, updated_at=NOW()
WHERE id=$1`, e.ID, e.EntryDate, e.Reference, e.Description, e.SourceType)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *txRepository) DeleteEntry(ctx context.Context, id int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE journal_entry_id=$1`, id); err != nil {
		return err
	}
	cmd, err := r.tx.Exec(ctx, `DELETE FROM journal_entries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *txRepository) GetEntryForUpdate(ctx context.Context, id int64) (Entry, error) {
	e, err := scanEntry(r.tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *txRepository) GetLines(ctx context.Context, entryID int64) ([]Line, error) {
	return queryLines(ctx, r.tx, entryID)
}

func (r *txRepository) ReplaceLines(ctx context.Context, entryID int64, lines []Line) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE journal_entry_id=$1`, entryID); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_entry_lines (journal_entry_id, account_id, description, debit, credit, line_order)
VALUES ($1,$2,NULLIF($3,''),$4,$5,$6)`, entryID, l.AccountID, l.Description, l.Debit, l.Credit, l.LineOrder); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) UpdateTotals(ctx context.Context, entryID int64, debit, credit float64) error {
	_, err := r.tx.Exec(ctx, `UPDATE journal_entries SET total_debit=$2, total_credit=$3, updated_at=NOW() WHERE id=$1`, entryID, debit, credit)
	return err
}

// NextEntryNumber draws from a per-company sequence so posted numbers are
// dense and permanent.
func (r *txRepository) NextEntryNumber(ctx context.Context, companyID int64) (string, error) {
	var next int64
	err := r.tx.QueryRow(ctx, `INSERT INTO journal_entry_sequences (company_id, last_number)
VALUES ($1, 1)
ON CONFLICT (company_id) DO UPDATE SET last_number = journal_entry_sequences.last_number + 1
RETURNING last_number`, companyID).Scan(&next)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("JE-%06d", next), nil
}

func (r *txRepository) MarkPosted(ctx context.Context, id int64, number string, at time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries SET is_posted=true, entry_number=$2, posted_at=$3, updated_at=NOW() WHERE id=$1`, id, number, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *txRepository) MarkVoided(ctx context.Context, id int64, by int64, reason string, at time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries SET voided_at=$2, voided_by=$3, void_reason=$4, updated_at=NOW() WHERE id=$1`, id, at, by, reason)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ApplyToBalances moves account running totals by the line amounts in the
// direction of the account's normal balance. sign is +1 when posting and -1
// when voiding.
func (r *txRepository) ApplyToBalances(ctx context.Context, lines []Line, sign float64) error {
	for _, l := range lines {
		if _, err := r.tx.Exec(ctx, `UPDATE accounts a
SET current_balance = a.current_balance + $2 * (CASE WHEN t.normal_balance = 'debit' THEN $3 - $4 ELSE $4 - $3 END),
    updated_at = NOW()
FROM account_types t
WHERE a.id = $1 AND t.id = a.account_type_id`, l.AccountID, sign, l.Debit, l.Credit); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) ClaimIdempotencyKey(ctx context.Context, key, operation string) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO idempotency_keys (key, module, created_at) VALUES ($1, $2, NOW())`, key, operation)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRequest
		}
		return err
	}
	return nil
}
