package journal

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Service implements the journal entry lifecycle: draft, post, void.
type Service struct {
	repo      Repository
	companyID int64
	now       func() time.Time
}

// NewService wires the journal service.
func NewService(repo Repository, companyID int64) *Service {
	return &Service{repo: repo, companyID: companyID, now: time.Now}
}

// List returns entries for the company, filtered and ordered in memory, plus
// the dashboard stats computed over the unfiltered set.
func (s *Service) List(ctx context.Context, f Filter) ([]Entry, Stats, error) {
	entries, err := s.repo.List(ctx, s.companyID)
	if err != nil {
		return nil, Stats{}, err
	}
	stats := ComputeStats(entries, s.now())
	return ApplyFilter(entries, f), stats, nil
}

// Get loads a single entry with its lines.
func (s *Service) Get(ctx context.Context, id int64) (Entry, error) {
	return s.repo.GetWithLines(ctx, id)
}

// CreateDraft validates and stores a new draft entry with its lines.
func (s *Service) CreateDraft(ctx context.Context, in DraftInput) (Entry, error) {
	if err := in.Validate(); err != nil {
		return Entry{}, err
	}
	var created Entry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		created, err = s.insertDraft(ctx, tx, in)
		return err
	})
	if err != nil {
		return Entry{}, err
	}
	return s.repo.GetWithLines(ctx, created.ID)
}

// UpdateDraft rewrites a draft's header and replaces its full line set in one
// transaction, so a failure leaves the previous lines intact.
func (s *Service) UpdateDraft(ctx context.Context, id int64, in DraftInput) (Entry, error) {
	if err := in.Validate(); err != nil {
		return Entry{}, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.GetEntryForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if existing.Status() != StatusDraft {
			return ErrNotDraft
		}
		existing.EntryDate = in.EntryDate
		existing.Reference = in.Reference
		existing.Description = in.Description
		if in.SourceType != "" {
			existing.SourceType = in.SourceType
		}
		if err := tx.UpdateEntryHeader(ctx, existing); err != nil {
			return err
		}
		debit, credit := in.Totals()
		if err := tx.ReplaceLines(ctx, id, toLines(id, in.ValidLines())); err != nil {
			return err
		}
		return tx.UpdateTotals(ctx, id, debit, credit)
	})
	if err != nil {
		return Entry{}, err
	}
	return s.repo.GetWithLines(ctx, id)
}

// Post transitions a draft to posted: re-validates balance against the stored
// lines, assigns the permanent entry number and applies the balance effect.
func (s *Service) Post(ctx context.Context, id int64) (Entry, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return s.postLocked(ctx, tx, id)
	})
	if err != nil {
		return Entry{}, err
	}
	return s.repo.GetWithLines(ctx, id)
}

// CreateAndPost stores a draft and posts it in a single transaction. The
// idempotency key makes retries of the same request a no-op rejection instead
// of a duplicate entry.
func (s *Service) CreateAndPost(ctx context.Context, in DraftInput, idempotencyKey string) (Entry, error) {
	if err := in.ValidateForPosting(); err != nil {
		return Entry{}, err
	}
	var created Entry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if idempotencyKey != "" {
			if err := tx.ClaimIdempotencyKey(ctx, idempotencyKey, "journal.create_and_post"); err != nil {
				return err
			}
		}
		var err error
		created, err = s.insertDraft(ctx, tx, in)
		if err != nil {
			return err
		}
		return s.postLocked(ctx, tx, created.ID)
	})
	if err != nil {
		return Entry{}, err
	}
	return s.repo.GetWithLines(ctx, created.ID)
}

// Void reverses a posted entry. The entry and its lines stay visible for
// history; only the balance effect is undone.
func (s *Service) Void(ctx context.Context, id int64, actorID int64, reason string) (Entry, error) {
	if strings.TrimSpace(reason) == "" {
		return Entry{}, ErrVoidReason
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.GetEntryForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch existing.Status() {
		case StatusVoided:
			return ErrAlreadyVoided
		case StatusDraft:
			return ErrNotPosted
		}
		if err := tx.MarkVoided(ctx, id, actorID, reason, s.now()); err != nil {
			return err
		}
		lines, err := tx.GetLines(ctx, id)
		if err != nil {
			return err
		}
		return tx.ApplyToBalances(ctx, lines, -1)
	})
	if err != nil {
		return Entry{}, err
	}
	return s.repo.GetWithLines(ctx, id)
}

// DeleteDraft removes a draft entry and its lines. Posted and voided entries
// are permanent.
func (s *Service) DeleteDraft(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.GetEntryForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if existing.Status() != StatusDraft {
			return ErrNotDraft
		}
		return tx.DeleteEntry(ctx, id)
	})
}

func (s *Service) insertDraft(ctx context.Context, tx TxRepository, in DraftInput) (Entry, error) {
	debit, credit := in.Totals()
	source := in.SourceType
	if source == "" {
		source = SourceManual
	}
	entry := Entry{
		CompanyID:   s.companyID,
		EntryDate:   in.EntryDate,
		Reference:   in.Reference,
		Description: in.Description,
		SourceType:  source,
		TotalDebit:  debit,
		TotalCredit: credit,
		CreatedBy:   in.CreatedBy,
	}
	created, err := tx.InsertEntry(ctx, entry)
	if err != nil {
		return Entry{}, err
	}
	if err := tx.ReplaceLines(ctx, created.ID, toLines(created.ID, in.ValidLines())); err != nil {
		return Entry{}, err
	}
	return created, nil
}

// postLocked runs the posting steps against a row already locked in the
// transaction. Balance is re-checked from the stored lines, not the request,
// so a stale client cannot post an entry edited since it last loaded.
func (s *Service) postLocked(ctx context.Context, tx TxRepository, id int64) error {
	existing, err := tx.GetEntryForUpdate(ctx, id)
	if err != nil {
		return err
	}
	switch existing.Status() {
	case StatusVoided:
		return ErrAlreadyVoided
	case StatusPosted:
		return ErrNotDraft
	}
	lines, err := tx.GetLines(ctx, id)
	if err != nil {
		return err
	}
	if err := validateStoredLines(lines); err != nil {
		return err
	}
	number, err := tx.NextEntryNumber(ctx, s.companyID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostingFailed, err)
	}
	if err := tx.MarkPosted(ctx, id, number, s.now()); err != nil {
		return fmt.Errorf("%w: %v", ErrPostingFailed, err)
	}
	debit, credit := sumLines(lines)
	if err := tx.UpdateTotals(ctx, id, debit, credit); err != nil {
		return fmt.Errorf("%w: %v", ErrPostingFailed, err)
	}
	if err := tx.ApplyToBalances(ctx, lines, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrPostingFailed, err)
	}
	return nil
}

func validateStoredLines(lines []Line) error {
	countable := 0
	for _, l := range lines {
		if l.AccountID != 0 && (l.Debit > 0 || l.Credit > 0) {
			countable++
		}
	}
	if countable < 2 {
		return ErrTooFewLines
	}
	debit, credit := sumLines(lines)
	if diff := debit - credit; diff >= balanceEpsilon || diff <= -balanceEpsilon || debit <= 0 {
		return ErrUnbalanced
	}
	return nil
}

func sumLines(lines []Line) (debit, credit float64) {
	for _, l := range lines {
		debit += l.Debit
		credit += l.Credit
	}
	return debit, credit
}

func toLines(entryID int64, in []LineInput) []Line {
	out := make([]Line, 0, len(in))
	for i, l := range in {
		out = append(out, Line{
			EntryID:     entryID,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
			LineOrder:   i,
		})
	}
	return out
}
