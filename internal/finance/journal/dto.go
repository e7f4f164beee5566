package journal

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Balance tolerance for posting. Amounts are entered with two decimals, so
// anything under half a cent counts as equal.
const balanceEpsilon = 0.005

// Validation errors mirror the messages shown inline in the entry form.
var (
	ErrMissingHeader    = errors.New("Date and description are required")
	ErrTooFewLines      = errors.New("At least 2 line items with accounts and amounts required")
	ErrUnbalanced       = errors.New("Total debits must equal total credits to post")
	ErrVoidReason       = errors.New("Void reason is required")
	ErrNotDraft         = errors.New("journal: only draft entries can be edited or deleted")
	ErrNotPosted        = errors.New("journal: only posted entries can be voided")
	ErrAlreadyVoided    = errors.New("journal: entry is already voided")
	ErrEntryNotFound    = errors.New("journal: entry not found")
	ErrPostingFailed    = errors.New("journal: entry was saved but posting failed")
	ErrDuplicateRequest = errors.New("journal: request was already processed")
)

// LineInput is one row of the entry form.
type LineInput struct {
	AccountID   int64
	Description string
	Debit       float64
	Credit      float64
}

// Normalize enforces the one-sided invariant: when both amounts are set the
// larger intent wins and the opposite field is cleared, matching the form
// behaviour of clearing the opposing column as the user types.
func (l LineInput) Normalize() LineInput {
	if l.Debit > 0 && l.Credit > 0 {
		if l.Debit >= l.Credit {
			l.Credit = 0
		} else {
			l.Debit = 0
		}
	}
	if l.Debit < 0 {
		l.Debit = 0
	}
	if l.Credit < 0 {
		l.Credit = 0
	}
	return l
}

// Countable reports whether the line has an account and a non-zero amount.
func (l LineInput) Countable() bool {
	return l.AccountID != 0 && (l.Debit > 0 || l.Credit > 0)
}

// DraftInput carries the entry form fields.
type DraftInput struct {
	EntryDate   time.Time
	Reference   string
	Description string
	SourceType  SourceType
	CreatedBy   int64
	Lines       []LineInput
}

// ValidLines returns the normalized, countable lines in form order.
func (in DraftInput) ValidLines() []LineInput {
	out := make([]LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		l = l.Normalize()
		if l.Countable() {
			out = append(out, l)
		}
	}
	return out
}

// Totals sums the countable lines.
func (in DraftInput) Totals() (debit, credit float64) {
	for _, l := range in.ValidLines() {
		debit += l.Debit
		credit += l.Credit
	}
	return debit, credit
}

// Balanced reports whether the entry may be posted.
func (in DraftInput) Balanced() bool {
	debit, credit := in.Totals()
	return math.Abs(debit-credit) < balanceEpsilon && debit > 0
}

// Validate runs the draft-save contract. No persistence happens when it
// fails.
func (in DraftInput) Validate() error {
	if in.EntryDate.IsZero() || strings.TrimSpace(in.Description) == "" {
		return ErrMissingHeader
	}
	if len(in.ValidLines()) < 2 {
		return ErrTooFewLines
	}
	return nil
}

// ValidateForPosting adds the balance requirement on top of Validate.
func (in DraftInput) ValidateForPosting() error {
	if err := in.Validate(); err != nil {
		return err
	}
	if !in.Balanced() {
		return ErrUnbalanced
	}
	return nil
}

// Filter captures the entry listing controls.
type Filter struct {
	Query  string
	Status Status
	Source SourceType
	SortBy string
}

// Stats summarises the entry list for the dashboard header.
type Stats struct {
	Total           int
	Drafts          int
	PostedThisMonth int
	DebitsThisMonth float64
}
