package journal

import "time"

// Status is derived from the posted/voided stamps on an entry.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusPosted Status = "posted"
	StatusVoided Status = "voided"
)

// SourceType labels where an entry originated.
type SourceType string

const (
	SourceManual  SourceType = "manual"
	SourceInvoice SourceType = "invoice"
	SourceExpense SourceType = "expense"
	SourceBill    SourceType = "bill"
	SourcePayment SourceType = "payment"
)

// Entry is a journal entry. Drafts are editable; posting assigns the entry
// number and commits balances; voiding reverses the ledger effect while
// keeping the lines for history.
type Entry struct {
	ID          int64
	CompanyID   int64
	EntryNumber string
	EntryDate   time.Time
	Reference   string
	Description string
	SourceType  SourceType
	IsPosted    bool
	PostedAt    *time.Time
	VoidedAt    *time.Time
	VoidedBy    *int64
	VoidReason  string
	TotalDebit  float64
	TotalCredit float64
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []Line
}

// Status derives the lifecycle state.
func (e Entry) Status() Status {
	switch {
	case e.VoidedAt != nil:
		return StatusVoided
	case e.IsPosted:
		return StatusPosted
	default:
		return StatusDraft
	}
}

// CountsForLedger reports whether the entry contributes to balances and
// reports: posted and not voided.
func (e Entry) CountsForLedger() bool {
	return e.IsPosted && e.VoidedAt == nil
}

// Line stores a debit or credit amount for an account. Exactly one of
// Debit/Credit is non-zero on a valid line.
type Line struct {
	ID          int64
	EntryID     int64
	AccountID   int64
	Description string
	Debit       float64
	Credit      float64
	LineOrder   int
	CreatedAt   time.Time
}
