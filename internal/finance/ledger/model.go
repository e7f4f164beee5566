package ledger

import "time"

// PostedLine is one journal line from a posted, non-voided entry joined with
// its entry header and account. The repository returns these already ordered
// by entry date then line order.
type PostedLine struct {
	EntryID        int64
	EntryNumber    string
	EntryDate      time.Time
	Reference      string
	Description    string
	AccountID      int64
	AccountCode    string
	AccountName    string
	NormalBalance  string
	OpeningBalance float64
	Debit          float64
	Credit         float64
	LineOrder      int
}

// Row is a display row of the ledger. Header rows start a new account section
// in all-accounts mode, carrying the account identity and its opening balance
// in RunningBalance.
type Row struct {
	IsHeader       bool      `json:"is_header,omitempty"`
	Date           time.Time `json:"date"`
	EntryID        int64     `json:"entry_id,omitempty"`
	EntryNumber    string    `json:"entry_number"`
	Reference      string    `json:"reference"`
	Description    string    `json:"description"`
	AccountID      int64     `json:"account_id"`
	AccountCode    string    `json:"account_code"`
	AccountName    string    `json:"account_name"`
	Debit          float64   `json:"debit"`
	Credit         float64   `json:"credit"`
	RunningBalance float64   `json:"running_balance"`
}

// Summary totals the period activity shown under the table. Opening and
// closing balances are populated in single-account mode only.
type Summary struct {
	OpeningBalance float64 `json:"opening_balance"`
	TotalDebits    float64 `json:"total_debits"`
	TotalCredits   float64 `json:"total_credits"`
	NetMovement    float64 `json:"net_movement"`
	ClosingBalance float64 `json:"closing_balance"`
	LineCount      int     `json:"line_count"`
}

// Query selects what the ledger shows. AccountID zero means all accounts.
type Query struct {
	AccountID int64
	From      time.Time
	To        time.Time
}

// AllAccounts reports whether the query spans every account.
func (q Query) AllAccounts() bool {
	return q.AccountID == 0
}
