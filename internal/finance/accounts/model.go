package accounts

import "time"

// NormalBalance tells whether an account type grows with debits or credits.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "debit"
	NormalCredit NormalBalance = "credit"
)

// AccountType is immutable reference data for CoA categories.
type AccountType struct {
	ID            int64
	Name          string
	NormalBalance NormalBalance
	DisplayOrder  int
}

// Canonical type names used across reports.
const (
	TypeAsset     = "Asset"
	TypeLiability = "Liability"
	TypeEquity    = "Equity"
	TypeRevenue   = "Revenue"
	TypeExpense   = "Expense"
)

// Account models a chart of accounts node.
type Account struct {
	ID             int64
	CompanyID      int64
	Code           string
	Name           string
	Description    string
	TypeID         int64
	ParentID       *int64
	Currency       string
	OpeningBalance float64
	CurrentBalance float64
	IsActive       bool
	IsSystem       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TypeIndex maps account type ids for quick lookup.
type TypeIndex map[int64]AccountType

// NewTypeIndex builds an index from a type list.
func NewTypeIndex(types []AccountType) TypeIndex {
	idx := make(TypeIndex, len(types))
	for _, t := range types {
		idx[t.ID] = t
	}
	return idx
}

// Name returns the type name or "Unknown" when missing.
func (idx TypeIndex) Name(id int64) string {
	if t, ok := idx[id]; ok {
		return t.Name
	}
	return "Unknown"
}

// NormalBalanceOf returns the normal balance, defaulting to debit.
func (idx TypeIndex) NormalBalanceOf(id int64) NormalBalance {
	if t, ok := idx[id]; ok && t.NormalBalance == NormalCredit {
		return NormalCredit
	}
	return NormalDebit
}
