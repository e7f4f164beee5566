package reports

import "time"

// Report epsilon: aggregated balances are compared at cent precision.
const reportEpsilon = 0.01

// TrialBalanceRow is one account balance as supplied by the data source.
type TrialBalanceRow struct {
	AccountCode   string  `json:"account_code"`
	AccountName   string  `json:"account_name"`
	AccountType   string  `json:"account_type"`
	DebitBalance  float64 `json:"debit_balance"`
	CreditBalance float64 `json:"credit_balance"`
}

// BalanceSheetRow is one balance sheet line. is_summary rows carry the
// authoritative section totals.
type BalanceSheetRow struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Balance     float64 `json:"balance"`
	IsSummary   bool    `json:"is_summary"`
}

// ProfitLossRow is one P&L line classified by the data source.
type ProfitLossRow struct {
	RowType     string  `json:"row_type"`
	Section     string  `json:"section"`
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Amount      float64 `json:"amount"`
}

// Period bounds a P&L or comparison query.
type Period struct {
	Start time.Time
	End   time.Time
}
