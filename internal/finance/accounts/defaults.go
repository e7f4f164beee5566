package accounts

// DefaultAccount seeds one row of the stock chart of accounts.
type DefaultAccount struct {
	Code        string
	Name        string
	Description string
	TypeName    string
	Currency    string
	IsSystem    bool
}

// DefaultChart returns the stock chart created by the initialise operation.
// System accounts are the ones posting flows depend on; they cannot be
// deactivated afterwards.
func DefaultChart(currency string) []DefaultAccount {
	if currency == "" {
		currency = "EUR"
	}
	mk := func(code, name, typeName string, system bool) DefaultAccount {
		return DefaultAccount{Code: code, Name: name, TypeName: typeName, Currency: currency, IsSystem: system}
	}
	return []DefaultAccount{
		mk("1000", "Cash", TypeAsset, true),
		mk("1100", "Bank Account", TypeAsset, true),
		mk("1200", "Accounts Receivable", TypeAsset, true),
		mk("1300", "Inventory", TypeAsset, false),
		mk("1400", "Prepaid Expenses", TypeAsset, false),
		mk("1500", "Fixed Assets", TypeAsset, false),
		mk("2000", "Accounts Payable", TypeLiability, true),
		mk("2100", "VAT Payable", TypeLiability, true),
		mk("2200", "Accrued Liabilities", TypeLiability, false),
		mk("2500", "Long-Term Debt", TypeLiability, false),
		mk("3000", "Owner's Equity", TypeEquity, true),
		mk("3100", "Retained Earnings", TypeEquity, true),
		mk("4000", "Sales Revenue", TypeRevenue, true),
		mk("4100", "Service Revenue", TypeRevenue, false),
		mk("4900", "Other Income", TypeRevenue, false),
		mk("5000", "Cost of Goods Sold", TypeExpense, true),
		mk("6000", "Rent Expense", TypeExpense, false),
		mk("6100", "Salaries & Wages", TypeExpense, false),
		mk("6200", "Office Supplies", TypeExpense, false),
		mk("6300", "Marketing & Advertising", TypeExpense, false),
		mk("6400", "Bank Fees", TypeExpense, false),
		mk("6900", "Miscellaneous Expense", TypeExpense, false),
	}
}
