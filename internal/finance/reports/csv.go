package reports

import "github.com/meridian-hq/meridian/internal/shared"

// TrialBalanceCSV renders the trial balance with a trailing totals row.
func TrialBalanceCSV(tb TrialBalance) string {
	var b shared.CSVBuilder
	b.Row(shared.CSVString("Account Code"), shared.CSVString("Account Name"), shared.CSVString("Account Type"),
		shared.CSVString("Debit"), shared.CSVString("Credit"))
	for _, g := range tb.Groups {
		for _, row := range g.Rows {
			b.Row(shared.CSVString(row.AccountCode), shared.CSVString(row.AccountName), shared.CSVString(g.Type),
				shared.CSVNumber(row.DebitBalance), shared.CSVNumber(row.CreditBalance))
		}
	}
	b.Row(shared.CSVString(""), shared.CSVString("TOTALS"), shared.CSVString(""),
		shared.CSVNumber(tb.TotalDebit), shared.CSVNumber(tb.TotalCredit))
	return b.String()
}

// BalanceSheetCSV renders the balance sheet sections with their source
// totals appended after each section.
func BalanceSheetCSV(bs BalanceSheet) string {
	var b shared.CSVBuilder
	b.Row(shared.CSVString("Category"), shared.CSVString("Subcategory"), shared.CSVString("Account Code"),
		shared.CSVString("Account Name"), shared.CSVString("Balance"))
	writeSection := func(s BalanceSheetSection, totalLabel string) {
		for _, sub := range s.Subgroups {
			for _, row := range sub.Rows {
				b.Row(shared.CSVString(s.Category), shared.CSVString(sub.Subcategory), shared.CSVString(row.AccountCode),
					shared.CSVString(row.AccountName), shared.CSVNumber(row.Balance))
			}
		}
		b.Row(shared.CSVString(s.Category), shared.CSVString(""), shared.CSVString(""),
			shared.CSVString(totalLabel), shared.CSVNumber(s.Total))
	}
	writeSection(bs.Assets, totalAssetsRow)
	writeSection(bs.Liabilities, totalLiabilitiesRow)
	writeSection(bs.Equity, totalEquityRow)
	b.Row(shared.CSVString(""), shared.CSVString(""), shared.CSVString(""),
		shared.CSVString(totalLiabAndEquityRow), shared.CSVNumber(bs.TotalLiabilitiesAndEquity))
	return b.String()
}

// ProfitLossCSV renders the profit and loss statement with the net income
// row last.
func ProfitLossCSV(pl ProfitLoss) string {
	var b shared.CSVBuilder
	b.Row(shared.CSVString("Section"), shared.CSVString("Account Code"), shared.CSVString("Account Name"),
		shared.CSVString("Amount"))
	writeSection := func(s ProfitLossSection) {
		for _, row := range s.Details {
			b.Row(shared.CSVString(s.Section), shared.CSVString(row.AccountCode), shared.CSVString(row.AccountName),
				shared.CSVNumber(row.Amount))
		}
		for _, row := range s.Subtotals {
			b.Row(shared.CSVString(s.Section), shared.CSVString(""), shared.CSVString(row.AccountName),
				shared.CSVNumber(row.Amount))
		}
	}
	writeSection(pl.Revenue)
	writeSection(pl.Expenses)
	b.Row(shared.CSVString(""), shared.CSVString(""), shared.CSVString("NET INCOME"), shared.CSVNumber(pl.NetIncome))
	return b.String()
}
