package reports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func balanceSheetRows() []BalanceSheetRow {
	return []BalanceSheetRow{
		{Category: "Assets", Subcategory: "Current Assets", AccountCode: "1010", AccountName: "Bank", Balance: 3800},
		{Category: "Assets", Subcategory: "Current Assets", AccountCode: "1000", AccountName: "Cash", Balance: 200},
		{Category: "Assets", Subcategory: "Fixed Assets", AccountCode: "1500", AccountName: "Equipment", Balance: 1000},
		{Category: "Liabilities", Subcategory: "Current Liabilities", AccountCode: "2000", AccountName: "Accounts Payable", Balance: 1500},
		{Category: "Equity", Subcategory: "Equity", AccountCode: "3000", AccountName: "Owner Equity", Balance: 3500},
		{AccountName: "Total Assets", Balance: 5000, IsSummary: true},
		{AccountName: "Total Liabilities", Balance: 1500, IsSummary: true},
		{AccountName: "Total Equity", Balance: 3500, IsSummary: true},
		{AccountName: "Total Liabilities & Equity", Balance: 5000, IsSummary: true},
	}
}

func TestBuildBalanceSheet(t *testing.T) {
	bs := BuildBalanceSheet(balanceSheetRows())

	require.Len(t, bs.Assets.Subgroups, 2)
	require.Equal(t, "Current Assets", bs.Assets.Subgroups[0].Subcategory)
	require.Equal(t, "1000", bs.Assets.Subgroups[0].Rows[0].AccountCode, "rows sorted by code")
	require.Equal(t, 5000.0, bs.Assets.Total, "total read from the summary row")
	require.Equal(t, 1500.0, bs.Liabilities.Total)
	require.Equal(t, 3500.0, bs.Equity.Total)
	require.Equal(t, 5000.0, bs.TotalLiabilitiesAndEquity)
	require.Empty(t, bs.Warning)
}

func TestBuildBalanceSheetSummaryRowIsAuthoritative(t *testing.T) {
	rows := balanceSheetRows()
	// Source-side adjustment: summary disagrees with the detail sum.
	rows[5].Balance = 5100
	rows[8].Balance = 5100

	bs := BuildBalanceSheet(rows)
	require.Equal(t, 5100.0, bs.Assets.Total, "detail rows are not re-summed")
	require.NotEmpty(t, bs.Warning, "assets no longer match liabilities plus equity")
}

func TestBuildBalanceSheetMismatchWarningIsNonBlocking(t *testing.T) {
	rows := balanceSheetRows()
	rows[7].Balance = 3000

	bs := BuildBalanceSheet(rows)
	require.NotEmpty(t, bs.Warning)
	require.Len(t, bs.Assets.Subgroups, 2, "report still renders")
}

func TestBalanceSheetCSV(t *testing.T) {
	doc := BalanceSheetCSV(BuildBalanceSheet(balanceSheetRows()))
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	require.Equal(t, `"Category","Subcategory","Account Code","Account Name","Balance"`, lines[0])
	require.Equal(t, `"Assets","Current Assets","1000","Cash",200.00`, lines[1])
	require.Equal(t, `"","","","Total Liabilities & Equity",5000.00`, lines[len(lines)-1])
	require.Contains(t, doc, `"Assets","","","Total Assets",5000.00`)
}
