package reports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func profitLossRows() []ProfitLossRow {
	return []ProfitLossRow{
		{RowType: RowDetail, Section: "Revenue", AccountCode: "4000", AccountName: "Sales Revenue", Amount: 4000},
		{RowType: RowDetail, Section: "Revenue", AccountCode: "4100", AccountName: "Service Revenue", Amount: 1000},
		{RowType: RowSubtotal, Section: "Revenue", AccountName: "Total Revenue", Amount: 5000},
		{RowType: RowDetail, Section: "Expenses", AccountCode: "5100", AccountName: "Rent", Amount: 1200},
		{RowType: RowSubtotal, Section: "Expenses", AccountName: "Total Expenses", Amount: 1200},
		{RowType: RowSummary, AccountName: "Net Income", Amount: 3800},
	}
}

func TestBuildProfitLoss(t *testing.T) {
	pl := BuildProfitLoss(profitLossRows())

	require.Len(t, pl.Revenue.Details, 2)
	require.Len(t, pl.Revenue.Subtotals, 1)
	require.Len(t, pl.Expenses.Details, 1)
	require.True(t, pl.HasNet)
	require.Equal(t, 3800.0, pl.NetIncome, "net income comes verbatim from the summary row")
}

func TestBuildProfitLossNetIncomeNotDerived(t *testing.T) {
	rows := profitLossRows()
	// Summary carries a source-side adjustment the details do not show.
	rows[5].Amount = 3500

	pl := BuildProfitLoss(rows)
	require.Equal(t, 3500.0, pl.NetIncome)
}

func TestBuildProfitLossWithoutSummaryRow(t *testing.T) {
	pl := BuildProfitLoss(profitLossRows()[:5])
	require.False(t, pl.HasNet)
	require.Zero(t, pl.NetIncome)
}

func TestProfitLossCSV(t *testing.T) {
	doc := ProfitLossCSV(BuildProfitLoss(profitLossRows()))
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	require.Equal(t, `"Section","Account Code","Account Name","Amount"`, lines[0])
	require.Equal(t, `"Revenue","4000","Sales Revenue",4000.00`, lines[1])
	require.Equal(t, `"","","NET INCOME",3800.00`, lines[len(lines)-1])
}
