package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-hq/meridian/internal/finance/journal"
)

func balancedRows() []TrialBalanceRow {
	return []TrialBalanceRow{
		{AccountCode: "5100", AccountName: "Rent", AccountType: "Expense", DebitBalance: 1200},
		{AccountCode: "1010", AccountName: "Bank", AccountType: "Asset", DebitBalance: 3800},
		{AccountCode: "4000", AccountName: "Sales Revenue", AccountType: "Revenue", CreditBalance: 4000},
		{AccountCode: "3000", AccountName: "Owner Equity", AccountType: "Equity", CreditBalance: 1000},
		{AccountCode: "1000", AccountName: "Cash", AccountType: "Asset", DebitBalance: 0},
	}
}

func TestBuildTrialBalanceCanonicalOrder(t *testing.T) {
	rows := append(balancedRows(), TrialBalanceRow{AccountCode: "9000", AccountName: "Suspense", AccountType: "Other"})
	tb := BuildTrialBalance(rows, false)

	var types []string
	for _, g := range tb.Groups {
		types = append(types, g.Type)
	}
	require.Equal(t, []string{"Asset", "Equity", "Revenue", "Expense", "Other"}, types)

	require.Equal(t, "1000", tb.Groups[0].Rows[0].AccountCode, "rows sorted by code within a group")
	require.Equal(t, "1010", tb.Groups[0].Rows[1].AccountCode)
}

func TestBuildTrialBalanceTotalsAndBalance(t *testing.T) {
	tb := BuildTrialBalance(balancedRows(), false)
	require.Equal(t, 5000.0, tb.TotalDebit)
	require.Equal(t, 5000.0, tb.TotalCredit)
	require.True(t, tb.IsBalanced)
	require.Zero(t, tb.Difference)
	require.Empty(t, tb.Hints)
}

func TestBuildTrialBalanceHideZero(t *testing.T) {
	tb := BuildTrialBalance(balancedRows(), true)
	require.Len(t, tb.Groups[0].Rows, 1, "zero-balance Cash dropped")
	require.Equal(t, "1010", tb.Groups[0].Rows[0].AccountCode)
}

func TestBuildTrialBalanceImbalanceHints(t *testing.T) {
	rows := []TrialBalanceRow{
		{AccountCode: "1010", AccountName: "Bank", AccountType: "Asset", DebitBalance: 1000},
		{AccountCode: "4000", AccountName: "Sales Revenue", AccountType: "Revenue", CreditBalance: 100},
	}
	tb := BuildTrialBalance(rows, false)
	require.False(t, tb.IsBalanced)
	require.Equal(t, 900.0, tb.Difference)
	require.NotEmpty(t, tb.Hints)

	joined := strings.Join(tb.Hints, " ")
	require.Contains(t, joined, "round number")
	require.Contains(t, joined, "divides by 9")
}

func TestBuildTrialBalanceSwapHint(t *testing.T) {
	rows := []TrialBalanceRow{
		{AccountCode: "1010", AccountName: "Bank", AccountType: "Asset", DebitBalance: 500},
		{AccountCode: "5100", AccountName: "Rent", AccountType: "Expense", DebitBalance: 250},
	}
	tb := BuildTrialBalance(rows, false)
	require.False(t, tb.IsBalanced)
	require.Equal(t, 750.0, tb.Difference)

	joined := strings.Join(tb.Hints, " ")
	require.Contains(t, joined, "wrong side")
	require.Contains(t, joined, "5100", "half of 750 matches the Rent debit")
}

func TestBuildTrialBalanceSubEpsilonDriftBalances(t *testing.T) {
	rows := []TrialBalanceRow{
		{AccountCode: "1010", AccountName: "Bank", AccountType: "Asset", DebitBalance: 100.004},
		{AccountCode: "4000", AccountName: "Sales Revenue", AccountType: "Revenue", CreditBalance: 100},
	}
	tb := BuildTrialBalance(rows, false)
	require.True(t, tb.IsBalanced)
}

func TestTrialBalanceCSV(t *testing.T) {
	tb := BuildTrialBalance(balancedRows(), true)
	doc := TrialBalanceCSV(tb)
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	require.Equal(t, `"Account Code","Account Name","Account Type","Debit","Credit"`, lines[0])
	require.Equal(t, `"1010","Bank","Asset",3800.00,0.00`, lines[1])
	require.Equal(t, `"","TOTALS","",5000.00,5000.00`, lines[len(lines)-1])
}

// A rent payment drafted through the journal rules and shown as a trial
// balance: validation passes, the entry balances, and the resulting report
// carries the expense debit and cash credit.
func TestRentEntryFlowsIntoBalancedTrialBalance(t *testing.T) {
	draft := journal.DraftInput{
		EntryDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "Rent",
		Lines: []journal.LineInput{
			{AccountID: 51, Debit: 1200},
			{AccountID: 10, Credit: 1200},
		},
	}
	require.NoError(t, draft.ValidateForPosting())
	require.True(t, draft.Balanced())

	tb := BuildTrialBalance([]TrialBalanceRow{
		{AccountCode: "6000", AccountName: "Rent Expense", AccountType: "Expense", DebitBalance: 1200},
		{AccountCode: "1000", AccountName: "Cash", AccountType: "Asset", CreditBalance: 1200},
	}, false)
	require.True(t, tb.IsBalanced)
	require.Equal(t, 1200.0, tb.TotalDebit)
	require.Equal(t, 1200.0, tb.TotalCredit)
}
