package reports

import (
	"fmt"
	"math"
	"sort"
)

// canonicalTypeOrder fixes the group order of the trial balance. Types the
// data source introduces beyond these are appended after, alphabetically.
var canonicalTypeOrder = []string{"Asset", "Liability", "Equity", "Revenue", "Expense"}

// TrialBalanceGroup is one account-type section with its subtotals.
type TrialBalanceGroup struct {
	Type        string            `json:"type"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  float64           `json:"total_debit"`
	TotalCredit float64           `json:"total_credit"`
}

// TrialBalance is the assembled statement.
type TrialBalance struct {
	Groups      []TrialBalanceGroup `json:"groups"`
	TotalDebit  float64             `json:"total_debit"`
	TotalCredit float64             `json:"total_credit"`
	IsBalanced  bool                `json:"is_balanced"`
	Difference  float64             `json:"difference"`
	Hints       []string            `json:"hints,omitempty"`
}

// BuildTrialBalance groups rows by account type in the canonical statement
// order and totals each group. hideZero drops rows whose both balances are
// zero.
func BuildTrialBalance(rows []TrialBalanceRow, hideZero bool) TrialBalance {
	grouped := map[string][]TrialBalanceRow{}
	for _, row := range rows {
		if hideZero && row.DebitBalance == 0 && row.CreditBalance == 0 {
			continue
		}
		grouped[row.AccountType] = append(grouped[row.AccountType], row)
	}

	order := append([]string(nil), canonicalTypeOrder...)
	var extra []string
	for name := range grouped {
		if !isCanonicalType(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	var tb TrialBalance
	for _, name := range order {
		typeRows, ok := grouped[name]
		if !ok {
			continue
		}
		sort.Slice(typeRows, func(i, j int) bool { return typeRows[i].AccountCode < typeRows[j].AccountCode })
		g := TrialBalanceGroup{Type: name, Rows: typeRows}
		for _, row := range typeRows {
			g.TotalDebit += row.DebitBalance
			g.TotalCredit += row.CreditBalance
		}
		tb.TotalDebit += g.TotalDebit
		tb.TotalCredit += g.TotalCredit
		tb.Groups = append(tb.Groups, g)
	}

	tb.Difference = tb.TotalDebit - tb.TotalCredit
	tb.IsBalanced = math.Abs(tb.Difference) < reportEpsilon
	if !tb.IsBalanced {
		tb.Hints = imbalanceHints(tb.Difference, rows)
	}
	return tb
}

func isCanonicalType(name string) bool {
	for _, c := range canonicalTypeOrder {
		if c == name {
			return true
		}
	}
	return false
}

// imbalanceHints offers bookkeeping heuristics for a non-zero difference.
// They are suggestions only; none of them proves the cause.
func imbalanceHints(difference float64, rows []TrialBalanceRow) []string {
	var hints []string
	abs := math.Round(math.Abs(difference)*100) / 100

	if abs >= 1 && math.Mod(abs, 1) < reportEpsilon {
		hints = append(hints, fmt.Sprintf("The difference %.2f is a round number; a whole amount may have been omitted or entered once.", abs))
	}
	cents := math.Round(abs * 100)
	if cents > 0 && math.Mod(cents, 9) == 0 {
		hints = append(hints, "The difference divides by 9, which often indicates transposed digits (e.g. 54 entered as 45).")
	}
	half := abs / 2
	for _, row := range rows {
		if nearlyEqual(row.DebitBalance, half) || nearlyEqual(row.CreditBalance, half) {
			hints = append(hints, fmt.Sprintf("Half the difference (%.2f) matches %s %s; an amount may be posted to the wrong side.", half, row.AccountCode, row.AccountName))
			break
		}
	}
	return hints
}

func nearlyEqual(a, b float64) bool {
	return b > 0 && math.Abs(a-b) < reportEpsilon
}
