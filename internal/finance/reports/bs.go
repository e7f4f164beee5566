package reports

import (
	"math"
	"sort"
)

// Summary row names the data source uses for section totals.
const (
	totalAssetsRow         = "Total Assets"
	totalLiabilitiesRow    = "Total Liabilities"
	totalEquityRow         = "Total Equity"
	totalLiabAndEquityRow  = "Total Liabilities & Equity"
	balanceSheetMismatchWn = "Balance sheet out of balance: assets do not equal liabilities plus equity."
)

// BalanceSheetSubgroup is one subcategory block.
type BalanceSheetSubgroup struct {
	Subcategory string            `json:"subcategory"`
	Rows        []BalanceSheetRow `json:"rows"`
}

// BalanceSheetSection is one of Assets, Liabilities or Equity. Total comes
// from the source's is_summary row, not from re-summing the detail.
type BalanceSheetSection struct {
	Category  string                 `json:"category"`
	Subgroups []BalanceSheetSubgroup `json:"subgroups"`
	Total     float64                `json:"total"`
}

// BalanceSheet is the assembled statement.
type BalanceSheet struct {
	Assets                    BalanceSheetSection `json:"assets"`
	Liabilities               BalanceSheetSection `json:"liabilities"`
	Equity                    BalanceSheetSection `json:"equity"`
	TotalLiabilitiesAndEquity float64             `json:"total_liabilities_and_equity"`
	Warning                   string              `json:"warning,omitempty"`
}

// BuildBalanceSheet partitions rows by category and subcategory of the data
// source. A mismatch between assets and liabilities plus equity produces a
// warning without blocking the report.
func BuildBalanceSheet(rows []BalanceSheetRow) BalanceSheet {
	bs := BalanceSheet{
		Assets:      BalanceSheetSection{Category: "Assets"},
		Liabilities: BalanceSheetSection{Category: "Liabilities"},
		Equity:      BalanceSheetSection{Category: "Equity"},
	}
	for _, row := range rows {
		if row.IsSummary {
			switch row.AccountName {
			case totalAssetsRow:
				bs.Assets.Total = row.Balance
			case totalLiabilitiesRow:
				bs.Liabilities.Total = row.Balance
			case totalEquityRow:
				bs.Equity.Total = row.Balance
			case totalLiabAndEquityRow:
				bs.TotalLiabilitiesAndEquity = row.Balance
			}
			continue
		}
		switch row.Category {
		case "Assets":
			addDetail(&bs.Assets, row)
		case "Liabilities":
			addDetail(&bs.Liabilities, row)
		case "Equity":
			addDetail(&bs.Equity, row)
		}
	}
	sortSection(&bs.Assets)
	sortSection(&bs.Liabilities)
	sortSection(&bs.Equity)

	if math.Abs(bs.Assets.Total-(bs.Liabilities.Total+bs.Equity.Total)) >= reportEpsilon {
		bs.Warning = balanceSheetMismatchWn
	}
	return bs
}

func addDetail(section *BalanceSheetSection, row BalanceSheetRow) {
	for i := range section.Subgroups {
		if section.Subgroups[i].Subcategory == row.Subcategory {
			section.Subgroups[i].Rows = append(section.Subgroups[i].Rows, row)
			return
		}
	}
	section.Subgroups = append(section.Subgroups, BalanceSheetSubgroup{Subcategory: row.Subcategory, Rows: []BalanceSheetRow{row}})
}

func sortSection(section *BalanceSheetSection) {
	for i := range section.Subgroups {
		rows := section.Subgroups[i].Rows
		sort.Slice(rows, func(a, b int) bool { return rows[a].AccountCode < rows[b].AccountCode })
	}
}
