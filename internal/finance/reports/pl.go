package reports

// Row types the data source classifies P&L lines with.
const (
	RowDetail   = "detail"
	RowSubtotal = "subtotal"
	RowSummary  = "summary"
)

// ProfitLossSection is one of Revenue or Expenses with its detail and
// subtotal rows in source order.
type ProfitLossSection struct {
	Section   string          `json:"section"`
	Details   []ProfitLossRow `json:"details"`
	Subtotals []ProfitLossRow `json:"subtotals"`
}

// ProfitLoss is the assembled statement. NetIncome comes verbatim from the
// source's summary row; the engine only classifies.
type ProfitLoss struct {
	Revenue   ProfitLossSection `json:"revenue"`
	Expenses  ProfitLossSection `json:"expenses"`
	NetIncome float64           `json:"net_income"`
	HasNet    bool              `json:"has_net"`
}

// BuildProfitLoss partitions rows by row_type and section.
func BuildProfitLoss(rows []ProfitLossRow) ProfitLoss {
	pl := ProfitLoss{
		Revenue:  ProfitLossSection{Section: "Revenue"},
		Expenses: ProfitLossSection{Section: "Expenses"},
	}
	for _, row := range rows {
		switch row.RowType {
		case RowSummary:
			pl.NetIncome = row.Amount
			pl.HasNet = true
		case RowSubtotal:
			switch row.Section {
			case "Revenue":
				pl.Revenue.Subtotals = append(pl.Revenue.Subtotals, row)
			case "Expenses":
				pl.Expenses.Subtotals = append(pl.Expenses.Subtotals, row)
			}
		default:
			switch row.Section {
			case "Revenue":
				pl.Revenue.Details = append(pl.Revenue.Details, row)
			case "Expenses":
				pl.Expenses.Details = append(pl.Expenses.Details, row)
			}
		}
	}
	return pl
}
