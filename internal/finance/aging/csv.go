package aging

import "github.com/meridian-hq/meridian/internal/shared"

// ExportCSV renders an aging report with a trailing totals row. label names
// the counterparty column: Vendor for payables, Customer for receivables.
func ExportCSV(rows []Row, totals Buckets, label string) string {
	var b shared.CSVBuilder
	b.Row(shared.CSVString(label), shared.CSVString("Document"), shared.CSVString("Current"),
		shared.CSVString("1-30 Days"), shared.CSVString("31-60 Days"), shared.CSVString("61-90 Days"),
		shared.CSVString("Over 90"), shared.CSVString("Total"))
	for _, r := range rows {
		b.Row(shared.CSVString(r.Counterparty), shared.CSVString(r.DocumentNumber),
			shared.CSVNumber(r.Current), shared.CSVNumber(r.Days30), shared.CSVNumber(r.Days60),
			shared.CSVNumber(r.Days90), shared.CSVNumber(r.Over90), shared.CSVNumber(r.Total))
	}
	b.Row(shared.CSVString("TOTALS"), shared.CSVString(""),
		shared.CSVNumber(totals.Current), shared.CSVNumber(totals.Days30), shared.CSVNumber(totals.Days60),
		shared.CSVNumber(totals.Days90), shared.CSVNumber(totals.Over90), shared.CSVNumber(totals.Total))
	return b.String()
}
