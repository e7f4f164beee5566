package ledger

import (
	"github.com/meridian-hq/meridian/internal/shared"
)

// ExportCSV renders ledger rows as a CSV document ending in a TOTALS row.
// Account columns appear only in all-accounts mode; header rows carry the
// account identity with its opening balance in the Running Balance column.
func ExportCSV(rows []Row, sum Summary, allAccounts bool) string {
	var b shared.CSVBuilder
	if allAccounts {
		b.Row(csvHeaderAll...)
	} else {
		b.Row(csvHeaderSingle...)
	}
	for _, r := range rows {
		if r.IsHeader {
			b.Row(shared.CSVString(""), shared.CSVString(""), shared.CSVString(""), shared.CSVString(""),
				shared.CSVString(r.AccountCode), shared.CSVString(r.AccountName),
				shared.CSVString(""), shared.CSVString(""), shared.CSVNumber(r.RunningBalance))
			continue
		}
		fields := []string{
			shared.CSVString(r.Date.Format("2006-01-02")),
			shared.CSVString(r.EntryNumber),
			shared.CSVString(r.Reference),
			shared.CSVString(r.Description),
		}
		if allAccounts {
			fields = append(fields, shared.CSVString(r.AccountCode), shared.CSVString(r.AccountName))
		}
		fields = append(fields,
			shared.CSVNumber(r.Debit),
			shared.CSVNumber(r.Credit),
			shared.CSVNumber(r.RunningBalance),
		)
		b.Row(fields...)
	}
	if allAccounts {
		b.Row(shared.CSVString(""), shared.CSVString(""), shared.CSVString(""), shared.CSVString("TOTALS"),
			shared.CSVString(""), shared.CSVString(""),
			shared.CSVNumber(sum.TotalDebits), shared.CSVNumber(sum.TotalCredits), shared.CSVString(""))
	} else {
		b.Row(shared.CSVString(""), shared.CSVString(""), shared.CSVString(""), shared.CSVString("TOTALS"),
			shared.CSVNumber(sum.TotalDebits), shared.CSVNumber(sum.TotalCredits), shared.CSVNumber(sum.ClosingBalance))
	}
	return b.String()
}

var csvHeaderSingle = []string{
	shared.CSVString("Date"), shared.CSVString("Entry #"), shared.CSVString("Reference"),
	shared.CSVString("Description"), shared.CSVString("Debit"), shared.CSVString("Credit"),
	shared.CSVString("Running Balance"),
}

var csvHeaderAll = []string{
	shared.CSVString("Date"), shared.CSVString("Entry #"), shared.CSVString("Reference"),
	shared.CSVString("Description"), shared.CSVString("Account Code"), shared.CSVString("Account Name"),
	shared.CSVString("Debit"), shared.CSVString("Credit"), shared.CSVString("Running Balance"),
}
