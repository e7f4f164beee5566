package shared

import (
	"fmt"
	"strings"
)

// CSVBuilder accumulates CSV output in the export format the finance screens
// download: text fields always quoted with embedded quotes doubled, numeric
// fields rendered bare with two decimals.
type CSVBuilder struct {
	sb strings.Builder
}

// Row appends one record. Fields must already be rendered with CSVString or
// CSVNumber.
func (b *CSVBuilder) Row(fields ...string) {
	b.sb.WriteString(strings.Join(fields, ","))
	b.sb.WriteString("\n")
}

// String returns the accumulated document.
func (b *CSVBuilder) String() string {
	return b.sb.String()
}

// CSVString quotes a text field, doubling embedded quotes.
func CSVString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CSVNumber renders an amount with two decimals, unquoted.
func CSVNumber(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
