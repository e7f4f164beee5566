package aging

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func payableRows() []Row {
	return []Row{
		{CounterpartyID: 1, Counterparty: "Acme Supplies", DocumentNumber: "BILL-001", Buckets: Buckets{Current: 500, Total: 500}},
		{CounterpartyID: 2, Counterparty: "Office Co", DocumentNumber: "BILL-002", Buckets: Buckets{Days30: 200, Over90: 100, Total: 300}},
		{CounterpartyID: 1, Counterparty: "Acme Supplies", DocumentNumber: "BILL-003", Buckets: Buckets{Days60: 200, Total: 200}},
	}
}

func TestTotals(t *testing.T) {
	totals := Totals(payableRows())
	require.Equal(t, 500.0, totals.Current)
	require.Equal(t, 200.0, totals.Days30)
	require.Equal(t, 200.0, totals.Days60)
	require.Zero(t, totals.Days90)
	require.Equal(t, 100.0, totals.Over90)
	require.Equal(t, 1000.0, totals.Total)
}

func TestBarsProportions(t *testing.T) {
	bars := Bars(Totals(payableRows()))
	require.Len(t, bars, 5)
	require.Equal(t, "Current", bars[0].Label)
	require.Equal(t, 0.5, bars[0].Proportion)
	require.Equal(t, 0.2, bars[1].Proportion)
	require.Equal(t, 0.1, bars[4].Proportion)
}

func TestBarsEmptyReportDoesNotDivideByZero(t *testing.T) {
	bars := Bars(Buckets{})
	for _, b := range bars {
		require.Zero(t, b.Proportion)
	}
}

func TestGroupByCounterparty(t *testing.T) {
	groups := GroupByCounterparty(payableRows())
	require.Len(t, groups, 2)
	require.Equal(t, "Acme Supplies", groups[0].Counterparty, "largest total first")
	require.Equal(t, 700.0, groups[0].Total)
	require.Len(t, groups[0].Rows, 2)
	require.Equal(t, 300.0, groups[1].Total)
}

type fakeRepo struct {
	payables    []Row
	receivables []Row
}

func (f *fakeRepo) AgedPayables(context.Context, int64, time.Time) ([]Row, error) {
	return f.payables, nil
}

func (f *fakeRepo) AgedReceivables(context.Context, int64, time.Time) ([]Row, error) {
	return f.receivables, nil
}

func TestServiceBuild(t *testing.T) {
	svc := NewService(&fakeRepo{payables: payableRows()}, 1)
	rep, err := svc.Build(context.Background(), Payables, time.Time{}, false)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 3)
	require.Empty(t, rep.Groups)
	require.Equal(t, 1000.0, rep.GrandTotal)

	rep, err = svc.Build(context.Background(), Payables, time.Time{}, true)
	require.NoError(t, err)
	require.Empty(t, rep.Rows)
	require.Len(t, rep.Groups, 2)
}

func TestGroupedReportExportsFlattenedRows(t *testing.T) {
	svc := NewService(&fakeRepo{payables: payableRows()}, 1)
	rep, err := svc.Build(context.Background(), Payables, time.Time{}, true)
	require.NoError(t, err)

	rows := rep.ExportRows()
	require.Len(t, rows, 3, "grouped export carries every document")

	doc := ExportCSV(rows, rep.Totals, "Vendor")
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	require.Len(t, lines, 5, "header, three documents, totals")
	require.Equal(t, `"TOTALS","",500.00,200.00,200.00,0.00,100.00,1000.00`, lines[len(lines)-1])
}

func TestExportCSV(t *testing.T) {
	rows := payableRows()
	doc := ExportCSV(rows, Totals(rows), "Vendor")
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	require.Equal(t, `"Vendor","Document","Current","1-30 Days","31-60 Days","61-90 Days","Over 90","Total"`, lines[0])
	require.Equal(t, `"Acme Supplies","BILL-001",500.00,0.00,0.00,0.00,0.00,500.00`, lines[1])
	require.Equal(t, `"TOTALS","",500.00,200.00,200.00,0.00,100.00,1000.00`, lines[len(lines)-1])
}
