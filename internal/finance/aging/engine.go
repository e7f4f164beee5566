package aging

import "sort"

// Totals sums the buckets across all rows.
func Totals(rows []Row) Buckets {
	var t Buckets
	for _, r := range rows {
		t.Add(r.Buckets)
	}
	return t
}

// Bars renders the aggregate proportional bar. Each segment's proportion is
// its share of the grand total; the max(total, 1) guard keeps an empty
// report from dividing by zero.
func Bars(t Buckets) []Bar {
	denom := t.Total
	if denom < 1 {
		denom = 1
	}
	return []Bar{
		{Label: "Current", Amount: t.Current, Proportion: t.Current / denom},
		{Label: "1-30 Days", Amount: t.Days30, Proportion: t.Days30 / denom},
		{Label: "31-60 Days", Amount: t.Days60, Proportion: t.Days60 / denom},
		{Label: "61-90 Days", Amount: t.Days90, Proportion: t.Days90 / denom},
		{Label: "Over 90", Amount: t.Over90, Proportion: t.Over90 / denom},
	}
}

// GroupByCounterparty collapses document rows into one group per vendor or
// customer, largest outstanding total first.
func GroupByCounterparty(rows []Row) []Group {
	byID := map[int64]*Group{}
	var order []int64
	for _, r := range rows {
		g, ok := byID[r.CounterpartyID]
		if !ok {
			g = &Group{CounterpartyID: r.CounterpartyID, Counterparty: r.Counterparty}
			byID[r.CounterpartyID] = g
			order = append(order, r.CounterpartyID)
		}
		g.Buckets.Add(r.Buckets)
		g.Rows = append(g.Rows, r)
	}
	out := make([]Group, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].Counterparty < out[j].Counterparty
		}
		return out[i].Total > out[j].Total
	})
	return out
}
