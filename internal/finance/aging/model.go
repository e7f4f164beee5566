package aging

import "time"

// Buckets holds the aged amounts for one row. Bucketing itself happens in
// the data source, keyed on the as-of date minus due date.
type Buckets struct {
	Current float64 `json:"current_amount"`
	Days30  float64 `json:"days_30"`
	Days60  float64 `json:"days_60"`
	Days90  float64 `json:"days_90"`
	Over90  float64 `json:"over_90"`
	Total   float64 `json:"total"`
}

// Add accumulates another row's buckets.
func (b *Buckets) Add(o Buckets) {
	b.Current += o.Current
	b.Days30 += o.Days30
	b.Days60 += o.Days60
	b.Days90 += o.Days90
	b.Over90 += o.Over90
	b.Total += o.Total
}

// Row is one outstanding document (bill or invoice) with its counterparty.
type Row struct {
	CounterpartyID int64      `json:"counterparty_id"`
	Counterparty   string     `json:"counterparty"`
	DocumentNumber string     `json:"document_number"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Buckets
}

// Group is the drill-down view: one counterparty with its documents.
type Group struct {
	CounterpartyID int64  `json:"counterparty_id"`
	Counterparty   string `json:"counterparty"`
	Buckets
	Rows []Row `json:"rows"`
}

// Bar is one segment of the proportional aging bar.
type Bar struct {
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Proportion float64 `json:"proportion"`
}
