package entity

import "encoding/json"

// Report is one ingestion batch's computed output. Created empty at upload
// time with a pending payload, filled in by the generation step, never
// deleted. ReportJSON carries the full metrics+narrative payload consumed by
// the presentation layer.
type Report struct {
	ID         string
	UserID     string
	StoreID    string // optional store connection id
	ReportJSON json.RawMessage
	CreatedAt  int64 // epoch ms
}

// ReportSnapshot is an immutable weekly rollup. SourceHash is the canonical
// content hash of the sold rows + filters + window; UNIQUE(user_id,
// source_hash) is the sole idempotency and concurrency guard for snapshot
// creation. Rows are never mutated or deleted.
type ReportSnapshot struct {
	ID                       string
	UserID                   string
	CreatedAt                int64 // epoch ms
	SourceHash               string
	TimeRangeStart           int64
	TimeRangeEnd             int64
	ReportID                 string
	GrossSalesHalala         int64
	OrdersCount              int64
	TotalProfitHalala        int64
	MarginPctX100            int64 // margin percentage ×100, e.g. 450 = 4.5%
	MissingCostProductsCount int64
	MissingCostSalesHalala   int64
	ReportJSON               json.RawMessage
}
