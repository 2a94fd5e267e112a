package entity

import "github.com/shopspring/decimal"

// Order is one external sale transaction tied to the ingestion batch
// (report) that produced it. Rows are append-only: status may change on
// re-sync but orders are never hard-deleted.
type Order struct {
	ID          string
	UserID      string
	Platform    string
	ExternalID  string
	ReportID    string
	TotalHalala int64
	Status      string // free text from the platform; see domain.ExcludedOrderStatuses
	ItemsCount  int
	CreatedAt   int64 // epoch ms, order placement time
}

// OrderItem is one sold unit group within an order, immutable after
// ingestion. AllocatedRevenue is the order-total share assigned to this item
// by the revenue allocator, stored as a decimal SAR column (NUMERIC); the sum
// across an order's items equals the order total up to independent rounding.
type OrderItem struct {
	ID               string
	ReportID         string
	OrderID          string
	SKU              string // empty when the platform did not provide one
	ProductName      string
	Qty              int64
	AllocatedRevenue decimal.Decimal // SAR
	CreatedAt        int64
}

// SoldRow is the aggregated view of order items the profitability pipeline
// consumes: one row per (sku, name) group inside a report or time window.
type SoldRow struct {
	SKU        string
	Name       string
	Qty        int64
	RevenueSAR decimal.Decimal
}
