package dto

import "github.com/shopspring/decimal"

// Ingestion DTOs. Rows arrive already parsed: CSV/column handling happens in
// the upload collaborator; this API persists catalog rows and orders, running
// revenue allocation over each order's items.

// IngestProductDTO is one parsed catalog row.
type IngestProductDTO struct {
	ExternalID string          `json:"externalId"`
	Title      string          `json:"title"`
	SKU        string          `json:"sku"`
	PriceSAR   decimal.Decimal `json:"price_sar"`
	// CostSAR optionally seeds the purchase cost when no cost record exists
	// yet for the product. Zero means: do not seed.
	CostSAR   decimal.Decimal `json:"cost_sar"`
	Inventory int             `json:"inventory"`
	Category  string          `json:"category"`
}

// IngestItemDTO is one parsed line item inside an order.
type IngestItemDTO struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
	Qty  int64  `json:"qty"`
}

// IngestOrderDTO is one parsed order row.
type IngestOrderDTO struct {
	ExternalID string          `json:"externalId"`
	TotalSAR   decimal.Decimal `json:"total_sar"`
	Status     string          `json:"status"`
	CreatedAt  int64           `json:"createdAt"` // epoch ms; zero = now
	Items      []IngestItemDTO `json:"items"`
}

// IngestRequest is one ingestion batch.
type IngestRequest struct {
	Platform string             `json:"platform"`
	Products []IngestProductDTO `json:"products"`
	Orders   []IngestOrderDTO   `json:"orders"`
}

// IngestCountsDTO summarizes what a batch persisted.
type IngestCountsDTO struct {
	Products   int `json:"products"`
	Orders     int `json:"orders"`
	OrderItems int `json:"orderItems"`
}

// IngestResponse reports the new report id, counts and row-level warnings.
// Bad rows are skipped with a warning, never failing the whole batch.
type IngestResponse struct {
	Success  bool            `json:"success"`
	ReportID string          `json:"reportId"`
	Counts   IngestCountsDTO `json:"counts"`
	Warnings []string        `json:"warnings"`
}
