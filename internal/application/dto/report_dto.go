package dto

// Report payload shapes. Every currency field here is display-scale SAR
// (halala / 100); internal computation never leaves integer halala.

// MetricsDTO is the headline sales block of a report.
type MetricsDTO struct {
	TotalSales          float64 `json:"totalSales"`
	TotalOrders         int64   `json:"totalOrders"`
	AvgOrderValue       float64 `json:"avgOrderValue"`
	ExcludedOrdersCount int64   `json:"excludedOrdersCount"`
	ExcludedSales       float64 `json:"excludedSales"`
}

// RevenueProductDTO is a top/weak product ranked by allocated revenue.
type RevenueProductDTO struct {
	Name    string  `json:"name"`
	SKU     *string `json:"sku"`
	Revenue float64 `json:"revenue"`
	Qty     int64   `json:"qty"`
}

// ProfitProductDTO is a product entry in the profitability rankings.
// MarginPct is nil when the margin is undefined (zero denominator).
type ProfitProductDTO struct {
	Name        string   `json:"name"`
	SKU         *string  `json:"sku"`
	Qty         int64    `json:"qty"`
	TotalProfit float64  `json:"totalProfit"`
	MarginPct   *float64 `json:"marginPct"`
}

// ProfitabilityDTO aggregates per-product profit across a report or window.
type ProfitabilityDTO struct {
	TotalProfit              float64            `json:"totalProfit"`
	MarginPct                float64            `json:"marginPct"`
	MissingCostProductsCount int64              `json:"missingCostProductsCount"`
	MissingCostSales         float64            `json:"missingCostSales"`
	TopProfitProducts        []ProfitProductDTO `json:"topProfitProducts"`
	LowMarginProducts        []ProfitProductDTO `json:"lowMarginProducts"`
}

// SnapshotMarkerDTO is the pointer stored inside the report JSON once a
// snapshot exists for its data. Deduped is true when generation matched an
// existing snapshot instead of creating one.
type SnapshotMarkerDTO struct {
	ID             string `json:"id"`
	Deduped        bool   `json:"deduped"`
	SourceHash     string `json:"sourceHash"`
	TimeRangeStart int64  `json:"timeRangeStart"`
	TimeRangeEnd   int64  `json:"timeRangeEnd"`
}

// AINarrativeDTO is the normalized narrative block merged into the payload.
// Fields are always present; fallback text fills them when the narrative
// collaborator is unavailable.
type AINarrativeDTO struct {
	ExecutiveSummary    string   `json:"executiveSummary"`
	PricingSuggestions  []string `json:"pricingSuggestions"`
	GrowthOpportunities []string `json:"growthOpportunities"`
	ConversionInsights  []string `json:"conversionInsights"`
}

// ReportPayloadDTO is the full persisted report JSON consumed by the
// presentation layer.
type ReportPayloadDTO struct {
	Metrics      MetricsDTO          `json:"metrics"`
	TopProducts  []RevenueProductDTO `json:"top_products"`
	WeakProducts []RevenueProductDTO `json:"weak_products"`

	Summary             string   `json:"summary"`
	ConversionInsight   string   `json:"conversion_insight"`
	PricingSuggestions  string   `json:"pricing_suggestions"`
	GrowthOpportunities []string `json:"growth_opportunities"`

	AINarrative   AINarrativeDTO     `json:"aiNarrative"`
	Profitability ProfitabilityDTO   `json:"profitability"`
	Snapshot      *SnapshotMarkerDTO `json:"snapshot,omitempty"`
}

// ReportDTO is a stored report row with its payload.
type ReportDTO struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	StoreID   string           `json:"storeId,omitempty"`
	Report    ReportPayloadDTO `json:"report"`
	CreatedAt int64            `json:"createdAt"`
}

// SnapshotDTO is the API view of a weekly snapshot.
type SnapshotDTO struct {
	ID                       string  `json:"id"`
	CreatedAt                int64   `json:"createdAt"`
	TimeRangeStart           int64   `json:"timeRangeStart"`
	TimeRangeEnd             int64   `json:"timeRangeEnd"`
	GrossSales               float64 `json:"grossSales"`
	OrdersCount              int64   `json:"ordersCount"`
	TotalProfit              float64 `json:"totalProfit"`
	MarginPct                float64 `json:"marginPct"`
	MissingCostProductsCount int64   `json:"missingCostProductsCount"`
	MissingCostSales         float64 `json:"missingCostSales"`
	Deduped                  bool    `json:"deduped"`
	SourceHash               string  `json:"sourceHash"`
}

// StatsDTO is the store overview block.
type StatsDTO struct {
	Products            int64   `json:"products"`
	Orders              int64   `json:"orders"`
	Sales               float64 `json:"sales"`
	AvgOrderValue       float64 `json:"avgOrderValue"`
	ExcludedOrdersCount int64   `json:"excludedOrdersCount"`
	ExcludedSales       float64 `json:"excludedSales"`
}

// CompareSideDTO is one snapshot's figures in a comparison.
type CompareSideDTO struct {
	ID             string  `json:"id"`
	TimeRangeStart int64   `json:"timeRangeStart"`
	TimeRangeEnd   int64   `json:"timeRangeEnd"`
	Sales          float64 `json:"sales"`
	Profit         float64 `json:"profit"`
	MarginPct      float64 `json:"marginPct"`
	Orders         int64   `json:"orders"`
}

// CompareDeltasDTO carries week-over-week deltas. Percent deltas are nil when
// undefined (previous value zero, current non-zero); the margin delta is an
// absolute point difference.
type CompareDeltasDTO struct {
	SalesDeltaPct  *float64 `json:"salesDeltaPct"`
	ProfitDeltaPct *float64 `json:"profitDeltaPct"`
	MarginDeltaPct *float64 `json:"marginDeltaPct"`
	OrdersDelta    *int64   `json:"ordersDelta"`
}

// CompareResponse is the week-over-week comparison result.
type CompareResponse struct {
	Current  CompareSideDTO   `json:"current"`
	Previous *CompareSideDTO  `json:"previous"`
	Deltas   CompareDeltasDTO `json:"deltas"`
	Status   string           `json:"status"` // improved | declined | no_change
}

// InsightProductDTO is a product entry in the insights rankings.
type InsightProductDTO struct {
	Name      string  `json:"name"`
	SKU       *string `json:"sku"`
	ProfitSAR float64 `json:"profitSar"`
	MarginPct float64 `json:"marginPct"`
}

// InsightsResponse is the deterministic rule-based insight block.
type InsightsResponse struct {
	Status            string              `json:"status"`
	TopProfitProducts []InsightProductDTO `json:"topProfitProducts"`
	LowMarginProducts []InsightProductDTO `json:"lowMarginProducts"`
	Insights          []string            `json:"insights"`
	ActionItems       []string            `json:"actionItems"`
}
