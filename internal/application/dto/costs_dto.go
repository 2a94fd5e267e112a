package dto

import "github.com/shopspring/decimal"

// CostInputDTO is the merchant-facing cost form. Amounts arrive as display
// SAR decimals and a percent for the payment fee; the server converts to
// halala / basis points before storage.
type CostInputDTO struct {
	PurchaseCostSAR   decimal.Decimal `json:"purchase_cost_sar"`
	LaborCostSAR      decimal.Decimal `json:"labor_cost_sar"`
	ShippingCostSAR   decimal.Decimal `json:"shipping_cost_sar"`
	PackagingCostSAR  decimal.Decimal `json:"packaging_cost_sar"`
	AdsCostPerUnitSAR decimal.Decimal `json:"ads_cost_per_unit_sar"`
	PaymentFeePercent decimal.Decimal `json:"payment_fee_percent"`
}

// UpsertCostsRequest upserts costs for one product identity.
type UpsertCostsRequest struct {
	IdentityKey string       `json:"identityKey"`
	Costs       CostInputDTO `json:"costs"`
}

// CostRecordDTO is a stored cost record in halala / bps, plus the configured
// flag. IsConfigured=false means the record is the implicit zero default and
// must be treated as missing cost.
type CostRecordDTO struct {
	IsConfigured     bool  `json:"is_configured"`
	PurchaseHalala   int64 `json:"purchase_cost_halala"`
	LaborHalala      int64 `json:"labor_cost_halala"`
	ShippingHalala   int64 `json:"shipping_cost_halala"`
	PackagingHalala  int64 `json:"packaging_cost_halala"`
	AdsPerUnitHalala int64 `json:"ads_cost_per_unit_halala"`
	PaymentFeeBps    int64 `json:"payment_fee_percent_bps"`
}

// CostComputedDTO is the derived per-unit view against the latest catalog
// price. All fields are nil when no price is known; margin additionally
// requires a positive price.
type CostComputedDTO struct {
	TotalCostHalala *int64   `json:"totalCostHalala"`
	ProfitHalala    *int64   `json:"profitHalala"`
	MarginPercent   *float64 `json:"marginPercent"`
}

// CostIdentityDTO is one row of the costs page: an identity group with its
// stored costs and computed figures.
type CostIdentityDTO struct {
	PrimaryProductID  *string         `json:"primaryProductId"`
	IdentityKey       string          `json:"identityKey"`
	SKU               *string         `json:"sku"`
	ExternalID        *string         `json:"externalId"`
	Name              string          `json:"name"`
	LatestPriceHalala *int64          `json:"latestPriceHalala"`
	Costs             CostRecordDTO   `json:"costs"`
	Computed          CostComputedDTO `json:"computed"`
}

// CostListResponse is the costs page listing.
type CostListResponse struct {
	Products []CostIdentityDTO `json:"products"`
}

// UpsertCostsResponse echoes the updated record with recomputed figures.
type UpsertCostsResponse struct {
	IdentityKey string          `json:"identityKey"`
	Costs       CostRecordDTO   `json:"costs"`
	Computed    CostComputedDTO `json:"computed"`
}
