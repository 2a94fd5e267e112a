package dto

// NarrativeInput is the numeric context handed to the narrative collaborator.
// It carries only already-computed display figures; the model narrates, it
// never recomputes.
type NarrativeInput struct {
	Platform     string              `json:"platform"`
	StoreName    string              `json:"storeName"`
	Metrics      MetricsDTO          `json:"metrics"`
	TopProducts  []RevenueProductDTO `json:"top_products"`
	WeakProducts []RevenueProductDTO `json:"weak_products"`
}

// NarrativeDTO is the raw model output before normalization into
// AINarrativeDTO.
type NarrativeDTO struct {
	Summary             string   `json:"summary"`
	ConversionInsight   string   `json:"conversion_insight"`
	PricingSuggestions  string   `json:"pricing_suggestions"`
	GrowthOpportunities []string `json:"growth_opportunities"`
}
