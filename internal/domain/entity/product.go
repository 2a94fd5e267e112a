package entity

// Product is one catalog row as seen in one upload or sync batch.
// Re-uploads create new rows for the same real-world product; they are
// reconciled through the identity resolver, never deduplicated at storage
// time. ReportID records the batch in which the row was last seen.
type Product struct {
	ID          string
	UserID      string
	Platform    string // "csv" | "salla"
	ExternalID  string
	Title       string
	SKU         string
	PriceHalala int64
	Inventory   int
	Category    string
	ReportID    string
	CreatedAt   int64 // epoch ms
	UpdatedAt   int64
}
