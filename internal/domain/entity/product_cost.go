package entity

// ProductCost holds the per-unit cost components for one product row (1:1,
// cascade-deleted with the product). All amounts are halala; the payment fee
// is a percentage in basis points applied to the unit sell price.
//
// IsConfigured distinguishes "merchant explicitly set these" from the implicit
// all-zero default. Callers must treat an unconfigured record as missing cost,
// not as zero cost.
type ProductCost struct {
	ID               string
	ProductID        string
	PurchaseHalala   int64
	LaborHalala      int64
	ShippingHalala   int64
	PackagingHalala  int64
	AdsPerUnitHalala int64
	PaymentFeeBps    int64
	IsConfigured     bool
	CreatedAt        int64 // epoch ms
	UpdatedAt        int64
}

// FixedPerUnit is the sum of the five fixed cost components, in halala.
func (c *ProductCost) FixedPerUnit() int64 {
	return c.PurchaseHalala + c.LaborHalala + c.ShippingHalala + c.PackagingHalala + c.AdsPerUnitHalala
}
