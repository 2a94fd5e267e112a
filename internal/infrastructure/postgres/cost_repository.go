package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

var _ repository.CostRepository = (*CostRepo)(nil)

// CostRepo implements CostRepository over PostgreSQL (usable with pool or tx).
type CostRepo struct {
	q Querier
}

// NewCostRepository builds the cost persistence adapter.
func NewCostRepository(q Querier) *CostRepo {
	return &CostRepo{q: q}
}

// GetByProductID fetches the cost row for a product, or (nil, nil).
func (r *CostRepo) GetByProductID(ctx context.Context, productID string) (*entity.ProductCost, error) {
	query := `
		SELECT id, product_id, purchase_cost_halala, labor_cost_halala, shipping_cost_halala,
		       packaging_cost_halala, ads_cost_per_unit_halala, payment_fee_percent_bps,
		       is_configured, created_at, updated_at
		FROM product_costs WHERE product_id = $1`
	var c entity.ProductCost
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&c.ID, &c.ProductID, &c.PurchaseHalala, &c.LaborHalala, &c.ShippingHalala,
		&c.PackagingHalala, &c.AdsPerUnitHalala, &c.PaymentFeeBps,
		&c.IsConfigured, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product cost: %w", err)
	}
	return &c, nil
}

// Upsert writes the cost row keyed by product_id, last write wins.
func (r *CostRepo) Upsert(ctx context.Context, c *entity.ProductCost) error {
	query := `
		INSERT INTO product_costs (id, product_id, purchase_cost_halala, labor_cost_halala,
			shipping_cost_halala, packaging_cost_halala, ads_cost_per_unit_halala,
			payment_fee_percent_bps, is_configured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (product_id) DO UPDATE SET
			purchase_cost_halala = EXCLUDED.purchase_cost_halala,
			labor_cost_halala = EXCLUDED.labor_cost_halala,
			shipping_cost_halala = EXCLUDED.shipping_cost_halala,
			packaging_cost_halala = EXCLUDED.packaging_cost_halala,
			ads_cost_per_unit_halala = EXCLUDED.ads_cost_per_unit_halala,
			payment_fee_percent_bps = EXCLUDED.payment_fee_percent_bps,
			is_configured = EXCLUDED.is_configured,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ProductID, c.PurchaseHalala, c.LaborHalala, c.ShippingHalala,
		c.PackagingHalala, c.AdsPerUnitHalala, c.PaymentFeeBps,
		c.IsConfigured, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product cost: %w", err)
	}
	return nil
}
