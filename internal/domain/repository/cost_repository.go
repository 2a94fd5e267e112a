package repository

import (
	"context"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

// CostRepository is the persistence port for per-product cost records.
type CostRepository interface {
	// GetByProductID returns the cost row for a product, or (nil, nil) when
	// none exists. Absence means "missing cost", never "zero cost".
	GetByProductID(ctx context.Context, productID string) (*entity.ProductCost, error)

	// Upsert inserts or replaces the cost row keyed by product_id.
	// Concurrent upserts are last-write-wins; cost edits are rare,
	// single-user operations and need no optimistic locking.
	Upsert(ctx context.Context, c *entity.ProductCost) error
}
