package repository

import (
	"context"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

// ProductRepository is the persistence port for catalog rows.
//
// ListByUser returns rows ordered by updated_at DESC, created_at DESC. The
// identity resolver relies on that order for its recency tie-break, so every
// implementation (including test fakes) must preserve it.
type ProductRepository interface {
	// Upsert inserts the product or, when a row with the same
	// (user_id, external_id) exists, updates its catalog fields and ReportID.
	Upsert(ctx context.Context, p *entity.Product) error

	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByExternalID(ctx context.Context, userID, externalID string) (*entity.Product, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Product, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
