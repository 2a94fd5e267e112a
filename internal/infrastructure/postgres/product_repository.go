package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, user_id, platform, external_id, title, sku, price_halala, inventory, category, report_id, created_at, updated_at`

// ProductRepo implements ProductRepository over PostgreSQL (usable with pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the catalog persistence adapter.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Upsert inserts the row or, on a (user_id, external_id) conflict, refreshes
// the catalog fields and batch pointer of the existing row.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, external_id) DO UPDATE SET
			platform = EXCLUDED.platform,
			title = EXCLUDED.title,
			sku = EXCLUDED.sku,
			price_halala = EXCLUDED.price_halala,
			inventory = EXCLUDED.inventory,
			category = EXCLUDED.category,
			report_id = EXCLUDED.report_id,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.UserID, p.Platform, p.ExternalID, p.Title, p.SKU,
		p.PriceHalala, p.Inventory, p.Category, p.ReportID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetByID fetches one catalog row, or (nil, nil).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByExternalID fetches the row keyed by (user, external id), or (nil, nil).
func (r *ProductRepo) GetByExternalID(ctx context.Context, userID, externalID string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 AND external_id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, userID, externalID))
}

// ListByUser returns all catalog rows newest-first. The identity resolver
// depends on this exact ordering for its recency tie-break.
func (r *ProductRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE user_id = $1
		ORDER BY updated_at DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CountByUser counts the user's catalog rows.
func (r *ProductRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func scanProduct(row pgx.Row, p *entity.Product) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.Platform, &p.ExternalID, &p.Title, &p.SKU,
		&p.PriceHalala, &p.Inventory, &p.Category, &p.ReportID, &p.CreatedAt, &p.UpdatedAt,
	)
}
