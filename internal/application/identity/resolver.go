package identity

import (
	"context"
	"strings"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// Resolver maps sold line items and identity keys to a concrete catalog row.
//
// Tie-break when several rows match: a row from the target report batch wins,
// then the most recently updated, then the most recently created. The
// repository returns rows already ordered by recency, so the report
// preference is the only reordering applied here.
type Resolver struct {
	products repository.ProductRepository
}

// NewResolver builds the shared resolver.
func NewResolver(products repository.ProductRepository) *Resolver {
	return &Resolver{products: products}
}

// ResolveSold resolves a sold (sku, name) pair for a user to a product row,
// preferring rows seen in reportID. Returns (nil, nil) when nothing matches;
// the caller accounts the group as missing-cost, it is not an error.
func (r *Resolver) ResolveSold(ctx context.Context, userID, sku, name, reportID string) (*entity.Product, error) {
	rows, err := r.products.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s := strings.TrimSpace(sku); s != "" {
		if p := bestMatch(rows, reportID, func(p *entity.Product) bool {
			return strings.TrimSpace(p.SKU) == s
		}); p != nil {
			return p, nil
		}
	}

	n := NormalizeName(name)
	if n == "" {
		return nil, nil
	}
	match := func(p *entity.Product) bool { return NormalizeName(p.Title) == n }
	// Scoped to the target report first, then any batch.
	for _, p := range rows {
		if p.ReportID == reportID && match(p) {
			return p, nil
		}
	}
	return bestMatch(rows, reportID, match), nil
}

// ResolveKey resolves a canonical identity key (sku: / ext: / name:) to a
// product row. Name values are compared lowercase, matching how the key was
// built. Returns (nil, nil) for an unknown or unmatched identity.
func (r *Resolver) ResolveKey(ctx context.Context, userID, key string) (*entity.Product, error) {
	kind, value, ok := ParseKey(key)
	if !ok {
		return nil, nil
	}
	rows, err := r.products.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindSKU:
		return bestMatch(rows, "", func(p *entity.Product) bool {
			return strings.TrimSpace(p.SKU) == value
		}), nil
	case KindExt:
		return bestMatch(rows, "", func(p *entity.Product) bool {
			return strings.TrimSpace(p.ExternalID) == value
		}), nil
	default: // KindName
		lowered := strings.ToLower(value)
		return bestMatch(rows, "", func(p *entity.Product) bool {
			return strings.ToLower(NormalizeName(p.Title)) == lowered
		}), nil
	}
}

// bestMatch scans recency-ordered rows and returns the first match from
// preferReportID when set, else the first match overall.
func bestMatch(rows []*entity.Product, preferReportID string, match func(*entity.Product) bool) *entity.Product {
	var first *entity.Product
	for _, p := range rows {
		if !match(p) {
			continue
		}
		if preferReportID != "" && p.ReportID == preferReportID {
			return p
		}
		if first == nil {
			first = p
		}
	}
	return first
}
