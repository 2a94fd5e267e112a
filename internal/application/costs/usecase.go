// Package costs is the cost ledger: per-identity storage and retrieval of
// product cost components, plus the costs-page listing with derived per-unit
// figures.
package costs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/application/identity"
	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/money"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// UseCase is the cost ledger over the product catalog and cost rows.
type UseCase struct {
	products repository.ProductRepository
	costRepo repository.CostRepository
	resolver *identity.Resolver
	now      func() int64
}

// NewUseCase builds the ledger.
func NewUseCase(products repository.ProductRepository, costRepo repository.CostRepository, resolver *identity.Resolver) *UseCase {
	return &UseCase{
		products: products,
		costRepo: costRepo,
		resolver: resolver,
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// GetByIdentity returns the cost record for an identity key. When the
// identity resolves to no product, or the product has no cost row, the
// result is the all-zero record with IsConfigured=false. Callers must read
// that as "missing cost", not "free to produce".
func (uc *UseCase) GetByIdentity(ctx context.Context, userID, identityKey string) (dto.CostRecordDTO, error) {
	p, err := uc.resolver.ResolveKey(ctx, userID, identityKey)
	if err != nil {
		return dto.CostRecordDTO{}, err
	}
	if p == nil {
		return dto.CostRecordDTO{}, nil
	}
	c, err := uc.costRepo.GetByProductID(ctx, p.ID)
	if err != nil {
		return dto.CostRecordDTO{}, err
	}
	if c == nil {
		return dto.CostRecordDTO{}, nil
	}
	return toCostRecordDTO(c), nil
}

// UpsertByIdentity converts the display-currency payload and stores it
// against the identity's product. An identity that resolves to no product is
// a caller mistake and fails with domain.ErrIdentityNotFound; costs can only
// exist for products that have been seen at least once.
func (uc *UseCase) UpsertByIdentity(ctx context.Context, userID string, req dto.UpsertCostsRequest) (*dto.UpsertCostsResponse, error) {
	if strings.TrimSpace(req.IdentityKey) == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.resolver.ResolveKey(ctx, userID, req.IdentityKey)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrIdentityNotFound
	}

	now := uc.now()
	record := &entity.ProductCost{
		ID:               uuid.New().String(),
		ProductID:        p.ID,
		PurchaseHalala:   money.DecimalToHalala(req.Costs.PurchaseCostSAR),
		LaborHalala:      money.DecimalToHalala(req.Costs.LaborCostSAR),
		ShippingHalala:   money.DecimalToHalala(req.Costs.ShippingCostSAR),
		PackagingHalala:  money.DecimalToHalala(req.Costs.PackagingCostSAR),
		AdsPerUnitHalala: money.DecimalToHalala(req.Costs.AdsCostPerUnitSAR),
		// percent to bps is the same x100 scale as SAR to halala
		PaymentFeeBps: money.DecimalToHalala(req.Costs.PaymentFeePercent),
		IsConfigured:  true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.costRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	stored := toCostRecordDTO(record)
	return &dto.UpsertCostsResponse{
		IdentityKey: req.IdentityKey,
		Costs:       stored,
		Computed:    ComputeUnitFigures(&p.PriceHalala, stored),
	}, nil
}

// List returns the costs page: one row per product identity with stored
// costs and figures derived against the latest catalog price. q filters by
// SKU or name substring, case-insensitive.
func (uc *UseCase) List(ctx context.Context, userID, q string) (*dto.CostListResponse, error) {
	rows, err := uc.products.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups := identity.GroupProducts(rows)

	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]dto.CostIdentityDTO, 0, len(groups))
	for _, g := range groups {
		if q != "" &&
			!strings.Contains(strings.ToLower(g.SKU), q) &&
			!strings.Contains(strings.ToLower(g.Name), q) {
			continue
		}
		record, err := uc.GetByIdentity(ctx, userID, g.Key)
		if err != nil {
			return nil, err
		}
		item := dto.CostIdentityDTO{
			IdentityKey:       g.Key,
			Name:              g.Name,
			LatestPriceHalala: g.LatestPriceHalala,
			Costs:             record,
			Computed:          ComputeUnitFigures(g.LatestPriceHalala, record),
		}
		if len(g.ProductIDs) > 0 {
			item.PrimaryProductID = &g.ProductIDs[0]
		}
		if g.SKU != "" {
			sku := g.SKU
			item.SKU = &sku
		}
		if g.ExternalID != "" {
			ext := g.ExternalID
			item.ExternalID = &ext
		}
		out = append(out, item)
	}
	return &dto.CostListResponse{Products: out}, nil
}

// ComputeUnitFigures derives total cost, profit and margin per unit against
// a catalog price. Everything is nil without a price; margin is additionally
// nil when the price is not positive (undefined, never a division by zero).
func ComputeUnitFigures(priceHalala *int64, c dto.CostRecordDTO) dto.CostComputedDTO {
	if priceHalala == nil {
		return dto.CostComputedDTO{}
	}
	price := *priceHalala
	fixed := c.PurchaseHalala + c.LaborHalala + c.ShippingHalala + c.PackagingHalala + c.AdsPerUnitHalala
	fees := money.ApplyFeeBps(price, c.PaymentFeeBps)
	total := fixed + fees
	profit := price - total

	out := dto.CostComputedDTO{TotalCostHalala: &total, ProfitHalala: &profit}
	if price > 0 {
		margin := float64(money.RoundDiv(profit*10000, price)) / 100
		out.MarginPercent = &margin
	}
	return out
}

func toCostRecordDTO(c *entity.ProductCost) dto.CostRecordDTO {
	return dto.CostRecordDTO{
		IsConfigured:     c.IsConfigured,
		PurchaseHalala:   c.PurchaseHalala,
		LaborHalala:      c.LaborHalala,
		ShippingHalala:   c.ShippingHalala,
		PackagingHalala:  c.PackagingHalala,
		AdsPerUnitHalala: c.AdsPerUnitHalala,
		PaymentFeeBps:    c.PaymentFeeBps,
	}
}
