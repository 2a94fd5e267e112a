package costs

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/application/identity"
	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	rows []*entity.Product
}

func (f *fakeProductRepo) Upsert(ctx context.Context, p *entity.Product) error { return nil }

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	for _, p := range f.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByExternalID(ctx context.Context, userID, externalID string) (*entity.Product, error) {
	for _, p := range f.rows {
		if p.UserID == userID && p.ExternalID == externalID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	rows, _ := f.ListByUser(ctx, userID)
	return int64(len(rows)), nil
}

type fakeCostRepo struct {
	byProduct map[string]*entity.ProductCost
}

func (f *fakeCostRepo) GetByProductID(ctx context.Context, productID string) (*entity.ProductCost, error) {
	return f.byProduct[productID], nil
}

func (f *fakeCostRepo) Upsert(ctx context.Context, c *entity.ProductCost) error {
	if f.byProduct == nil {
		f.byProduct = make(map[string]*entity.ProductCost)
	}
	f.byProduct[c.ProductID] = c
	return nil
}

func newFixture() (*UseCase, *fakeProductRepo, *fakeCostRepo) {
	products := &fakeProductRepo{rows: []*entity.Product{
		{ID: "p1", UserID: "u1", SKU: "S1", ExternalID: "e1", Title: "Blue Mug", PriceHalala: 4000},
		{ID: "p2", UserID: "u1", Title: "Unnamed Import", PriceHalala: 1500},
	}}
	costs := &fakeCostRepo{byProduct: map[string]*entity.ProductCost{}}
	return NewUseCase(products, costs, identity.NewResolver(products)), products, costs
}

func sar(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Upsert
// ──────────────────────────────────────────────────────────────────────────────

func TestUpsertByIdentity_ConvertsToHalalaAndBps(t *testing.T) {
	uc, _, costs := newFixture()

	resp, err := uc.UpsertByIdentity(context.Background(), "u1", dto.UpsertCostsRequest{
		IdentityKey: "sku:S1",
		Costs: dto.CostInputDTO{
			PurchaseCostSAR:   sar("20.00"),
			LaborCostSAR:      sar("5.00"),
			ShippingCostSAR:   sar("3.00"),
			PackagingCostSAR:  sar("2.00"),
			AdsCostPerUnitSAR: sar("1.00"),
			PaymentFeePercent: sar("2.5"),
		},
	})
	require.NoError(t, err)

	stored := costs.byProduct["p1"]
	require.NotNil(t, stored)
	assert.Equal(t, int64(2000), stored.PurchaseHalala)
	assert.Equal(t, int64(250), stored.PaymentFeeBps, "2.5% stores as 250 bps")
	assert.True(t, stored.IsConfigured)

	// Computed against the 40.00 SAR catalog price: fee 100, total 3200,
	// profit 800, margin 20%.
	require.NotNil(t, resp.Computed.TotalCostHalala)
	assert.Equal(t, int64(3200), *resp.Computed.TotalCostHalala)
	require.NotNil(t, resp.Computed.ProfitHalala)
	assert.Equal(t, int64(800), *resp.Computed.ProfitHalala)
	require.NotNil(t, resp.Computed.MarginPercent)
	assert.InDelta(t, 20, *resp.Computed.MarginPercent, 0.001)
}

func TestUpsertByIdentity_BlankKey(t *testing.T) {
	uc, _, _ := newFixture()
	_, err := uc.UpsertByIdentity(context.Background(), "u1", dto.UpsertCostsRequest{IdentityKey: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpsertByIdentity_UnknownIdentity(t *testing.T) {
	uc, _, _ := newFixture()
	_, err := uc.UpsertByIdentity(context.Background(), "u1", dto.UpsertCostsRequest{IdentityKey: "sku:MISSING"})
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Get
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByIdentity_MissingIsZeroRecord(t *testing.T) {
	uc, _, _ := newFixture()

	// Resolvable product without a cost row, and an unresolvable identity,
	// both come back as the unconfigured zero record.
	rec, err := uc.GetByIdentity(context.Background(), "u1", "sku:S1")
	require.NoError(t, err)
	assert.False(t, rec.IsConfigured)

	rec, err = uc.GetByIdentity(context.Background(), "u1", "sku:NOPE")
	require.NoError(t, err)
	assert.False(t, rec.IsConfigured)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listing
// ──────────────────────────────────────────────────────────────────────────────

func TestList_GroupsAndFilters(t *testing.T) {
	uc, _, _ := newFixture()
	ctx := context.Background()

	_, err := uc.UpsertByIdentity(ctx, "u1", dto.UpsertCostsRequest{
		IdentityKey: "sku:S1",
		Costs:       dto.CostInputDTO{PurchaseCostSAR: sar("10.00")},
	})
	require.NoError(t, err)

	all, err := uc.List(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, all.Products, 2)

	filtered, err := uc.List(ctx, "u1", "blue")
	require.NoError(t, err)
	require.Len(t, filtered.Products, 1)
	row := filtered.Products[0]
	assert.Equal(t, "sku:S1", row.IdentityKey)
	assert.True(t, row.Costs.IsConfigured)
	require.NotNil(t, row.Computed.ProfitHalala)
	assert.Equal(t, int64(3000), *row.Computed.ProfitHalala)
}

// ──────────────────────────────────────────────────────────────────────────────
// Derived unit figures
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeUnitFigures(t *testing.T) {
	rec := dto.CostRecordDTO{PurchaseHalala: 1000, PaymentFeeBps: 250, IsConfigured: true}

	// No catalog price: nothing is derivable.
	out := ComputeUnitFigures(nil, rec)
	assert.Nil(t, out.TotalCostHalala)
	assert.Nil(t, out.ProfitHalala)
	assert.Nil(t, out.MarginPercent)

	// Zero price: totals are derivable, margin is not.
	zero := int64(0)
	out = ComputeUnitFigures(&zero, rec)
	require.NotNil(t, out.ProfitHalala)
	assert.Equal(t, int64(-1000), *out.ProfitHalala)
	assert.Nil(t, out.MarginPercent)

	price := int64(4000)
	out = ComputeUnitFigures(&price, rec)
	require.NotNil(t, out.MarginPercent)
	// fee 100, total 1100, profit 2900, margin 72.5%.
	assert.InDelta(t, 72.5, *out.MarginPercent, 0.001)
}
