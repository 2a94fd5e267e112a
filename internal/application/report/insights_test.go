package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaydhub/qayd-api/internal/application/identity"
	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

const weekMv = int64(7 * 24 * 60 * 60 * 1000)

func newInsightFixture(snaps *fakeSnapshotRepo, orders *fakeOrderRepo) *InsightService {
	products := &fakeProductRepo{rows: []*entity.Product{
		{ID: "p1", UserID: "u1", SKU: "S1", Title: "Blue Mug", PriceHalala: 4000},
	}}
	costs := &fakeCostRepo{byProduct: map[string]*entity.ProductCost{
		"p1": {
			ID: "c1", ProductID: "p1",
			PurchaseHalala: 2000, LaborHalala: 500, ShippingHalala: 300,
			PackagingHalala: 200, AdsPerUnitHalala: 100,
			PaymentFeeBps: 250, IsConfigured: true,
		},
	}}
	calc := NewCalculator(identity.NewResolver(products), costs)
	return NewInsightService(NewComparator(snaps), orders, calc)
}

// ──────────────────────────────────────────────────────────────────────────────
// Insights
// ──────────────────────────────────────────────────────────────────────────────

func TestInsights_ImprovedWeekNamesDrivers(t *testing.T) {
	snaps := &fakeSnapshotRepo{rows: []*entity.ReportSnapshot{
		weekSnapshot("prev", 0, 100000, 10000, 1000, 10),
		weekSnapshot("cur", weekMv, 130000, 14300, 1100, 13),
	}}
	orders := &fakeOrderRepo{windowRows: []entity.SoldRow{
		soldRow("S1", "Blue Mug", 3, "100.00"),
	}}
	svc := newInsightFixture(snaps, orders)

	out, err := svc.Insights(context.Background(), "u1", "cur", "auto")
	require.NoError(t, err)

	assert.Equal(t, StatusImproved, out.Status)
	require.NotEmpty(t, out.TopProfitProducts)
	assert.Equal(t, "Blue Mug", out.TopProfitProducts[0].Name)

	require.NotEmpty(t, out.Insights)
	assert.Contains(t, out.Insights[0], "تحسن")
	// The driver sentence names the top products.
	assert.Contains(t, out.Insights[1], "Blue Mug")

	assert.Len(t, out.ActionItems, 3, "actions pad to three entries")
}

func TestInsights_DeclinedWeek(t *testing.T) {
	snaps := &fakeSnapshotRepo{rows: []*entity.ReportSnapshot{
		weekSnapshot("prev", 0, 100000, 10000, 1000, 10),
		weekSnapshot("cur", weekMv, 70000, 4900, 700, 7),
	}}
	orders := &fakeOrderRepo{windowRows: []entity.SoldRow{
		soldRow("S1", "Blue Mug", 3, "100.00"),
	}}
	svc := newInsightFixture(snaps, orders)

	out, err := svc.Insights(context.Background(), "u1", "cur", "auto")
	require.NoError(t, err)

	assert.Equal(t, StatusDeclined, out.Status)
	assert.Contains(t, out.Insights[0], "تراجع")
	assert.Contains(t, out.ActionItems[0], "راجع أسعار")
}

func TestInsights_FirstWeekHasNoBaseline(t *testing.T) {
	snaps := &fakeSnapshotRepo{rows: []*entity.ReportSnapshot{
		weekSnapshot("cur", 0, 100000, 10000, 1000, 10),
	}}
	orders := &fakeOrderRepo{}
	svc := newInsightFixture(snaps, orders)

	out, err := svc.Insights(context.Background(), "u1", "cur", "auto")
	require.NoError(t, err)

	assert.Equal(t, StatusNoChange, out.Status)
	assert.Contains(t, out.Insights[0], "أول أسبوع")
}

func TestInsights_MissingCostsCalledOut(t *testing.T) {
	snaps := &fakeSnapshotRepo{rows: []*entity.ReportSnapshot{
		weekSnapshot("cur", 0, 100000, 10000, 1000, 10),
	}}
	orders := &fakeOrderRepo{windowRows: []entity.SoldRow{
		soldRow("S9", "Mystery", 2, "50.00"), // no cost record anywhere
	}}
	svc := newInsightFixture(snaps, orders)

	out, err := svc.Insights(context.Background(), "u1", "cur", "auto")
	require.NoError(t, err)

	joined := ""
	for _, s := range out.Insights {
		joined += s
	}
	assert.Contains(t, joined, "بدون تكاليف")
	actions := ""
	for _, s := range out.ActionItems {
		actions += s
	}
	assert.Contains(t, actions, "صفحة التكاليف")
}

func TestInsights_ListsCapAtThree(t *testing.T) {
	snaps := &fakeSnapshotRepo{rows: []*entity.ReportSnapshot{
		weekSnapshot("cur", 0, 100000, 10000, 1000, 10),
	}}
	orders := &fakeOrderRepo{windowRows: []entity.SoldRow{
		soldRow("S1", "Blue Mug", 1, "40.00"),
		soldRow("A1", "One", 1, "10.00"),
		soldRow("A2", "Two", 1, "11.00"),
		soldRow("A3", "Three", 1, "12.00"),
		soldRow("A4", "Four", 1, "13.00"),
	}}
	svc := newInsightFixture(snaps, orders)

	out, err := svc.Insights(context.Background(), "u1", "cur", "auto")
	require.NoError(t, err)

	assert.Len(t, out.TopProfitProducts, 3)
	assert.Len(t, out.LowMarginProducts, 3)
	assert.LessOrEqual(t, len(out.Insights), 3)
	assert.LessOrEqual(t, len(out.ActionItems), 3)
}

func TestInsights_MissingCurrentSnapshot(t *testing.T) {
	svc := newInsightFixture(&fakeSnapshotRepo{}, &fakeOrderRepo{})
	_, err := svc.Insights(context.Background(), "u1", "nope", "auto")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
