package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

func weekSnapshot(id string, start int64, sales, profit, marginX100, orders int64) *entity.ReportSnapshot {
	return &entity.ReportSnapshot{
		ID:                id,
		UserID:            "u1",
		SourceHash:        "hash-" + id,
		TimeRangeStart:    start,
		TimeRangeEnd:      start + 7*24*60*60*1000 - 1,
		GrossSalesHalala:  sales,
		TotalProfitHalala: profit,
		MarginPctX100:     marginX100,
		OrdersCount:       orders,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Percent delta semantics
// ──────────────────────────────────────────────────────────────────────────────

func TestPctDelta(t *testing.T) {
	d := pctDelta(150, 100)
	require.NotNil(t, d)
	assert.InDelta(t, 50, *d, 0.0001)

	d = pctDelta(50, 100)
	require.NotNil(t, d)
	assert.InDelta(t, -50, *d, 0.0001)

	// Zero baseline with movement: undefined ratio, nil delta.
	assert.Nil(t, pctDelta(100, 0))

	// Zero to zero: explicitly zero.
	d = pctDelta(0, 0)
	require.NotNil(t, d)
	assert.Zero(t, *d)
}

// ──────────────────────────────────────────────────────────────────────────────
// Classification
// ──────────────────────────────────────────────────────────────────────────────

func TestDiffSnapshots_NoPreviousIsNoChange(t *testing.T) {
	deltas, status := diffSnapshots(weekSnapshot("cur", 0, 10000, 1000, 1000, 5), nil)
	assert.Equal(t, StatusNoChange, status)
	assert.Nil(t, deltas.SalesDeltaPct)
	assert.Nil(t, deltas.MarginDeltaPct)
	assert.Nil(t, deltas.OrdersDelta)
}

func TestDiffSnapshots_WithinThresholdsIsNoChange(t *testing.T) {
	prev := weekSnapshot("prev", 0, 100000, 10000, 1000, 10)
	cur := weekSnapshot("cur", 1, 100300, 10030, 1010, 10) // +0.3% sales/profit, +0.1pt margin

	_, status := diffSnapshots(cur, prev)
	assert.Equal(t, StatusNoChange, status)
}

func TestDiffSnapshots_Improved(t *testing.T) {
	prev := weekSnapshot("prev", 0, 100000, 10000, 1000, 10)
	cur := weekSnapshot("cur", 1, 120000, 13000, 1080, 12)

	deltas, status := diffSnapshots(cur, prev)
	assert.Equal(t, StatusImproved, status)
	require.NotNil(t, deltas.SalesDeltaPct)
	assert.InDelta(t, 20, *deltas.SalesDeltaPct, 0.0001)
	require.NotNil(t, deltas.MarginDeltaPct)
	assert.InDelta(t, 0.8, *deltas.MarginDeltaPct, 0.0001)
	require.NotNil(t, deltas.OrdersDelta)
	assert.EqualValues(t, 2, *deltas.OrdersDelta)
}

func TestDiffSnapshots_Declined(t *testing.T) {
	prev := weekSnapshot("prev", 0, 100000, 10000, 1000, 10)
	cur := weekSnapshot("cur", 1, 80000, 6000, 750, 8)

	_, status := diffSnapshots(cur, prev)
	assert.Equal(t, StatusDeclined, status)
}

func TestDiffSnapshots_MarginDominatesMixedSignal(t *testing.T) {
	// Sales up 2%, margin down 1.2pt: the margin weight (1.0 vs 0.5) flips
	// the overall score negative.
	prev := weekSnapshot("prev", 0, 100000, 10000, 1000, 10)
	cur := weekSnapshot("cur", 1, 102000, 10000, 880, 10)

	_, status := diffSnapshots(cur, prev)
	assert.Equal(t, StatusDeclined, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comparator service
// ──────────────────────────────────────────────────────────────────────────────

func TestCompare_AutoSelectsLatestBeforeCurrent(t *testing.T) {
	const week = int64(7 * 24 * 60 * 60 * 1000)
	snaps := &fakeSnapshotRepo{rows: []*entity.ReportSnapshot{
		weekSnapshot("w1", 0, 50000, 5000, 1000, 5),
		weekSnapshot("w2", week, 60000, 6600, 1100, 6),
		weekSnapshot("w3", 2*week, 80000, 9600, 1200, 8),
	}}
	c := NewComparator(snaps)

	resp, err := c.Compare(context.Background(), "u1", "w3", "auto")
	require.NoError(t, err)
	require.NotNil(t, resp.Previous)
	assert.Equal(t, "w2", resp.Previous.ID)
	assert.Equal(t, StatusImproved, resp.Status)

	// Display fields arrive in SAR and percent.
	assert.EqualValues(t, 800, resp.Current.Sales)
	assert.EqualValues(t, 12, resp.Current.MarginPct)
}

func TestCompare_ExplicitPreviousID(t *testing.T) {
	const week = int64(7 * 24 * 60 * 60 * 1000)
	snaps := &fakeSnapshotRepo{rows: []*entity.ReportSnapshot{
		weekSnapshot("w1", 0, 50000, 5000, 1000, 5),
		weekSnapshot("w3", 2*week, 80000, 9600, 1200, 8),
	}}
	c := NewComparator(snaps)

	resp, err := c.Compare(context.Background(), "u1", "w3", "w1")
	require.NoError(t, err)
	require.NotNil(t, resp.Previous)
	assert.Equal(t, "w1", resp.Previous.ID)
}

func TestCompare_MissingCurrentFails(t *testing.T) {
	c := NewComparator(&fakeSnapshotRepo{})
	_, err := c.Compare(context.Background(), "u1", "nope", "auto")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompare_MissingExplicitPreviousDegradesToFirstWeek(t *testing.T) {
	snaps := &fakeSnapshotRepo{rows: []*entity.ReportSnapshot{
		weekSnapshot("w1", 0, 50000, 5000, 1000, 5),
	}}
	c := NewComparator(snaps)

	resp, err := c.Compare(context.Background(), "u1", "w1", "gone")
	require.NoError(t, err)
	assert.Nil(t, resp.Previous)
	assert.Equal(t, StatusNoChange, resp.Status)
}
