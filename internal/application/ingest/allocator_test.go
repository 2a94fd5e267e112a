package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Revenue allocation
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocateRevenue_ProportionalByQty(t *testing.T) {
	// 100.00 SAR over qtys 1 and 3: 2500 + 7500.
	out := AllocateRevenue(10000, []int64{1, 3})
	assert.Equal(t, []int64{2500, 7500}, out)
}

func TestAllocateRevenue_SingleItemGetsFullTotal(t *testing.T) {
	assert.Equal(t, []int64{9999}, AllocateRevenue(9999, []int64{7}))
}

func TestAllocateRevenue_IndependentRoundingMayDrift(t *testing.T) {
	// 100.00 SAR over three equal qtys: each share is 3333.33... and rounds
	// independently, so the parts sum to 9999, one halala short of the total.
	// That drift is part of the storage contract; snapshots hash it as-is.
	out := AllocateRevenue(10000, []int64{1, 1, 1})
	require.Len(t, out, 3)
	var sum int64
	for _, v := range out {
		assert.Equal(t, int64(3333), v)
		sum += v
	}
	assert.Equal(t, int64(9999), sum)
}

func TestAllocateRevenue_ZeroTotalQty(t *testing.T) {
	// Degenerate batch: every item records the full order total.
	assert.Equal(t, []int64{500, 500}, AllocateRevenue(500, []int64{0, 0}))
}

func TestAllocateRevenue_EmptyItems(t *testing.T) {
	assert.Nil(t, AllocateRevenue(1000, nil))
}
