package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/qaydhub/qayd-api/internal/domain/money"
)

// ──────────────────────────────────────────────────────────────────────────────
// SAR ↔ halala conversion
// ──────────────────────────────────────────────────────────────────────────────

func TestToHalala(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"100", 10000},
		{"99.99", 9999},
		{"  12.5 ", 1250},
		{"0.005", 1},     // rounds half away from zero
		{"-3.335", -334}, // negative half also rounds away
		{"", 0},
		{"abc", 0}, // malformed input normalizes to 0
	}
	for _, c := range cases {
		assert.Equal(t, c.want, money.ToHalala(c.in), "ToHalala(%q)", c.in)
	}
}

func TestDecimalToHalala_RoundTrip(t *testing.T) {
	d := decimal.RequireFromString("149.95")
	h := money.DecimalToHalala(d)
	assert.Equal(t, int64(14995), h)
	assert.True(t, money.HalalaToSAR(h).Equal(d), "halala back to SAR must be exact")
}

func TestPercentToBps(t *testing.T) {
	assert.Equal(t, int64(250), money.PercentToBps("2.5"))
	assert.Equal(t, int64(100), money.PercentToBps("1"))
	assert.Equal(t, int64(0), money.PercentToBps("not-a-number"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Fee and rounding rules
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyFeeBps(t *testing.T) {
	// 2.5% of 33.33 SAR is 0.833 SAR, 83 halala.
	assert.Equal(t, int64(83), money.ApplyFeeBps(3333, 250))
	// Exact half rounds away from zero: 20 halala at 250 bps is 0.5.
	assert.Equal(t, int64(1), money.ApplyFeeBps(20, 250))
	assert.Equal(t, int64(0), money.ApplyFeeBps(2, 250))
	assert.Equal(t, int64(0), money.ApplyFeeBps(3333, 0))
}

func TestRoundDiv(t *testing.T) {
	assert.Equal(t, int64(3333), money.RoundDiv(10000, 3))
	assert.Equal(t, int64(2), money.RoundDiv(3, 2))   // 1.5 rounds up
	assert.Equal(t, int64(-2), money.RoundDiv(-3, 2)) // -1.5 rounds away from zero
	assert.Equal(t, int64(5), money.RoundDiv(10, 2))
}
