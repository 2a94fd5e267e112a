// Package money converts between display currency (SAR) and the integer
// minor-unit representation (halala, 1/100 SAR) used for all internal
// arithmetic. Only the presentation boundary divides back by 100.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SAR to halala and percent to bps use the same x100 scale factor.
var scale = decimal.NewFromInt(100)

// ToHalala parses a decimal SAR amount and returns it in halala, rounded to
// the nearest integer. Malformed or non-finite input normalizes to 0 because
// ingestion must never fail a whole batch over one bad cell.
func ToHalala(sar string) int64 {
	d, err := decimal.NewFromString(strings.TrimSpace(sar))
	if err != nil {
		return 0
	}
	return d.Mul(scale).Round(0).IntPart()
}

// DecimalToHalala converts an already-parsed SAR decimal to halala.
func DecimalToHalala(sar decimal.Decimal) int64 {
	return sar.Mul(scale).Round(0).IntPart()
}

// HalalaToSAR converts halala back to a display SAR decimal.
func HalalaToSAR(halala int64) decimal.Decimal {
	return decimal.NewFromInt(halala).Div(scale)
}

// PercentToBps converts a decimal percentage (e.g. "2.5") to basis points,
// rounded to the nearest bp. Malformed input normalizes to 0.
func PercentToBps(percent string) int64 {
	d, err := decimal.NewFromString(strings.TrimSpace(percent))
	if err != nil {
		return 0
	}
	return d.Mul(scale).Round(0).IntPart()
}

// ApplyFeeBps computes round(amount * bps / 10000) in halala.
// Rounds half away from zero, matching the rest of the pipeline.
func ApplyFeeBps(amountHalala, bps int64) int64 {
	return decimal.NewFromInt(amountHalala).
		Mul(decimal.NewFromInt(bps)).
		Div(decimal.NewFromInt(10000)).
		Round(0).IntPart()
}

// RoundDiv computes round(a / b), the shared rounding rule for per-unit
// prices. b must be non-zero; callers guard the denominator.
func RoundDiv(a, b int64) int64 {
	return decimal.NewFromInt(a).Div(decimal.NewFromInt(b)).Round(0).IntPart()
}
