package ingest

import "github.com/shopspring/decimal"

// AllocateRevenue distributes an order total (halala) across its line items
// proportionally by quantity.
//
// A single item, or a batch whose quantities sum to zero, receives the full
// total. Otherwise each item gets round(total * qty / totalQty), rounded
// independently with no residual redistribution, so the sum of allocations can
// differ from the order total by a few halala. That imprecision is accepted
// and documented; do not "fix" it, downstream hashes depend on it.
func AllocateRevenue(totalHalala int64, qtys []int64) []int64 {
	if len(qtys) == 0 {
		return nil
	}

	var totalQty int64
	for _, q := range qtys {
		totalQty += q
	}

	out := make([]int64, len(qtys))
	if len(qtys) == 1 || totalQty == 0 {
		// Items are filtered to qty > 0 upstream, so totalQty == 0 only
		// happens for a degenerate batch; assign the full total either way.
		for i := range out {
			out[i] = totalHalala
		}
		return out
	}

	total := decimal.NewFromInt(totalHalala)
	denom := decimal.NewFromInt(totalQty)
	for i, q := range qtys {
		out[i] = total.Mul(decimal.NewFromInt(q)).Div(denom).Round(0).IntPart()
	}
	return out
}
