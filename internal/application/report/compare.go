package report

import (
	"context"
	"math"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// Comparison outcome labels.
const (
	StatusImproved = "improved"
	StatusDeclined = "declined"
	StatusNoChange = "no_change"
)

// PreviousAuto selects the most recent snapshot ending before the current
// one instead of an explicit snapshot id.
const PreviousAuto = "auto"

// Comparator serves week-over-week snapshot comparison.
type Comparator struct {
	snapshots repository.SnapshotRepository
}

// NewComparator builds the comparator.
func NewComparator(snapshots repository.SnapshotRepository) *Comparator {
	return &Comparator{snapshots: snapshots}
}

// Compare diffs the current snapshot against a previous one. previousRef is
// a snapshot id, or "auto"/empty for the latest snapshot before the current
// window. With no previous snapshot all deltas are nil and the status is
// no_change; a first week has nothing to improve on.
func (c *Comparator) Compare(ctx context.Context, userID, currentID, previousRef string) (*dto.CompareResponse, error) {
	cur, prev, err := c.resolvePair(ctx, userID, currentID, previousRef)
	if err != nil {
		return nil, err
	}

	deltas, status := diffSnapshots(cur, prev)
	resp := &dto.CompareResponse{
		Current: toCompareSide(cur),
		Deltas:  deltas,
		Status:  status,
	}
	if prev != nil {
		side := toCompareSide(prev)
		resp.Previous = &side
	}
	return resp, nil
}

// resolvePair loads the current snapshot (required) and the previous one
// (optional). An explicit previous id that does not exist degrades to no
// previous rather than failing the whole comparison.
func (c *Comparator) resolvePair(ctx context.Context, userID, currentID, previousRef string) (cur, prev *entity.ReportSnapshot, err error) {
	cur, err = c.snapshots.GetByID(ctx, userID, currentID)
	if err != nil {
		return nil, nil, err
	}
	if cur == nil {
		return nil, nil, domain.ErrNotFound
	}

	if previousRef == "" || previousRef == PreviousAuto {
		prev, err = c.snapshots.PreviousBefore(ctx, userID, cur.TimeRangeStart)
	} else {
		prev, err = c.snapshots.GetByID(ctx, userID, previousRef)
	}
	if err != nil {
		return nil, nil, err
	}
	return cur, prev, nil
}

// diffSnapshots computes the deltas and the classification shared by the
// compare and insights endpoints.
//
// Sales and profit move as percentages of the previous value; margin moves
// in absolute percentage points. Anything within 0.5% / 0.5% / 0.2pt is
// no_change; beyond that the weighted score 0.5·sales + 0.5·profit +
// 1.0·margin decides the direction, with nil deltas contributing zero.
func diffSnapshots(cur, prev *entity.ReportSnapshot) (dto.CompareDeltasDTO, string) {
	if prev == nil {
		return dto.CompareDeltasDTO{}, StatusNoChange
	}

	salesDelta := pctDelta(float64(cur.GrossSalesHalala), float64(prev.GrossSalesHalala))
	profitDelta := pctDelta(float64(cur.TotalProfitHalala), float64(prev.TotalProfitHalala))
	marginDelta := float64(cur.MarginPctX100-prev.MarginPctX100) / 100
	ordersDelta := cur.OrdersCount - prev.OrdersCount

	deltas := dto.CompareDeltasDTO{
		SalesDeltaPct:  salesDelta,
		ProfitDeltaPct: profitDelta,
		MarginDeltaPct: &marginDelta,
		OrdersDelta:    &ordersDelta,
	}

	absSales := absOrZero(salesDelta)
	absProfit := absOrZero(profitDelta)
	if absSales < 0.5 && absProfit < 0.5 && math.Abs(marginDelta) < 0.2 {
		return deltas, StatusNoChange
	}
	score := orZero(salesDelta)*0.5 + orZero(profitDelta)*0.5 + marginDelta*1.0
	if score >= 0 {
		return deltas, StatusImproved
	}
	return deltas, StatusDeclined
}

// pctDelta is the relative change in percent. A zero baseline makes the
// ratio undefined, so it returns nil unless both values are zero (then 0).
func pctDelta(cur, prev float64) *float64 {
	if prev == 0 {
		if cur == 0 {
			zero := 0.0
			return &zero
		}
		return nil
	}
	d := (cur - prev) / prev * 100
	return &d
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func absOrZero(v *float64) float64 {
	return math.Abs(orZero(v))
}

func toCompareSide(s *entity.ReportSnapshot) dto.CompareSideDTO {
	return dto.CompareSideDTO{
		ID:             s.ID,
		TimeRangeStart: s.TimeRangeStart,
		TimeRangeEnd:   s.TimeRangeEnd,
		Sales:          float64(s.GrossSalesHalala) / 100,
		Profit:         float64(s.TotalProfitHalala) / 100,
		MarginPct:      float64(s.MarginPctX100) / 100,
		Orders:         s.OrdersCount,
	}
}
