package report

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// insightN caps every insights list: product rankings, insight sentences and
// action items.
const insightN = 3

// InsightService derives deterministic, rule-based reading material from a
// snapshot comparison. No AI involved: the sentences are fixed Arabic
// templates selected by the classification.
type InsightService struct {
	comparator *Comparator
	orders     repository.OrderRepository
	calc       *Calculator
}

// NewInsightService builds the service on top of the comparator.
func NewInsightService(comparator *Comparator, orders repository.OrderRepository, calc *Calculator) *InsightService {
	return &InsightService{comparator: comparator, orders: orders, calc: calc}
}

// Insights classifies the week against its predecessor and names the
// products driving the movement. previousRef follows Compare's rules.
func (s *InsightService) Insights(ctx context.Context, userID, currentID, previousRef string) (*dto.InsightsResponse, error) {
	cur, prev, err := s.comparator.resolvePair(ctx, userID, currentID, previousRef)
	if err != nil {
		return nil, err
	}
	_, status := diffSnapshots(cur, prev)

	excluded := domain.ExcludedOrderStatuses
	sold, err := s.orders.SoldRowsByWindow(ctx, userID, cur.TimeRangeStart, cur.TimeRangeEnd, excluded)
	if err != nil {
		return nil, err
	}
	rows, missingCosts, err := s.calc.ForInsights(ctx, userID, sold)
	if err != nil {
		return nil, err
	}

	byProfit := make([]InsightRow, len(rows))
	copy(byProfit, rows)
	sort.SliceStable(byProfit, func(i, j int) bool {
		return byProfit[i].ProfitHalala > byProfit[j].ProfitHalala
	})
	topProfit := toInsightDTOs(byProfit)

	byMargin := make([]InsightRow, len(rows))
	copy(byMargin, rows)
	sort.SliceStable(byMargin, func(i, j int) bool {
		return byMargin[i].MarginPct < byMargin[j].MarginPct
	})
	lowMargin := toInsightDTOs(byMargin)

	return &dto.InsightsResponse{
		Status:            status,
		TopProfitProducts: topProfit,
		LowMarginProducts: lowMargin,
		Insights:          buildInsights(status, prev != nil, topProfit, lowMargin, missingCosts),
		ActionItems:       buildActions(status, lowMargin, missingCosts),
	}, nil
}

// buildInsights selects up to three observation sentences: overall
// direction first, then the products behind it, then the missing-cost
// caveat.
func buildInsights(status string, hasPrev bool, topProfit, lowMargin []dto.InsightProductDTO, missingCosts bool) []string {
	var out []string

	switch {
	case !hasPrev:
		out = append(out, "هذا أول أسبوع في السجل، ما فيه أسبوع سابق للمقارنة.")
	case status == StatusImproved:
		out = append(out, "الأداء هذا الأسبوع تحسن مقارنة بالأسبوع السابق.")
	case status == StatusDeclined:
		out = append(out, "الأداء هذا الأسبوع تراجع مقارنة بالأسبوع السابق.")
	default:
		out = append(out, "الأداء هذا الأسبوع قريب من الأسبوع السابق.")
	}

	if status == StatusImproved && len(topProfit) > 0 {
		out = append(out, "أكبر سبب للتحسن: زيادة الربح في منتجات "+joinNames(topProfit)+".")
	}
	if status == StatusDeclined && len(lowMargin) > 0 {
		out = append(out, "الهامش نزل بسبب هامش ضعيف في منتجات "+joinNames(lowMargin)+".")
	}
	if missingCosts {
		out = append(out, "بعض المنتجات المباعة بدون تكاليف، أدخل التكاليف عشان تظهر ربحيتها بدقة.")
	}

	if len(out) > insightN {
		out = out[:insightN]
	}
	return out
}

// buildActions selects up to three recommended actions, padding with the
// generic review prompts when the specific ones do not apply.
func buildActions(status string, lowMargin []dto.InsightProductDTO, missingCosts bool) []string {
	var out []string
	if status == StatusImproved {
		out = append(out, "زد إبراز المنتجات الأعلى ربحًا في المتجر والإعلانات.")
	}
	if status == StatusDeclined {
		out = append(out, "راجع أسعار المنتجات وحجم الخصومات خلال هذا الأسبوع.")
	}
	if len(lowMargin) > 0 {
		out = append(out, "راجع تكلفة الشحن ورسوم الدفع للمنتجات ذات الهامش المنخفض.")
	}
	if missingCosts {
		out = append(out, "أدخل تكاليف المنتجات المباعة في صفحة التكاليف لتحديث ربحيتها.")
	}
	if len(out) < insightN {
		out = append(out, "راجع تسعير أهم المنتجات وقارن الربحية مع متوسط الأسبوع.")
	}
	if len(out) < insightN {
		out = append(out, "حدد منتجين ضعيفي الهامش وجرب تعديل السعر أو تقليل التكلفة.")
	}
	if len(out) > insightN {
		out = out[:insightN]
	}
	return out
}

func joinNames(rows []dto.InsightProductDTO) string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return strings.Join(names, " و ")
}

func toInsightDTOs(rows []InsightRow) []dto.InsightProductDTO {
	if len(rows) > insightN {
		rows = rows[:insightN]
	}
	out := make([]dto.InsightProductDTO, 0, len(rows))
	for _, r := range rows {
		d := dto.InsightProductDTO{
			Name:      r.Name,
			ProfitSAR: float64(r.ProfitHalala) / 100,
			MarginPct: math.Round(r.MarginPct*100) / 100,
		}
		if r.SKU != "" {
			sku := r.SKU
			d.SKU = &sku
		}
		out = append(out, d)
	}
	return out
}
