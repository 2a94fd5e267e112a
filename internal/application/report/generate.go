package report

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/application/ports"
	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/money"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
	"github.com/qaydhub/qayd-api/internal/domain/timewindow"

	"github.com/google/uuid"
)

// narrativeTimeout bounds the external LLM call; the pipeline falls back to
// static text rather than wait longer.
const narrativeTimeout = 10 * time.Second

// Generator runs the full analysis pipeline for one ingestion batch: sales
// metrics, revenue rankings, profitability, the AI narrative, and the weekly
// snapshot with content-hash dedup.
type Generator struct {
	reports   repository.ReportRepository
	orders    repository.OrderRepository
	users     repository.UserRepository
	calc      *Calculator
	snaps     *SnapshotService
	narrative ports.NarrativeService // nil when no AI key is configured
	now       func() int64
}

// NewGenerator wires the pipeline. narrative may be nil; generation then
// carries the static disabled-narrative text.
func NewGenerator(
	reports repository.ReportRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	calc *Calculator,
	snaps *SnapshotService,
	narrative ports.NarrativeService,
) *Generator {
	return &Generator{
		reports:   reports,
		orders:    orders,
		users:     users,
		calc:      calc,
		snaps:     snaps,
		narrative: narrative,
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

// Generate computes the full report payload for reportID (empty means the
// user's latest batch), persists it, and snapshots the result. Rerunning
// over unchanged data matches the existing snapshot by hash and consumes no
// quota. Returns domain.ErrNoReportContext when the user has no batch at
// all and domain.ErrQuotaExceeded when a free user is out of snapshots.
func (g *Generator) Generate(ctx context.Context, userID, reportID string) (*dto.ReportDTO, error) {
	target, err := g.targetReport(ctx, userID, reportID)
	if err != nil {
		return nil, err
	}
	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	excluded := domain.ExcludedOrderStatuses
	counted, skipped, err := g.orders.TotalsByReport(ctx, userID, target.ID, excluded)
	if err != nil {
		return nil, err
	}
	metrics := dto.MetricsDTO{
		TotalSales:          float64(counted.SalesHalala) / 100,
		TotalOrders:         counted.Count,
		ExcludedOrdersCount: skipped.Count,
		ExcludedSales:       float64(skipped.SalesHalala) / 100,
	}
	if counted.Count > 0 {
		metrics.AvgOrderValue = metrics.TotalSales / float64(counted.Count)
	}

	sold, err := g.orders.SoldRowsByReport(ctx, userID, target.ID, excluded)
	if err != nil {
		return nil, err
	}
	top, weak := rankRevenue(sold)

	raw := g.fetchNarrative(ctx, dto.NarrativeInput{
		Platform:     "csv",
		StoreName:    "N/A",
		Metrics:      metrics,
		TopProducts:  top,
		WeakProducts: weak,
	})

	profitability, totals, err := g.calc.ForReport(ctx, userID, target.ID, sold)
	if err != nil {
		return nil, err
	}
	grossHalala := counted.SalesHalala
	var marginX100 int64
	if grossHalala > 0 {
		marginX100 = money.RoundDiv(totals.TotalProfitHalala*10000, grossHalala)
	}
	profitability.MarginPct = float64(marginX100) / 100

	payload := dto.ReportPayloadDTO{
		Metrics:             metrics,
		TopProducts:         top,
		WeakProducts:        weak,
		Summary:             raw.Summary,
		ConversionInsight:   raw.ConversionInsight,
		PricingSuggestions:  raw.PricingSuggestions,
		GrowthOpportunities: raw.GrowthOpportunities,
		AINarrative:         normalizeNarrative(raw),
		Profitability:       profitability,
	}
	snapshotJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	nowMs := g.now()
	window := timewindow.CurrentWeek(nowMs)
	candidate := &entity.ReportSnapshot{
		ID:                       uuid.New().String(),
		UserID:                   userID,
		CreatedAt:                nowMs,
		SourceHash:               SourceHash(excluded, window, sold),
		TimeRangeStart:           window.Start,
		TimeRangeEnd:             window.End,
		ReportID:                 target.ID,
		GrossSalesHalala:         grossHalala,
		OrdersCount:              counted.Count,
		TotalProfitHalala:        totals.TotalProfitHalala,
		MarginPctX100:            marginX100,
		MissingCostProductsCount: totals.MissingCostProductsCount,
		MissingCostSalesHalala:   totals.MissingCostSalesHalala,
		ReportJSON:               snapshotJSON,
	}
	snap, deduped, err := g.snaps.DedupOrCreate(ctx, user, candidate)
	if err != nil {
		return nil, err
	}

	payload.Snapshot = &dto.SnapshotMarkerDTO{
		ID:             snap.ID,
		Deduped:        deduped,
		SourceHash:     snap.SourceHash,
		TimeRangeStart: snap.TimeRangeStart,
		TimeRangeEnd:   snap.TimeRangeEnd,
	}
	finalJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := g.reports.UpdateJSON(ctx, target.ID, finalJSON); err != nil {
		return nil, err
	}

	return &dto.ReportDTO{
		ID:        target.ID,
		UserID:    target.UserID,
		StoreID:   target.StoreID,
		Report:    payload,
		CreatedAt: target.CreatedAt,
	}, nil
}

// targetReport resolves the explicit report id or falls back to the latest
// batch. No batch at all means there is nothing to analyze.
func (g *Generator) targetReport(ctx context.Context, userID, reportID string) (*entity.Report, error) {
	if reportID != "" {
		r, err := g.reports.GetByID(ctx, reportID)
		if err != nil {
			return nil, err
		}
		if r == nil || r.UserID != userID {
			return nil, domain.ErrNotFound
		}
		return r, nil
	}
	r, err := g.reports.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNoReportContext
	}
	return r, nil
}

// fetchNarrative calls the narrative collaborator with a hard timeout and
// maps every failure mode to static Arabic text. Generation never fails over
// the narrative.
func (g *Generator) fetchNarrative(ctx context.Context, input dto.NarrativeInput) dto.NarrativeDTO {
	if g.narrative == nil {
		return dto.NarrativeDTO{
			Summary:            "تم تعطيل السرد الذكي (لا يوجد مفتاح OpenAI).",
			ConversionInsight:  "غير متاح بدون مفتاح OpenAI.",
			PricingSuggestions: "أضف مفتاح OpenAI للحصول على توصيات.",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	defer cancel()

	out, err := g.narrative.GenerateNarrative(ctx, input)
	if err != nil || out == nil {
		return dto.NarrativeDTO{Summary: "تعذر توليد السرد الذكي حالياً."}
	}
	return *out
}

// normalizeNarrative lifts the raw model output into the stable block the
// frontend renders, filling every gap with curated fallback text.
func normalizeNarrative(raw dto.NarrativeDTO) dto.AINarrativeDTO {
	out := dto.AINarrativeDTO{
		ExecutiveSummary:    raw.Summary,
		PricingSuggestions:  toArray(raw.PricingSuggestions),
		GrowthOpportunities: raw.GrowthOpportunities,
		ConversionInsights:  toArray(raw.ConversionInsight),
	}
	if out.ExecutiveSummary == "" {
		out.ExecutiveSummary = "تم إنشاء تحليل مبني على بياناتك."
	}
	if len(out.PricingSuggestions) == 0 {
		out.PricingSuggestions = []string{
			"راجع تسعير المنتجات الضعيفة بتجربة عروض رزم أو خصومات محدودة المدة.",
		}
	}
	if len(out.GrowthOpportunities) == 0 {
		out.GrowthOpportunities = []string{
			"ركز حملات الإعلانات على أفضل المنتجات أداءً لزيادة العائد.",
			"حسّن صور ووصف المنتجات ذات الأداء الضعيف لتحسين نسبة الإضافة للسلة.",
		}
	}
	if len(out.ConversionInsights) == 0 {
		out.ConversionInsights = []string{
			"نسبة التحويل تحتاج بيانات زيارات (GA4) لمقارنتها. طبّق تحسينات تجربة المستخدم: تبسيط خطوات الدفع، وإبراز حدود الشحن وسياسة الاسترجاع.",
		}
	}
	return out
}

func toArray(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// rankRevenue builds the top and weak revenue rankings from sold rows. Weak
// considers only groups that actually moved units, so zero-qty adjustment
// rows never headline the weak list.
func rankRevenue(sold []entity.SoldRow) (top, weak []dto.RevenueProductDTO) {
	rows := make([]entity.SoldRow, len(sold))
	copy(rows, sold)

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RevenueSAR.GreaterThan(rows[j].RevenueSAR)
	})
	top = toRevenueDTOs(rows, topN)

	var positive []entity.SoldRow
	for _, r := range rows {
		if r.Qty > 0 {
			positive = append(positive, r)
		}
	}
	sort.SliceStable(positive, func(i, j int) bool {
		if !positive[i].RevenueSAR.Equal(positive[j].RevenueSAR) {
			return positive[i].RevenueSAR.LessThan(positive[j].RevenueSAR)
		}
		return positive[i].Qty < positive[j].Qty
	})
	weak = toRevenueDTOs(positive, topN)
	return top, weak
}

func toRevenueDTOs(rows []entity.SoldRow, n int) []dto.RevenueProductDTO {
	if len(rows) > n {
		rows = rows[:n]
	}
	out := make([]dto.RevenueProductDTO, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = r.SKU
		}
		if name == "" {
			name = "غير مسمى"
		}
		d := dto.RevenueProductDTO{
			Name:    name,
			Revenue: r.RevenueSAR.Round(2).InexactFloat64(),
			Qty:     r.Qty,
		}
		if r.SKU != "" {
			sku := r.SKU
			d.SKU = &sku
		}
		out = append(out, d)
	}
	return out
}
