package report

import (
	"context"
	"sort"
	"strings"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/application/identity"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/money"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// topN is the ranking size for every product list a report carries.
const topN = 5

// Calculator derives per-product and aggregate profit from sold rows, the
// product catalog and the cost ledger.
type Calculator struct {
	resolver *identity.Resolver
	costs    repository.CostRepository
}

// NewCalculator builds the shared profit calculator.
func NewCalculator(resolver *identity.Resolver, costs repository.CostRepository) *Calculator {
	return &Calculator{resolver: resolver, costs: costs}
}

// profitRow is one sold group with resolved costs applied.
type profitRow struct {
	name              string
	sku               string
	qty               int64
	sellPriceHalala   int64
	totalProfitHalala int64
	marginPct         *float64 // nil when the denominator is zero
}

// ProfitTotals aggregates a profit pass. Missing-cost figures count sold
// groups that could not be priced: profit for them is unknown, never zero.
type ProfitTotals struct {
	TotalProfitHalala        int64
	MissingCostProductsCount int64
	MissingCostSalesHalala   int64
}

// ForReport runs the report-scoped profit pass over sold rows: resolve each
// group to a catalog row (rows from reportID win), apply its cost record,
// and rank. Groups with no resolvable product or no cost record go to the
// missing-cost bucket. The unit sell price is the revenue-derived average;
// the catalog price is the fallback when the group carries no revenue.
func (c *Calculator) ForReport(ctx context.Context, userID, reportID string, sold []entity.SoldRow) (dto.ProfitabilityDTO, ProfitTotals, error) {
	var rows []profitRow
	var totals ProfitTotals

	for _, r := range sold {
		if r.Qty <= 0 {
			continue
		}
		revenueHalala := money.DecimalToHalala(r.RevenueSAR)

		p, err := c.resolver.ResolveSold(ctx, userID, r.SKU, r.Name, reportID)
		if err != nil {
			return dto.ProfitabilityDTO{}, ProfitTotals{}, err
		}
		var cost *entity.ProductCost
		if p != nil {
			cost, err = c.costs.GetByProductID(ctx, p.ID)
			if err != nil {
				return dto.ProfitabilityDTO{}, ProfitTotals{}, err
			}
		}
		if p == nil || cost == nil || !cost.IsConfigured {
			totals.MissingCostProductsCount++
			totals.MissingCostSalesHalala += revenueHalala
			continue
		}

		sellPrice := p.PriceHalala
		if revenueHalala > 0 {
			sellPrice = money.RoundDiv(revenueHalala, r.Qty)
		}
		row := applyCosts(r, sellPrice, cost)
		rows = append(rows, row)
		totals.TotalProfitHalala += row.totalProfitHalala
	}

	return rankProfit(rows, totals), totals, nil
}

// ForWindow runs the window-scoped profit pass used by weekly snapshots.
// Groups resolve by identity key (sku: first, name: otherwise) and only
// revenue-bearing groups participate; there is no catalog price fallback.
func (c *Calculator) ForWindow(ctx context.Context, userID string, sold []entity.SoldRow) (ProfitTotals, error) {
	var totals ProfitTotals
	for _, r := range sold {
		if r.Qty <= 0 {
			continue
		}
		revenueHalala := money.DecimalToHalala(r.RevenueSAR)
		if revenueHalala <= 0 {
			continue
		}

		cost, err := c.costForSold(ctx, userID, r)
		if err != nil {
			return ProfitTotals{}, err
		}
		if cost == nil || !cost.IsConfigured {
			totals.MissingCostProductsCount++
			totals.MissingCostSalesHalala += revenueHalala
			continue
		}

		row := applyCosts(r, money.RoundDiv(revenueHalala, r.Qty), cost)
		totals.TotalProfitHalala += row.totalProfitHalala
	}
	return totals, nil
}

// InsightRow is a per-product window figure for the insights endpoint.
// Products without configured costs stay in the list with zero profit so the
// rankings still name them; MissingCosts flags that at least one such product
// was seen.
type InsightRow struct {
	Name          string
	SKU           string
	RevenueHalala int64
	ProfitHalala  int64
	MarginPct     float64
}

// ForInsights computes the per-product window rows behind the insights
// rankings.
func (c *Calculator) ForInsights(ctx context.Context, userID string, sold []entity.SoldRow) ([]InsightRow, bool, error) {
	var out []InsightRow
	missingCosts := false

	for _, r := range sold {
		revenueHalala := money.DecimalToHalala(r.RevenueSAR)
		if r.Qty <= 0 || revenueHalala <= 0 {
			continue
		}

		cost, err := c.costForSold(ctx, userID, r)
		if err != nil {
			return nil, false, err
		}
		configured := cost != nil && cost.IsConfigured

		var profit int64
		if configured {
			row := applyCosts(r, money.RoundDiv(revenueHalala, r.Qty), cost)
			profit = row.totalProfitHalala
		} else {
			missingCosts = true
		}

		sku := strings.TrimSpace(r.SKU)
		name := identity.NormalizeName(r.Name)
		if name == "" {
			name = sku
		}
		if name == "" {
			name = "غير مسمى"
		}
		out = append(out, InsightRow{
			Name:          name,
			SKU:           sku,
			RevenueHalala: revenueHalala,
			ProfitHalala:  profit,
			MarginPct:     float64(profit) / float64(revenueHalala) * 100,
		})
	}
	return out, missingCosts, nil
}

// costForSold looks up the cost record behind a sold group's identity key.
func (c *Calculator) costForSold(ctx context.Context, userID string, r entity.SoldRow) (*entity.ProductCost, error) {
	p, err := c.resolver.ResolveKey(ctx, userID, identity.KeyForSold(r.SKU, r.Name))
	if err != nil || p == nil {
		return nil, err
	}
	return c.costs.GetByProductID(ctx, p.ID)
}

// applyCosts prices one sold group against a cost record.
func applyCosts(r entity.SoldRow, sellPriceHalala int64, cost *entity.ProductCost) profitRow {
	fee := money.ApplyFeeBps(sellPriceHalala, cost.PaymentFeeBps)
	profitPerUnit := sellPriceHalala - cost.FixedPerUnit() - fee
	totalProfit := profitPerUnit * r.Qty

	var marginPct *float64
	if denom := sellPriceHalala * r.Qty; denom > 0 {
		m := float64(money.RoundDiv(totalProfit*10000, denom)) / 100
		marginPct = &m
	}

	name := identity.NormalizeName(r.Name)
	sku := strings.TrimSpace(r.SKU)
	if name == "" {
		name = sku
	}
	if name == "" {
		name = "منتج"
	}
	return profitRow{
		name:              name,
		sku:               sku,
		qty:               r.Qty,
		sellPriceHalala:   sellPriceHalala,
		totalProfitHalala: totalProfit,
		marginPct:         marginPct,
	}
}

// rankProfit builds the profitability block: top earners by absolute profit,
// weakest margins among rows whose margin is defined.
func rankProfit(rows []profitRow, totals ProfitTotals) dto.ProfitabilityDTO {
	byProfit := make([]profitRow, len(rows))
	copy(byProfit, rows)
	sort.SliceStable(byProfit, func(i, j int) bool {
		return byProfit[i].totalProfitHalala > byProfit[j].totalProfitHalala
	})

	var withMargin []profitRow
	for _, r := range rows {
		if r.marginPct != nil {
			withMargin = append(withMargin, r)
		}
	}
	sort.SliceStable(withMargin, func(i, j int) bool {
		return *withMargin[i].marginPct < *withMargin[j].marginPct
	})

	return dto.ProfitabilityDTO{
		TotalProfit:              float64(totals.TotalProfitHalala) / 100,
		MissingCostProductsCount: totals.MissingCostProductsCount,
		MissingCostSales:         float64(totals.MissingCostSalesHalala) / 100,
		TopProfitProducts:        toProfitDTOs(byProfit),
		LowMarginProducts:        toProfitDTOs(withMargin),
	}
}

func toProfitDTOs(rows []profitRow) []dto.ProfitProductDTO {
	if len(rows) > topN {
		rows = rows[:topN]
	}
	out := make([]dto.ProfitProductDTO, 0, len(rows))
	for _, r := range rows {
		d := dto.ProfitProductDTO{
			Name:        r.name,
			Qty:         r.qty,
			TotalProfit: float64(r.totalProfitHalala) / 100,
			MarginPct:   r.marginPct,
		}
		if r.sku != "" {
			sku := r.sku
			d.SKU = &sku
		}
		out = append(out, d)
	}
	return out
}
