// Package stats serves the store overview block on the dashboard.
package stats

import (
	"context"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/money"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// UseCase aggregates catalog and order counters for one user.
type UseCase struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
}

// NewUseCase builds the stats aggregator.
func NewUseCase(products repository.ProductRepository, orders repository.OrderRepository) *UseCase {
	return &UseCase{products: products, orders: orders}
}

// Overview returns store-wide totals with excluded orders broken out.
// The same status denylist applies here as in every report computation, so
// the dashboard and the reports never disagree on what counts as a sale.
func (uc *UseCase) Overview(ctx context.Context, userID string) (*dto.StatsDTO, error) {
	productsCount, err := uc.products.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	counted, excluded, err := uc.orders.TotalsByUser(ctx, userID, domain.ExcludedOrderStatuses)
	if err != nil {
		return nil, err
	}

	out := &dto.StatsDTO{
		Products:            productsCount,
		Orders:              counted.Count,
		Sales:               float64(counted.SalesHalala) / 100,
		ExcludedOrdersCount: excluded.Count,
		ExcludedSales:       float64(excluded.SalesHalala) / 100,
	}
	if counted.Count > 0 {
		out.AvgOrderValue = float64(money.RoundDiv(counted.SalesHalala, counted.Count)) / 100
	}
	return out, nil
}
