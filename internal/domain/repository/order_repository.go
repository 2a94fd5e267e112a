package repository

import (
	"context"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

// OrderTotals is an aggregate over orders (not line items): row count and
// summed order totals in halala.
type OrderTotals struct {
	Count       int64
	SalesHalala int64
}

// OrderRepository is the persistence port for orders and their line items.
//
// Every aggregating method takes the excluded-status denylist as a parameter
// so the single shared constant (domain.ExcludedOrderStatuses) is applied
// identically at all call sites.
type OrderRepository interface {
	Insert(ctx context.Context, o *entity.Order) error
	InsertItem(ctx context.Context, it *entity.OrderItem) error

	// TotalsByReport returns counted and excluded order totals for one
	// ingestion batch.
	TotalsByReport(ctx context.Context, userID, reportID string, excludedStatuses []string) (counted, excluded OrderTotals, err error)

	// TotalsByUser is TotalsByReport across all of the user's orders.
	TotalsByUser(ctx context.Context, userID string, excludedStatuses []string) (counted, excluded OrderTotals, err error)

	// SoldRowsByReport groups line items of non-excluded orders in a report
	// by (sku, name), summing qty and allocated revenue.
	SoldRowsByReport(ctx context.Context, userID, reportID string, excludedStatuses []string) ([]entity.SoldRow, error)

	// SoldRowsByWindow is the same grouping over a closed order-placement
	// time window (epoch ms, inclusive bounds).
	SoldRowsByWindow(ctx context.Context, userID string, startMillis, endMillis int64, excludedStatuses []string) ([]entity.SoldRow, error)

	// CountOrdersByWindow counts distinct non-excluded orders with at least
	// one line item inside the window.
	CountOrdersByWindow(ctx context.Context, userID string, startMillis, endMillis int64, excludedStatuses []string) (int64, error)
}
