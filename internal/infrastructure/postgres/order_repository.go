package postgres

import (
	"context"
	"fmt"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implements OrderRepository over PostgreSQL (usable with pool or tx).
// Aggregations receive the excluded-status denylist as an array parameter so
// the filter is identical at every call site.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository builds the order persistence adapter.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Insert persists one order row.
func (r *OrderRepo) Insert(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, user_id, platform, external_id, report_id, total_halala, status, items_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.UserID, o.Platform, o.ExternalID, o.ReportID,
		o.TotalHalala, o.Status, o.ItemsCount, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// InsertItem persists one order line item.
func (r *OrderRepo) InsertItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, report_id, order_id, sku, product_name, qty, allocated_revenue, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.ReportID, it.OrderID, it.SKU, it.ProductName,
		it.Qty, it.AllocatedRevenue, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// TotalsByReport returns counted and excluded order totals for one batch.
func (r *OrderRepo) TotalsByReport(ctx context.Context, userID, reportID string, excludedStatuses []string) (counted, excluded repository.OrderTotals, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE COALESCE(status,'') <> ALL($3)),
			COALESCE(SUM(total_halala) FILTER (WHERE COALESCE(status,'') <> ALL($3)), 0),
			COUNT(*) FILTER (WHERE COALESCE(status,'') = ANY($3)),
			COALESCE(SUM(total_halala) FILTER (WHERE COALESCE(status,'') = ANY($3)), 0)
		FROM orders WHERE user_id = $1 AND report_id = $2`
	err = r.q.QueryRow(ctx, query, userID, reportID, excludedStatuses).Scan(
		&counted.Count, &counted.SalesHalala, &excluded.Count, &excluded.SalesHalala,
	)
	if err != nil {
		return counted, excluded, fmt.Errorf("order totals by report: %w", err)
	}
	return counted, excluded, nil
}

// TotalsByUser returns counted and excluded order totals across the store.
func (r *OrderRepo) TotalsByUser(ctx context.Context, userID string, excludedStatuses []string) (counted, excluded repository.OrderTotals, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE COALESCE(status,'') <> ALL($2)),
			COALESCE(SUM(total_halala) FILTER (WHERE COALESCE(status,'') <> ALL($2)), 0),
			COUNT(*) FILTER (WHERE COALESCE(status,'') = ANY($2)),
			COALESCE(SUM(total_halala) FILTER (WHERE COALESCE(status,'') = ANY($2)), 0)
		FROM orders WHERE user_id = $1`
	err = r.q.QueryRow(ctx, query, userID, excludedStatuses).Scan(
		&counted.Count, &counted.SalesHalala, &excluded.Count, &excluded.SalesHalala,
	)
	if err != nil {
		return counted, excluded, fmt.Errorf("order totals by user: %w", err)
	}
	return counted, excluded, nil
}

const soldRowSelect = `
	SELECT COALESCE(oi.sku,'') AS sku,
	       COALESCE(oi.product_name,'') AS name,
	       COALESCE(SUM(oi.qty),0) AS qty,
	       COALESCE(SUM(oi.allocated_revenue),0) AS revenue_sar
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id`

// SoldRowsByReport groups a batch's line items by (sku, name) over
// non-excluded orders.
func (r *OrderRepo) SoldRowsByReport(ctx context.Context, userID, reportID string, excludedStatuses []string) ([]entity.SoldRow, error) {
	query := soldRowSelect + `
	WHERE o.user_id = $1 AND oi.report_id = $2
	  AND COALESCE(o.status,'') <> ALL($3)
	GROUP BY COALESCE(oi.sku,''), COALESCE(oi.product_name,'')`
	return r.querySoldRows(ctx, query, userID, reportID, excludedStatuses)
}

// SoldRowsByWindow is the same grouping over a closed placement-time window.
func (r *OrderRepo) SoldRowsByWindow(ctx context.Context, userID string, startMillis, endMillis int64, excludedStatuses []string) ([]entity.SoldRow, error) {
	query := soldRowSelect + `
	WHERE o.user_id = $1
	  AND COALESCE(o.status,'') <> ALL($2)
	  AND o.created_at BETWEEN $3 AND $4
	GROUP BY COALESCE(oi.sku,''), COALESCE(oi.product_name,'')`
	return r.querySoldRows(ctx, query, userID, excludedStatuses, startMillis, endMillis)
}

// CountOrdersByWindow counts distinct non-excluded orders with at least one
// line item in the window.
func (r *OrderRepo) CountOrdersByWindow(ctx context.Context, userID string, startMillis, endMillis int64, excludedStatuses []string) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT o.id)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.user_id = $1
		  AND COALESCE(o.status,'') <> ALL($2)
		  AND o.created_at BETWEEN $3 AND $4`
	var n int64
	err := r.q.QueryRow(ctx, query, userID, excludedStatuses, startMillis, endMillis).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders by window: %w", err)
	}
	return n, nil
}

func (r *OrderRepo) querySoldRows(ctx context.Context, query string, args ...any) ([]entity.SoldRow, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sold rows: %w", err)
	}
	defer rows.Close()

	var out []entity.SoldRow
	for rows.Next() {
		var sr entity.SoldRow
		if err := rows.Scan(&sr.SKU, &sr.Name, &sr.Qty, &sr.RevenueSAR); err != nil {
			return nil, fmt.Errorf("scan sold row: %w", err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
