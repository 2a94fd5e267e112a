package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

const snapshotColumns = `id, user_id, created_at, source_hash, time_range_start, time_range_end,
	report_id, gross_sales_halala, orders_count, total_profit_halala, margin_pct_x100,
	missing_cost_products_count, missing_cost_sales_halala, report_json`

// SnapshotRepo implements SnapshotRepository over PostgreSQL (usable with
// pool or tx). UNIQUE(user_id, source_hash) on the table is the only
// concurrency guard snapshot creation has.
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository builds the snapshot persistence adapter.
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

// Insert persists a snapshot; a unique violation on (user_id, source_hash)
// surfaces as domain.ErrDuplicate for the dedup path.
func (r *SnapshotRepo) Insert(ctx context.Context, s *entity.ReportSnapshot) error {
	query := `
		INSERT INTO report_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.CreatedAt, s.SourceHash, s.TimeRangeStart, s.TimeRangeEnd,
		s.ReportID, s.GrossSalesHalala, s.OrdersCount, s.TotalProfitHalala, s.MarginPctX100,
		s.MissingCostProductsCount, s.MissingCostSalesHalala, s.ReportJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetByHash fetches the snapshot with the given content hash, or (nil, nil).
func (r *SnapshotRepo) GetByHash(ctx context.Context, userID, sourceHash string) (*entity.ReportSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM report_snapshots WHERE user_id = $1 AND source_hash = $2`
	return scanSnapshotRow(r.q.QueryRow(ctx, query, userID, sourceHash))
}

// GetByID fetches one snapshot owned by the user, or (nil, nil).
func (r *SnapshotRepo) GetByID(ctx context.Context, userID, id string) (*entity.ReportSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM report_snapshots WHERE user_id = $1 AND id = $2`
	return scanSnapshotRow(r.q.QueryRow(ctx, query, userID, id))
}

// List returns the newest snapshots up to limit.
func (r *SnapshotRepo) List(ctx context.Context, userID string, limit int) ([]*entity.ReportSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM report_snapshots WHERE user_id = $1
		ORDER BY time_range_start DESC, created_at DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*entity.ReportSnapshot
	for rows.Next() {
		var s entity.ReportSnapshot
		if err := scanSnapshot(rows, &s); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// PreviousBefore fetches the most recent snapshot ending strictly before
// beforeMillis, or (nil, nil) when the history is empty.
func (r *SnapshotRepo) PreviousBefore(ctx context.Context, userID string, beforeMillis int64) (*entity.ReportSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM report_snapshots
		WHERE user_id = $1 AND time_range_end < $2
		ORDER BY time_range_end DESC LIMIT 1`
	return scanSnapshotRow(r.q.QueryRow(ctx, query, userID, beforeMillis))
}

func scanSnapshotRow(row pgx.Row) (*entity.ReportSnapshot, error) {
	var s entity.ReportSnapshot
	if err := scanSnapshot(row, &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &s, nil
}

func scanSnapshot(row pgx.Row, s *entity.ReportSnapshot) error {
	return row.Scan(
		&s.ID, &s.UserID, &s.CreatedAt, &s.SourceHash, &s.TimeRangeStart, &s.TimeRangeEnd,
		&s.ReportID, &s.GrossSalesHalala, &s.OrdersCount, &s.TotalProfitHalala, &s.MarginPctX100,
		&s.MissingCostProductsCount, &s.MissingCostSalesHalala, &s.ReportJSON,
	)
}
