package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implements ReportRepository over PostgreSQL (usable with pool or tx).
type ReportRepo struct {
	q Querier
}

// NewReportRepository builds the report persistence adapter.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Create persists a new report row.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	query := `
		INSERT INTO reports (id, user_id, store_id, report_json, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)`
	_, err := r.q.Exec(ctx, query, rep.ID, rep.UserID, rep.StoreID, rep.ReportJSON, rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetByID fetches one report, or (nil, nil).
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	query := `
		SELECT id, user_id, COALESCE(store_id, ''), report_json, created_at
		FROM reports WHERE id = $1`
	return scanReport(r.q.QueryRow(ctx, query, id))
}

// Latest fetches the user's most recent report, or (nil, nil).
func (r *ReportRepo) Latest(ctx context.Context, userID string) (*entity.Report, error) {
	query := `
		SELECT id, user_id, COALESCE(store_id, ''), report_json, created_at
		FROM reports WHERE user_id = $1
		ORDER BY created_at DESC LIMIT 1`
	return scanReport(r.q.QueryRow(ctx, query, userID))
}

// ListByUser returns all of the user's reports, newest first.
func (r *ReportRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Report, error) {
	query := `
		SELECT id, user_id, COALESCE(store_id, ''), report_json, created_at
		FROM reports WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*entity.Report
	for rows.Next() {
		var rep entity.Report
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.StoreID, &rep.ReportJSON, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, &rep)
	}
	return out, rows.Err()
}

// UpdateJSON replaces a report's payload.
func (r *ReportRepo) UpdateJSON(ctx context.Context, id string, payload json.RawMessage) error {
	_, err := r.q.Exec(ctx, `UPDATE reports SET report_json = $2 WHERE id = $1`, id, payload)
	if err != nil {
		return fmt.Errorf("update report json: %w", err)
	}
	return nil
}

func scanReport(row pgx.Row) (*entity.Report, error) {
	var rep entity.Report
	err := row.Scan(&rep.ID, &rep.UserID, &rep.StoreID, &rep.ReportJSON, &rep.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &rep, nil
}
