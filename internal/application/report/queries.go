package report

import (
	"context"
	"encoding/json"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// Queries serves the read side of stored reports.
type Queries struct {
	reports repository.ReportRepository
}

// NewQueries builds the report read service.
func NewQueries(reports repository.ReportRepository) *Queries {
	return &Queries{reports: reports}
}

// List returns the user's reports, newest first.
func (q *Queries) List(ctx context.Context, userID string) ([]dto.ReportDTO, error) {
	rows, err := q.reports.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, toReportDTO(r))
	}
	return out, nil
}

// Get returns one report owned by the user, or domain.ErrNotFound.
func (q *Queries) Get(ctx context.Context, userID, id string) (*dto.ReportDTO, error) {
	r, err := q.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || r.UserID != userID {
		return nil, domain.ErrNotFound
	}
	d := toReportDTO(r)
	return &d, nil
}

func toReportDTO(r *entity.Report) dto.ReportDTO {
	var payload dto.ReportPayloadDTO
	if len(r.ReportJSON) > 0 {
		// A pending report carries a placeholder payload; decode failures
		// just leave the zero payload rather than failing the listing.
		_ = json.Unmarshal(r.ReportJSON, &payload)
	}
	return dto.ReportDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		StoreID:   r.StoreID,
		Report:    payload,
		CreatedAt: r.CreatedAt,
	}
}
