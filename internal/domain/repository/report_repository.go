package repository

import (
	"context"
	"encoding/json"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

// ReportRepository is the persistence port for ingestion-batch reports.
type ReportRepository interface {
	Create(ctx context.Context, r *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	Latest(ctx context.Context, userID string) (*entity.Report, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Report, error)
	UpdateJSON(ctx context.Context, id string, payload json.RawMessage) error
}
