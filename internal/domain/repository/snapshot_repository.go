package repository

import (
	"context"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

// SnapshotRepository is the persistence port for immutable weekly snapshots.
type SnapshotRepository interface {
	// Insert persists a new snapshot. The table carries
	// UNIQUE(user_id, source_hash); on a unique violation implementations
	// return domain.ErrDuplicate so callers can re-fetch and proceed in
	// deduped mode; the race is benign, not a failure.
	Insert(ctx context.Context, s *entity.ReportSnapshot) error

	GetByHash(ctx context.Context, userID, sourceHash string) (*entity.ReportSnapshot, error)
	GetByID(ctx context.Context, userID, id string) (*entity.ReportSnapshot, error)
	List(ctx context.Context, userID string, limit int) ([]*entity.ReportSnapshot, error)

	// PreviousBefore returns the most recent snapshot whose time_range_end is
	// strictly before beforeMillis, or (nil, nil) when the history is empty.
	PreviousBefore(ctx context.Context, userID string, beforeMillis int64) (*entity.ReportSnapshot, error)
}
