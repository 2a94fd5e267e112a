package report

import (
	"context"
	"errors"

	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// SnapshotService owns snapshot creation: content-hash dedup, the free-plan
// quota, and the usage counter.
type SnapshotService struct {
	snapshots repository.SnapshotRepository
	users     repository.UserRepository
	freeLimit int
}

// NewSnapshotService builds the service. freeLimit caps lifetime snapshot
// creations on the free plan; dedup hits never consume quota.
func NewSnapshotService(snapshots repository.SnapshotRepository, users repository.UserRepository, freeLimit int) *SnapshotService {
	return &SnapshotService{snapshots: snapshots, users: users, freeLimit: freeLimit}
}

// DedupOrCreate persists the candidate snapshot unless one with the same
// source hash already exists for the user, in which case the existing row is
// returned with deduped=true and nothing is written. A unique-violation on
// insert means a concurrent request won the race; it resolves the same way.
//
// The quota check runs only on the create path: returning an existing
// snapshot is free. domain.ErrQuotaExceeded means the free limit is spent.
func (s *SnapshotService) DedupOrCreate(ctx context.Context, user *entity.User, candidate *entity.ReportSnapshot) (*entity.ReportSnapshot, bool, error) {
	existing, err := s.snapshots.GetByHash(ctx, user.ID, candidate.SourceHash)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, true, nil
	}

	if user.IsFree() && user.FreeSnapshotsUsed >= s.freeLimit {
		return nil, false, domain.ErrQuotaExceeded
	}

	if err := s.snapshots.Insert(ctx, candidate); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			winner, err := s.snapshots.GetByHash(ctx, user.ID, candidate.SourceHash)
			if err != nil {
				return nil, false, err
			}
			if winner != nil {
				return winner, true, nil
			}
		}
		return nil, false, err
	}

	if err := s.users.IncrementFreeSnapshots(ctx, user.ID); err != nil {
		return nil, false, err
	}
	return candidate, false, nil
}
