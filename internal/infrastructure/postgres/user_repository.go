package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements UserRepository over PostgreSQL (usable with pool or tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository builds the user persistence adapter.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// GetByID fetches a user, or (nil, nil) when the id is unknown.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT id, email, plan, plan_expires_at, free_snapshots_used, created_at
		FROM users WHERE id = $1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Plan, &u.PlanExpiresAt, &u.FreeSnapshotsUsed, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// IncrementFreeSnapshots bumps the lifetime free-snapshot counter by one.
func (r *UserRepo) IncrementFreeSnapshots(ctx context.Context, userID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET free_snapshots_used = free_snapshots_used + 1 WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("increment free snapshots: %w", err)
	}
	return nil
}
