package repository

import (
	"context"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

// UserRepository is the narrow slice of account persistence the analytics
// core needs: plan lookup for quota checks and the free-usage counter.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	IncrementFreeSnapshots(ctx context.Context, userID string) error
}
