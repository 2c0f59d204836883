package profile

import (
	"context"
	"errors"

	domain "tigeriron/internal/domain/profile"
)

// ErrNotFound is returned when no profile row exists for the given key.
var ErrNotFound = errors.New("profile not found")

// Store persists Profile state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	Insert(ctx context.Context, value domain.Profile) error
	ListRecentMembers(ctx context.Context, limit int) ([]domain.Profile, error)
	CountMembers(ctx context.Context) (int, error)
}
