package plan

import (
	"context"
	"errors"

	domain "tigeriron/internal/domain/plan"
)

// ErrNotFound is returned when no plan row exists for the given key.
var ErrNotFound = errors.New("plan not found")

// Store reads Plan state. Plans are maintained outside this application, so
// there are no mutating operations.
type Store interface {
	ListActive(ctx context.Context) ([]domain.Plan, error)
	GetBySlug(ctx context.Context, slug string) (domain.Plan, error)
	GetByID(ctx context.Context, id string) (domain.Plan, error)
}
