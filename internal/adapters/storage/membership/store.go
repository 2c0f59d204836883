package membership

import (
	"context"
	"errors"

	domain "tigeriron/internal/domain/membership"
)

// ErrNotFound is returned when a profile has no membership rows.
var ErrNotFound = errors.New("membership not found")

// Store persists Membership state. Rows are created here (signup) or by the
// external billing webhook; this application never mutates them afterwards.
type Store interface {
	Insert(ctx context.Context, value domain.Membership) error
	LatestByUserID(ctx context.Context, userID string) (domain.Membership, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]domain.Membership, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}
