package appdownload

import (
	"context"

	domain "tigeriron/internal/domain/appdownload"
)

// Store persists app-download events. Events are write-mostly; only the
// aggregate count is ever read back.
type Store interface {
	Insert(ctx context.Context, value domain.Event) error
	Count(ctx context.Context) (int, error)
}
