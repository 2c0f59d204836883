package inquiry

import (
	"context"

	domain "tigeriron/internal/domain/inquiry"
)

// Store persists Inquiry state. Inquiries are immutable once created.
type Store interface {
	Insert(ctx context.Context, value domain.Inquiry) error
	ListRecent(ctx context.Context, limit int) ([]domain.Inquiry, error)
	ListAll(ctx context.Context) ([]domain.Inquiry, error)
	Count(ctx context.Context) (int, error)
}
