package inquiry

import (
	"context"
	"time"

	"tigeriron/internal/adapters/backend"
	domain "tigeriron/internal/domain/inquiry"
)

const table = "inquiries"

// row mirrors the inquiries table column set.
type row struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone,omitempty"`
	Message      string     `json:"message"`
	InterestedIn *string    `json:"interested_in,omitempty"`
	Source       *string    `json:"source,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

func (r row) toDomain() domain.Inquiry {
	i := domain.Inquiry{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Message: r.Message,
	}
	if r.Phone != nil {
		i.Phone = *r.Phone
	}
	if r.InterestedIn != nil {
		i.InterestedIn = *r.InterestedIn
	}
	if r.Source != nil {
		i.Source = *r.Source
	}
	if r.CreatedAt != nil {
		i.CreatedAt = *r.CreatedAt
	}
	return i
}

// RESTStore implements Store against the hosted backend's row API.
type RESTStore struct {
	client *backend.Client
}

// NewRESTStore creates a new inquiry store.
func NewRESTStore(client *backend.Client) *RESTStore {
	return &RESTStore{client: client}
}

// Insert creates an Inquiry row.
// PRE: entity has been validated
// POST: Row is created; empty optional fields are stored as NULL
func (s *RESTStore) Insert(ctx context.Context, entity domain.Inquiry) error {
	body := row{
		Name:    entity.Name,
		Email:   entity.Email,
		Message: entity.Message,
	}
	if entity.Phone != "" {
		body.Phone = &entity.Phone
	}
	if entity.InterestedIn != "" {
		body.InterestedIn = &entity.InterestedIn
	}
	if entity.Source != "" {
		body.Source = &entity.Source
	}
	return s.client.Insert(ctx, table, body, nil)
}

// ListRecent retrieves inquiries newest first.
// PRE: limit > 0
// POST: Returns up to limit inquiries ordered by creation time descending
func (s *RESTStore) ListRecent(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	return s.list(ctx, limit)
}

// ListAll retrieves every inquiry newest first, for export.
// POST: Returns all inquiries ordered by creation time descending
func (s *RESTStore) ListAll(ctx context.Context) ([]domain.Inquiry, error) {
	return s.list(ctx, 0)
}

func (s *RESTStore) list(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	var rows []row
	q := backend.Query{Order: "created_at", Desc: true, Limit: limit}
	if err := s.client.Select(ctx, table, q, &rows); err != nil {
		return nil, err
	}
	results := make([]domain.Inquiry, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.toDomain())
	}
	return results, nil
}

// Count returns the total number of inquiries.
// POST: Returns count >= 0
func (s *RESTStore) Count(ctx context.Context) (int, error) {
	return s.client.Count(ctx, table)
}
