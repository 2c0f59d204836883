package appdownload

import (
	"context"

	"tigeriron/internal/adapters/backend"
	domain "tigeriron/internal/domain/appdownload"
)

const table = "app_downloads"

// row mirrors the app_downloads table column set.
type row struct {
	Platform  string  `json:"platform"`
	UserAgent string  `json:"user_agent"`
	Referrer  *string `json:"referrer,omitempty"`
}

// RESTStore implements Store against the hosted backend's row API.
type RESTStore struct {
	client *backend.Client
}

// NewRESTStore creates a new app-download event store.
func NewRESTStore(client *backend.Client) *RESTStore {
	return &RESTStore{client: client}
}

// Insert creates an event row.
// PRE: entity has been validated
// POST: Row is created; callers treat failures as best-effort
func (s *RESTStore) Insert(ctx context.Context, entity domain.Event) error {
	body := row{
		Platform:  entity.Platform,
		UserAgent: entity.UserAgent,
	}
	if entity.Referrer != "" {
		body.Referrer = &entity.Referrer
	}
	return s.client.Insert(ctx, table, body, nil)
}

// Count returns the total number of recorded download events.
// POST: Returns count >= 0
func (s *RESTStore) Count(ctx context.Context) (int, error) {
	return s.client.Count(ctx, table)
}
