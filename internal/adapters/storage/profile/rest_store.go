package profile

import (
	"context"
	"time"

	"tigeriron/internal/adapters/backend"
	domain "tigeriron/internal/domain/profile"
)

const table = "profiles"

// row mirrors the profiles table column set.
type row struct {
	ID               string     `json:"id"`
	FullName         string     `json:"full_name"`
	Phone            *string    `json:"phone"`
	Role             string     `json:"role"`
	StripeCustomerID *string    `json:"stripe_customer_id"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

func (r row) toDomain() domain.Profile {
	p := domain.Profile{
		ID:       r.ID,
		FullName: r.FullName,
		Role:     domain.Role(r.Role),
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.StripeCustomerID != nil {
		p.BillingCustomerID = *r.StripeCustomerID
	}
	if r.CreatedAt != nil {
		p.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = *r.UpdatedAt
	}
	return p
}

// RESTStore implements Store against the hosted backend's row API.
type RESTStore struct {
	client *backend.Client
}

// NewRESTStore creates a new profile store.
func NewRESTStore(client *backend.Client) *RESTStore {
	return &RESTStore{client: client}
}

// GetByID retrieves a Profile by its identity id.
// PRE: id is non-empty
// POST: Returns the entity, or ErrNotFound when no row matches
func (s *RESTStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	var rows []row
	q := backend.Query{Filters: []backend.Filter{backend.Eq("id", id)}, Limit: 1}
	if err := s.client.Select(ctx, table, q, &rows); err != nil {
		return domain.Profile{}, err
	}
	if len(rows) == 0 {
		return domain.Profile{}, ErrNotFound
	}
	return rows[0].toDomain(), nil
}

// Insert creates a Profile row keyed by the identity id.
// PRE: entity has been validated
// POST: Row is created; a duplicate id yields an error for which
// backend.IsDuplicate returns true
func (s *RESTStore) Insert(ctx context.Context, entity domain.Profile) error {
	body := row{
		ID:       entity.ID,
		FullName: entity.FullName,
		Role:     string(entity.Role),
	}
	if entity.Phone != "" {
		body.Phone = &entity.Phone
	}
	return s.client.Insert(ctx, table, body, nil)
}

// ListRecentMembers retrieves member-role profiles newest first.
// PRE: limit > 0
// POST: Returns up to limit profiles ordered by creation time descending
func (s *RESTStore) ListRecentMembers(ctx context.Context, limit int) ([]domain.Profile, error) {
	var rows []row
	q := backend.Query{
		Filters: []backend.Filter{backend.Eq("role", string(domain.RoleMember))},
		Order:   "created_at",
		Desc:    true,
		Limit:   limit,
	}
	if err := s.client.Select(ctx, table, q, &rows); err != nil {
		return nil, err
	}
	results := make([]domain.Profile, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.toDomain())
	}
	return results, nil
}

// CountMembers returns the number of member-role profiles.
// POST: Returns count >= 0
func (s *RESTStore) CountMembers(ctx context.Context) (int, error) {
	return s.client.Count(ctx, table, backend.Eq("role", string(domain.RoleMember)))
}
