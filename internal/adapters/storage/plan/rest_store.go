package plan

import (
	"context"

	"tigeriron/internal/adapters/backend"
	domain "tigeriron/internal/domain/plan"
)

const table = "plans"

// row mirrors the plans table column set.
type row struct {
	ID              string   `json:"id"`
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	Price           int      `json:"price"`
	BillingInterval string   `json:"billing_interval"`
	Features        []string `json:"features"`
	StripePriceID   *string  `json:"stripe_price_id"`
	IsActive        bool     `json:"is_active"`
	SortOrder       int      `json:"sort_order"`
}

func (r row) toDomain() domain.Plan {
	p := domain.Plan{
		ID:              r.ID,
		Slug:            r.Slug,
		Title:           r.Title,
		Price:           r.Price,
		BillingInterval: r.BillingInterval,
		Features:        r.Features,
		IsActive:        r.IsActive,
		SortOrder:       r.SortOrder,
	}
	if r.StripePriceID != nil {
		p.BillingPriceID = *r.StripePriceID
	}
	return p
}

// RESTStore implements Store against the hosted backend's row API.
type RESTStore struct {
	client *backend.Client
}

// NewRESTStore creates a new plan store.
func NewRESTStore(client *backend.Client) *RESTStore {
	return &RESTStore{client: client}
}

// ListActive retrieves active plans in display order.
// POST: Returns plans with is_active=true ordered by sort_order ascending
func (s *RESTStore) ListActive(ctx context.Context) ([]domain.Plan, error) {
	var rows []row
	q := backend.Query{
		Filters: []backend.Filter{backend.Eq("is_active", "true")},
		Order:   "sort_order",
	}
	if err := s.client.Select(ctx, table, q, &rows); err != nil {
		return nil, err
	}
	results := make([]domain.Plan, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.toDomain())
	}
	return results, nil
}

// GetBySlug retrieves a plan by its stable slug.
// PRE: slug is non-empty
// POST: Returns the entity, or ErrNotFound when no row matches
func (s *RESTStore) GetBySlug(ctx context.Context, slug string) (domain.Plan, error) {
	return s.getOne(ctx, backend.Eq("slug", slug))
}

// GetByID retrieves a plan by its row id.
// PRE: id is non-empty
// POST: Returns the entity, or ErrNotFound when no row matches
func (s *RESTStore) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	return s.getOne(ctx, backend.Eq("id", id))
}

func (s *RESTStore) getOne(ctx context.Context, filter backend.Filter) (domain.Plan, error) {
	var rows []row
	q := backend.Query{Filters: []backend.Filter{filter}, Limit: 1}
	if err := s.client.Select(ctx, table, q, &rows); err != nil {
		return domain.Plan{}, err
	}
	if len(rows) == 0 {
		return domain.Plan{}, ErrNotFound
	}
	return rows[0].toDomain(), nil
}
