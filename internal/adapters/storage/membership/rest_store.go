package membership

import (
	"context"
	"strings"
	"time"

	"tigeriron/internal/adapters/backend"
	domain "tigeriron/internal/domain/membership"
)

const table = "memberships"

// row mirrors the memberships table column set.
type row struct {
	ID                   string     `json:"id,omitempty"`
	UserID               string     `json:"user_id"`
	PlanID               string     `json:"plan_id"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id,omitempty"`
	Status               string     `json:"status"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

func (r row) toDomain() domain.Membership {
	m := domain.Membership{
		ID:        r.ID,
		UserID:    r.UserID,
		PlanID:    r.PlanID,
		Status:    r.Status,
		StartDate: r.StartDate,
	}
	if r.StripeSubscriptionID != nil {
		m.SubscriptionID = *r.StripeSubscriptionID
	}
	if r.EndDate != nil {
		m.EndDate = *r.EndDate
	}
	if r.CreatedAt != nil {
		m.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		m.UpdatedAt = *r.UpdatedAt
	}
	return m
}

// RESTStore implements Store against the hosted backend's row API.
type RESTStore struct {
	client *backend.Client
}

// NewRESTStore creates a new membership store.
func NewRESTStore(client *backend.Client) *RESTStore {
	return &RESTStore{client: client}
}

// Insert creates a Membership row.
// PRE: entity has been validated
// POST: Row is created with backend-assigned id and timestamps
func (s *RESTStore) Insert(ctx context.Context, entity domain.Membership) error {
	body := row{
		UserID:    entity.UserID,
		PlanID:    entity.PlanID,
		Status:    entity.Status,
		StartDate: entity.StartDate,
	}
	return s.client.Insert(ctx, table, body, nil)
}

// LatestByUserID retrieves the most recently created membership for a profile.
// PRE: userID is non-empty
// POST: Returns the newest row, or ErrNotFound when the profile has none
func (s *RESTStore) LatestByUserID(ctx context.Context, userID string) (domain.Membership, error) {
	var rows []row
	q := backend.Query{
		Filters: []backend.Filter{backend.Eq("user_id", userID)},
		Order:   "created_at",
		Desc:    true,
		Limit:   1,
	}
	if err := s.client.Select(ctx, table, q, &rows); err != nil {
		return domain.Membership{}, err
	}
	if len(rows) == 0 {
		return domain.Membership{}, ErrNotFound
	}
	return rows[0].toDomain(), nil
}

// ListByUserIDs retrieves all membership rows for a set of profiles.
// PRE: userIDs may be empty, in which case no query is issued
// POST: Returns rows newest first across the whole set
func (s *RESTStore) ListByUserIDs(ctx context.Context, userIDs []string) ([]domain.Membership, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []row
	q := backend.Query{
		Filters: []backend.Filter{{Column: "user_id", Op: "in", Value: "(" + strings.Join(userIDs, ",") + ")"}},
		Order:   "created_at",
		Desc:    true,
	}
	if err := s.client.Select(ctx, table, q, &rows); err != nil {
		return nil, err
	}
	results := make([]domain.Membership, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.toDomain())
	}
	return results, nil
}

// CountByStatus returns the number of memberships in the given status.
// PRE: status is one of the domain status constants
// POST: Returns count >= 0
func (s *RESTStore) CountByStatus(ctx context.Context, status string) (int, error) {
	return s.client.Count(ctx, table, backend.Eq("status", status))
}
