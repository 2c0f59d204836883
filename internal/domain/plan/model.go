package plan

import (
	"errors"
	"strings"
)

// Billing interval constants
const (
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// Plan is a purchasable membership tier. Plans are owned and maintained
// outside this application; from here they are strictly read-only.
type Plan struct {
	ID              string
	Slug            string // stable external identifier, used in referral links
	Title           string
	Price           int // whole currency units per billing interval
	BillingInterval string
	Features        []string
	BillingPriceID  string // external billing processor price reference
	IsActive        bool
	SortOrder       int
}

// Domain errors
var (
	ErrEmptySlug  = errors.New("plan slug cannot be empty")
	ErrEmptyTitle = errors.New("plan title cannot be empty")
)

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Slug) == "" {
		return ErrEmptySlug
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Price < 0 {
		return errors.New("plan price cannot be negative")
	}
	return nil
}

// BySlug returns the plan with the given slug from a fetched list.
// INVARIANT: plans slice is not mutated
func BySlug(plans []Plan, slug string) (Plan, bool) {
	for _, p := range plans {
		if p.Slug == slug {
			return p, true
		}
	}
	return Plan{}, false
}
