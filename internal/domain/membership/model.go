package membership

import (
	"errors"
	"time"
)

// Status constants for the membership lifecycle.
const (
	StatusTrial    = "trial"
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

// Category is the presentation bucket a status maps to.
type Category string

// Presentation categories
const (
	CategoryPositive Category = "positive"
	CategoryInfo     Category = "info"
	CategoryWarning  Category = "warning"
	CategoryNeutral  Category = "neutral"
)

// Domain errors
var (
	ErrEmptyUserID  = errors.New("membership user_id cannot be empty")
	ErrEmptyPlanID  = errors.New("membership plan_id cannot be empty")
	ErrInvalidStatus = errors.New("status must be 'trial', 'active', 'canceled', or 'expired'")
)

// Membership links a Profile to a Plan for a bounded period. A profile may
// hold any number of membership rows; the most recently created one is the
// authoritative display row. That is a display convention, not a uniqueness
// constraint enforced anywhere.
type Membership struct {
	ID             string
	UserID         string
	PlanID         string
	SubscriptionID string // external billing subscription reference
	Status         string
	StartDate      time.Time
	EndDate        time.Time // zero when open-ended
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks if the Membership has valid data.
// PRE: Membership struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Membership) Validate() error {
	if m.UserID == "" {
		return ErrEmptyUserID
	}
	if m.PlanID == "" {
		return ErrEmptyPlanID
	}
	switch m.Status {
	case StatusTrial, StatusActive, StatusCanceled, StatusExpired:
		return nil
	}
	return ErrInvalidStatus
}

// Classify maps a membership status onto a presentation category.
// INVARIANT: pure function, no fields are mutated
func Classify(status string) Category {
	switch status {
	case StatusActive:
		return CategoryPositive
	case StatusTrial:
		return CategoryInfo
	case StatusCanceled, StatusExpired:
		return CategoryWarning
	}
	return CategoryNeutral
}

// Latest returns the membership with the newest CreatedAt.
// PRE: rows may be empty or unsorted
// POST: Returns the newest row and true, or false when rows is empty
func Latest(rows []Membership) (Membership, bool) {
	if len(rows) == 0 {
		return Membership{}, false
	}
	latest := rows[0]
	for _, m := range rows[1:] {
		if m.CreatedAt.After(latest.CreatedAt) {
			latest = m
		}
	}
	return latest, true
}
