package projections

import (
	"context"
	"errors"
	"log/slog"

	membershipstore "tigeriron/internal/adapters/storage/membership"
	planstore "tigeriron/internal/adapters/storage/plan"
	profilestore "tigeriron/internal/adapters/storage/profile"
	"tigeriron/internal/domain/membership"
	"tigeriron/internal/domain/plan"
	"tigeriron/internal/domain/profile"
)

// PortalProfileStore defines the profile store interface needed by the portal projection.
type PortalProfileStore interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
}

// PortalMembershipStore defines the membership store interface needed by the portal projection.
type PortalMembershipStore interface {
	LatestByUserID(ctx context.Context, userID string) (membership.Membership, error)
}

// PortalPlanStore defines the plan store interface needed by the portal projection.
type PortalPlanStore interface {
	GetByID(ctx context.Context, id string) (plan.Plan, error)
}

// GetPortalQuery carries input for the portal projection.
type GetPortalQuery struct {
	UserID string
	Email  string // session email, shown when no profile row exists yet
}

// GetPortalDeps holds dependencies for the portal projection.
type GetPortalDeps struct {
	ProfileStore    PortalProfileStore
	MembershipStore PortalMembershipStore
	PlanStore       PortalPlanStore
}

// PortalResult carries the output of the portal projection.
type PortalResult struct {
	Profile profile.Profile
	Email   string

	// HasMembership is false when the user has never held a membership;
	// the view renders a plan call-to-action instead of status.
	HasMembership bool
	Membership    membership.Membership
	Category      membership.Category

	// HasPlan is false when the membership's plan row could not be
	// resolved; the view falls back to showing status alone.
	HasPlan bool
	Plan    plan.Plan
}

// QueryGetPortal assembles the member portal view: the profile, the most
// recently created membership, and that membership's plan. When the user
// holds several membership rows the newest one wins.
// PRE: UserID identifies an authenticated user
// POST: Zero memberships is a valid state, never an error
func QueryGetPortal(ctx context.Context, query GetPortalQuery, deps GetPortalDeps) (PortalResult, error) {
	result := PortalResult{Email: query.Email}

	p, err := deps.ProfileStore.GetByID(ctx, query.UserID)
	if err != nil {
		if !errors.Is(err, profilestore.ErrNotFound) {
			return PortalResult{}, err
		}
		// Profile row missing (signup retry landed mid-flow); render from
		// session data only.
		slog.Warn("portal_event", "event", "profile_missing", "user_id", query.UserID)
	} else {
		result.Profile = p
	}

	m, err := deps.MembershipStore.LatestByUserID(ctx, query.UserID)
	if err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			return result, nil
		}
		return PortalResult{}, err
	}
	result.HasMembership = true
	result.Membership = m
	result.Category = membership.Classify(m.Status)

	if pl, err := deps.PlanStore.GetByID(ctx, m.PlanID); err == nil {
		result.HasPlan = true
		result.Plan = pl
	} else if !errors.Is(err, planstore.ErrNotFound) {
		slog.Warn("portal_event", "event", "plan_lookup_failed", "plan_id", m.PlanID, "error", err)
	}

	return result, nil
}
