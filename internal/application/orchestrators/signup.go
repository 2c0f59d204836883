package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tigeriron/internal/adapters/backend"
	profileStore "tigeriron/internal/adapters/storage/profile"
	membershipDomain "tigeriron/internal/domain/membership"
	planDomain "tigeriron/internal/domain/plan"
	profileDomain "tigeriron/internal/domain/profile"
)

// DefaultMinPasswordLength is the signup password policy floor. Callers may
// raise it via SignupInput.MinPasswordLength.
const DefaultMinPasswordLength = 6

// AuthForSignup defines the backend auth surface needed by Signup.
type AuthForSignup interface {
	SignUp(ctx context.Context, email, password string) (backend.AuthSession, error)
}

// ProfileStoreForSignup defines the profile store interface needed by Signup.
type ProfileStoreForSignup interface {
	GetByID(ctx context.Context, id string) (profileDomain.Profile, error)
	Insert(ctx context.Context, value profileDomain.Profile) error
}

// MembershipStoreForSignup defines the membership store interface needed by Signup.
type MembershipStoreForSignup interface {
	Insert(ctx context.Context, value membershipDomain.Membership) error
	LatestByUserID(ctx context.Context, userID string) (membershipDomain.Membership, error)
}

// PlanStoreForSignup defines the plan store interface needed by Signup.
type PlanStoreForSignup interface {
	GetBySlug(ctx context.Context, slug string) (planDomain.Plan, error)
}

// SignupInput carries the account-creation form fields.
type SignupInput struct {
	Email             string
	Password          string
	ConfirmPassword   string
	FullName          string
	Phone             string
	PlanSlug          string // empty when the visitor skipped plan selection
	MinPasswordLength int    // 0 means DefaultMinPasswordLength
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	Auth            AuthForSignup
	ProfileStore    ProfileStoreForSignup
	MembershipStore MembershipStoreForSignup
	PlanStore       PlanStoreForSignup
}

// SignupResult carries the outcome of a completed signup.
type SignupResult struct {
	UserID      string
	AccessToken string
}

// Validation errors, safe to show to the visitor verbatim.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyFullName    = errors.New("full name is required")
	ErrInvalidEmail     = errors.New("a valid email is required")
	ErrUnknownPlan      = errors.New("the selected plan is no longer available")
)

// PasswordTooShortError reports a password below the policy floor.
type PasswordTooShortError struct {
	Min int
}

func (e PasswordTooShortError) Error() string {
	return fmt.Sprintf("password must be at least %d characters", e.Min)
}

// ExecuteSignup runs the account-creation step of the signup wizard: create
// the authentication identity, insert the member Profile keyed by its id,
// and, when a plan was selected, insert a trial Membership starting now.
//
// The three writes are sequential and not transactional. Profile and
// membership creation are idempotent-retryable keyed by the identity id: a
// re-submission after a partial failure skips rows that already exist
// instead of duplicating them, and a duplicate email on the identity step
// surfaces the backend's reproducible duplicate error.
//
// PRE: all local validation below passes before any network call is issued
// POST: identity exists; profile row exists; membership row exists if a plan
// was selected; returns the identity id and its session token
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (SignupResult, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return SignupResult{}, ErrEmptyFullName
	}
	if !strings.Contains(input.Email, "@") {
		return SignupResult{}, ErrInvalidEmail
	}
	if input.Password != input.ConfirmPassword {
		return SignupResult{}, ErrPasswordMismatch
	}
	minLen := input.MinPasswordLength
	if minLen <= 0 {
		minLen = DefaultMinPasswordLength
	}
	if len(input.Password) < minLen {
		return SignupResult{}, PasswordTooShortError{Min: minLen}
	}

	// Resolve the plan before writing anything, so a stale referral link
	// fails the whole submission instead of leaving a planless account.
	var selected planDomain.Plan
	hasPlan := false
	if input.PlanSlug != "" {
		p, err := deps.PlanStore.GetBySlug(ctx, input.PlanSlug)
		if err != nil {
			slog.Warn("signup_plan_lookup_failed", "slug", input.PlanSlug, "error", err)
			return SignupResult{}, ErrUnknownPlan
		}
		selected = p
		hasPlan = true
	}

	// Write 1: authentication identity.
	sess, err := deps.Auth.SignUp(ctx, input.Email, input.Password)
	if err != nil {
		slog.Info("signup_event", "event", "identity_failed", "email", input.Email, "duplicate", backend.IsDuplicate(err))
		return SignupResult{}, err
	}
	slog.Info("signup_event", "event", "identity_created", "user_id", sess.User.ID)

	// Subsequent writes run under the new user's own authorization.
	ctx = backend.WithToken(ctx, sess.AccessToken)

	// Write 2: profile row, keyed by the identity id. Skip when a prior
	// attempt already created it.
	if _, err := deps.ProfileStore.GetByID(ctx, sess.User.ID); err != nil {
		if !errors.Is(err, profileStore.ErrNotFound) {
			return SignupResult{}, err
		}
		p := profileDomain.Profile{
			ID:       sess.User.ID,
			FullName: input.FullName,
			Phone:    input.Phone,
			Role:     profileDomain.RoleMember,
		}
		if err := p.Validate(); err != nil {
			return SignupResult{}, err
		}
		if err := deps.ProfileStore.Insert(ctx, p); err != nil && !backend.IsDuplicate(err) {
			slog.Error("signup_event", "event", "profile_failed", "user_id", sess.User.ID, "error", err)
			return SignupResult{}, err
		}
	}

	// Write 3: trial membership, when a plan was chosen. A retry that finds
	// an identical trial row from the failed attempt skips the insert.
	if hasPlan {
		existing, err := deps.MembershipStore.LatestByUserID(ctx, sess.User.ID)
		if err == nil && existing.PlanID == selected.ID && existing.Status == membershipDomain.StatusTrial {
			slog.Info("signup_event", "event", "membership_exists", "user_id", sess.User.ID)
		} else {
			m := membershipDomain.Membership{
				UserID:    sess.User.ID,
				PlanID:    selected.ID,
				Status:    membershipDomain.StatusTrial,
				StartDate: time.Now().UTC(),
			}
			if err := m.Validate(); err != nil {
				return SignupResult{}, err
			}
			if err := deps.MembershipStore.Insert(ctx, m); err != nil {
				slog.Error("signup_event", "event", "membership_failed", "user_id", sess.User.ID, "error", err)
				return SignupResult{}, err
			}
		}
	}

	slog.Info("signup_event", "event", "signup_complete", "user_id", sess.User.ID, "plan", input.PlanSlug)
	return SignupResult{UserID: sess.User.ID, AccessToken: sess.AccessToken}, nil
}
