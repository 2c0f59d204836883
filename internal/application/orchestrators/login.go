package orchestrators

import (
	"context"
	"log/slog"

	"tigeriron/internal/adapters/backend"
	profileDomain "tigeriron/internal/domain/profile"
)

// AuthForLogin defines the backend auth surface needed by Login.
type AuthForLogin interface {
	SignInWithPassword(ctx context.Context, email, password string) (backend.AuthSession, error)
}

// ProfileStoreForLogin defines the profile store interface needed by Login.
type ProfileStoreForLogin interface {
	GetByID(ctx context.Context, id string) (profileDomain.Profile, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	UserID      string
	Email       string
	AccessToken string
	Role        profileDomain.Role
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Auth         AuthForLogin
	ProfileStore ProfileStoreForLogin
}

// ExecuteLogin exchanges credentials for a session and resolves the role
// used to pick the post-login destination. The role here is advisory only:
// every protected view re-resolves it from the Profile row on entry.
// PRE: email and password provided
// POST: Returns session info on success; credential failures are typed
// backend errors mapped to a curated message at the edge
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	sess, err := deps.Auth.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email)
		return LoginResult{}, err
	}

	role := profileDomain.RoleMember
	authedCtx := backend.WithToken(ctx, sess.AccessToken)
	if p, err := deps.ProfileStore.GetByID(authedCtx, sess.User.ID); err == nil {
		if parsed, perr := profileDomain.ParseRole(string(p.Role)); perr == nil {
			role = parsed
		}
	} else {
		// Destination only; the admin gate re-checks on arrival.
		slog.Warn("auth_event", "event", "role_lookup_failed", "user_id", sess.User.ID, "error", err)
	}

	slog.Info("auth_event", "event", "login_success", "user_id", sess.User.ID, "role", role)
	return LoginResult{
		UserID:      sess.User.ID,
		Email:       sess.User.Email,
		AccessToken: sess.AccessToken,
		Role:        role,
	}, nil
}
