package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tigeriron/internal/adapters/backend"
	"tigeriron/internal/domain/profile"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// Session represents an authenticated session. AccessToken is the backend
// bearer token; every store call made on behalf of this user carries it so
// the backend's row-level rules see the real identity.
type Session struct {
	UserID      string
	Email       string
	Role        profile.Role
	AccessToken string
	CreatedAt   time.Time
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
	}
}

// Create stores a new session and returns the token.
// PRE: userID and accessToken are non-empty
// POST: Session is stored, token is returned
func (ss *SessionStore) Create(userID, email string, role profile.Role, accessToken string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		UserID:      userID,
		Email:       email,
		Role:        role,
		AccessToken: accessToken,
		CreatedAt:   time.Now(),
	}
	return token, nil
}

// sessionTTL is how long a session token stays valid.
const sessionTTL = 24 * time.Hour

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if valid and not expired; expired sessions are reaped
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	session, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Since(session.CreatedAt) > sessionTTL {
		// Reap under the write lock; the read lock above admits concurrent
		// readers, so the delete must not happen while holding it.
		ss.mu.Lock()
		if cur, ok := ss.sessions[token]; ok && time.Since(cur.CreatedAt) > sessionTTL {
			delete(ss.sessions, token)
		}
		ss.mu.Unlock()
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

const sessionCookieName = "tigeriron_session"

// SecureCookies toggles the Secure flag on session cookies. Set true in
// production behind TLS.
var SecureCookies bool

// Auth returns middleware that extracts the session from the cookie and sets
// it in context, along with the backend bearer token for store calls.
// It does NOT block unauthenticated requests — use RequireAuth or
// RequireAdmin for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, session)
					ctx = backend.WithToken(ctx, session.AccessToken)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleResolver fetches the current role for an identity id. The gate calls
// it on every protected request so role changes take effect immediately;
// the session never acts as a role cache.
type RoleResolver func(ctx context.Context, userID string) (profile.Role, error)

// resolveSession re-checks the session's role against the profile row.
// Fail closed: a failed fetch or an empty role reads as unauthenticated.
func resolveSession(r *http.Request, resolve RoleResolver) (Session, bool) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		return Session{}, false
	}
	role, err := resolve(r.Context(), session.UserID)
	if err != nil || role == "" {
		slog.Warn("auth_event", "event", "role_resolution_failed", "user_id", session.UserID, "error", err)
		return Session{}, false
	}
	session.Role = role
	return session, true
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(resolve RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := resolveSession(r, resolve)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
		})
	}
}

// RequireAdmin returns middleware guarding admin views. Unauthenticated
// requests go to the login page; authenticated non-admins go to their own
// portal rather than an error page.
func RequireAdmin(resolve RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := resolveSession(r, resolve)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if session.Role != profile.RoleAdmin {
				http.Redirect(w, r, "/portal", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// IsAdmin checks if the current session is an admin.
func IsAdmin(ctx context.Context) bool {
	session, ok := GetSessionFromContext(ctx)
	return ok && session.Role == profile.RoleAdmin
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400, // 24 hours
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionTokenFromRequest returns the raw session cookie value, if present.
func SessionTokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
