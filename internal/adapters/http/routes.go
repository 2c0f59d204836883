package web

import (
	"context"
	"net/http"

	"tigeriron/internal/adapters/http/middleware"
	"tigeriron/internal/domain/profile"
)

// resolveRole re-fetches the profile row so every protected request sees the
// current role, never the one cached at login.
func resolveRole(ctx context.Context, userID string) (profile.Role, error) {
	p, err := stores.ProfileStore.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

// registerRoutes mounts every page and action on the mux.
func registerRoutes(mux *http.ServeMux) {
	requireAuth := middleware.RequireAuth(resolveRole)
	requireAdmin := middleware.RequireAdmin(resolveRole)

	// Public pages
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET /pricing", handlePricing)
	mux.HandleFunc("GET /contact", handleContact)
	mux.HandleFunc("POST /contact", handleContact)
	mux.HandleFunc("GET /app", handleApp)
	mux.HandleFunc("POST /app/download", handleDownloadEvent)
	mux.HandleFunc("GET /privacy", handleLegal("Privacy Policy", "privacy.md"))
	mux.HandleFunc("GET /terms", handleLegal("Terms of Service", "terms.md"))

	// Auth
	mux.HandleFunc("GET /signup", handleSignup)
	mux.HandleFunc("POST /signup", handleSignup)
	mux.HandleFunc("GET /login", handleLogin)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)

	// Member portal
	mux.Handle("GET /portal", requireAuth(http.HandlerFunc(handlePortal)))

	// Admin
	mux.Handle("GET /admin", requireAdmin(http.HandlerFunc(handleAdmin)))
	mux.Handle("GET /admin/inquiries.csv", requireAdmin(http.HandlerFunc(handleAdminExportInquiries)))
}
