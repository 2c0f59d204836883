package web

import (
	"net/http"

	"tigeriron/internal/adapters/http/middleware"
	"tigeriron/internal/application/projections"
)

// handlePortal renders the member's own view: profile details plus the
// latest membership and its plan. Mounted behind RequireAuth.
func handlePortal(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	query := projections.GetPortalQuery{
		UserID: sess.UserID,
		Email:  sess.Email,
	}
	deps := projections.GetPortalDeps{
		ProfileStore:    stores.ProfileStore,
		MembershipStore: stores.MembershipStore,
		PlanStore:       stores.PlanStore,
	}
	result, err := projections.QueryGetPortal(r.Context(), query, deps)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "portal.html", map[string]any{
		"Portal": result,
	})
}
