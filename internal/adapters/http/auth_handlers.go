package web

import (
	"log/slog"
	"net/http"

	"tigeriron/internal/adapters/http/middleware"
	"tigeriron/internal/application/orchestrators"
	"tigeriron/internal/domain/plan"
	"tigeriron/internal/domain/profile"
)

// Signup wizard steps: choosing a plan, entering account details, done.
const (
	signupStepPlan     = "plan"
	signupStepAccount  = "account"
	signupStepComplete = "complete"
)

// signupViewData builds the template data for one wizard step. ChosenPlan is
// set when the selected slug matches an active plan so the account step can
// summarize the choice.
func signupViewData(step string, plans []plan.Plan, selected string) map[string]any {
	data := map[string]any{
		"Step":         step,
		"Plans":        plans,
		"SelectedPlan": selected,
	}
	if chosen, ok := plan.BySlug(plans, selected); ok {
		data["ChosenPlan"] = chosen
	}
	return data
}

// handleSignup drives the signup wizard. GET without a plan parameter shows
// the plan-selection step; GET with one (a chosen slug, an empty value for
// "decide later", or a referral link) shows the account step with that plan
// locked in. POST creates the account and renders the completion step.
func handleSignup(w http.ResponseWriter, r *http.Request) {
	plans, err := stores.PlanStore.ListActive(r.Context())
	if err != nil {
		slog.Warn("page_event", "event", "signup_plans_failed", "error", err)
		plans = nil
	}

	if r.Method == http.MethodGet {
		if !r.URL.Query().Has("plan") {
			renderTemplate(w, r, "signup.html", signupViewData(signupStepPlan, plans, ""))
			return
		}
		renderTemplate(w, r, "signup.html", signupViewData(signupStepAccount, plans, r.URL.Query().Get("plan")))
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	input := orchestrators.SignupInput{
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		FullName:        r.FormValue("full_name"),
		Phone:           r.FormValue("phone"),
		PlanSlug:        r.FormValue("plan"),
	}
	deps := orchestrators.SignupDeps{
		Auth:            backendAuth,
		ProfileStore:    stores.ProfileStore,
		MembershipStore: stores.MembershipStore,
		PlanStore:       stores.PlanStore,
	}
	result, err := orchestrators.ExecuteSignup(r.Context(), input, deps)
	if err != nil {
		data := signupViewData(signupStepAccount, plans, input.PlanSlug)
		data["Error"] = formErrorMessage(err)
		data["Form"] = input
		renderTemplate(w, r, "signup.html", data)
		return
	}

	token, err := sessions.Create(result.UserID, input.Email, profile.RoleMember, result.AccessToken)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	renderTemplate(w, r, "signup.html", signupViewData(signupStepComplete, plans, input.PlanSlug))
}

// handleLogin handles both GET (form) and POST (credential exchange) for
// /login. Admins land on the dashboard, everyone else on the portal.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "login.html", map[string]any{})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	input := orchestrators.LoginInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	deps := orchestrators.LoginDeps{
		Auth:         backendAuth,
		ProfileStore: stores.ProfileStore,
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		renderTemplate(w, r, "login.html", map[string]any{
			"Error": formErrorMessage(err),
			"Email": input.Email,
		})
		return
	}

	token, err := sessions.Create(result.UserID, result.Email, result.Role, result.AccessToken)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if result.Role == profile.RoleAdmin {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/portal", http.StatusSeeOther)
}

// handleLogout destroys the session and returns to the landing page.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.SessionTokenFromRequest(r); ok {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
