package web

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"tigeriron/internal/adapters/backend"
	"tigeriron/internal/adapters/http/middleware"
	"tigeriron/internal/application/orchestrators"
	"tigeriron/internal/domain/inquiry"
	"tigeriron/internal/domain/membership"
	"tigeriron/internal/domain/profile"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

const templatesDir = "internal/adapters/http/templates"
const legalDir = "content/legal"

// formErrorMessage maps an error from an orchestrator into text safe to put
// on the page. Local validation errors read well verbatim; backend errors go
// through the curated message table so raw API detail never reaches visitors.
func formErrorMessage(err error) string {
	switch {
	case errors.Is(err, orchestrators.ErrPasswordMismatch),
		errors.Is(err, orchestrators.ErrEmptyFullName),
		errors.Is(err, orchestrators.ErrInvalidEmail),
		errors.Is(err, orchestrators.ErrUnknownPlan),
		errors.Is(err, inquiry.ErrEmptyName),
		errors.Is(err, inquiry.ErrInvalidEmail),
		errors.Is(err, inquiry.ErrEmptyMessage),
		errors.Is(err, inquiry.ErrEmptyInterest):
		return err.Error()
	}
	var backendErr *backend.Error
	if errors.As(err, &backendErr) {
		return backend.UserMessage(err)
	}
	var shortErr orchestrators.PasswordTooShortError
	if errors.As(err, &shortErr) {
		return shortErr.Error()
	}
	return "Something went wrong. Please try again."
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	email := ""
	isAdmin := false
	if ok {
		email = sess.Email
		isAdmin = sess.Role == profile.RoleAdmin
	}

	funcMap := template.FuncMap{
		"currentEmail": func() string { return email },
		"isLoggedIn":   func() bool { return ok },
		"isAdmin":      func() bool { return isAdmin },
		"csrfToken":    func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"formatPrice": func(units int) string {
			return "$" + strconv.Itoa(units)
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"statusClass": func(c membership.Category) string {
			switch c {
			case membership.CategoryPositive:
				return "badge-positive"
			case membership.CategoryInfo:
				return "badge-info"
			case membership.CategoryWarning:
				return "badge-warning"
			}
			return "badge-neutral"
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleHome renders the landing page with the active plans as teasers.
func handleHome(w http.ResponseWriter, r *http.Request) {
	plans, err := stores.PlanStore.ListActive(r.Context())
	if err != nil {
		// The landing page must render even when the backend is down.
		slog.Warn("page_event", "event", "home_plans_failed", "error", err)
		plans = nil
	}
	renderTemplate(w, r, "home.html", map[string]any{
		"Plans": plans,
	})
}

// handlePricing renders the plan comparison page.
func handlePricing(w http.ResponseWriter, r *http.Request) {
	plans, err := stores.PlanStore.ListActive(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "pricing.html", map[string]any{
		"Plans": plans,
	})
}

// handleContact handles both GET (form) and POST (submit) for /contact.
func handleContact(w http.ResponseWriter, r *http.Request) {
	interests := []string{
		inquiry.InterestTrial,
		inquiry.InterestMembership,
		inquiry.InterestTraining,
		inquiry.InterestClasses,
		inquiry.InterestOther,
	}

	if r.Method == http.MethodGet {
		renderTemplate(w, r, "contact.html", map[string]any{
			"Interests": interests,
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	input := orchestrators.SubmitInquiryInput{
		Name:         r.FormValue("name"),
		Email:        r.FormValue("email"),
		Phone:        r.FormValue("phone"),
		Message:      r.FormValue("message"),
		InterestedIn: r.FormValue("interested_in"),
		Source:       r.Header.Get("Referer"),
	}
	deps := orchestrators.SubmitInquiryDeps{
		InquiryStore: stores.InquiryStore,
		Sender:       emailSender,
		NotifyTo:     inquiryNotifyAddress,
		NotifyFrom:   emailFromAddress,
	}
	if err := orchestrators.ExecuteSubmitInquiry(r.Context(), input, deps); err != nil {
		renderTemplate(w, r, "contact.html", map[string]any{
			"Interests": interests,
			"Error":     formErrorMessage(err),
			"Form":      input,
		})
		return
	}
	renderTemplate(w, r, "contact.html", map[string]any{
		"Interests": interests,
		"Success":   true,
	})
}

// handleApp renders the mobile-app page with the store links.
func handleApp(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "app.html", nil)
}

// handleDownloadEvent records a download-link click. Fire-and-forget: the
// click must navigate instantly, so the insert runs detached and the
// response never waits on it or reports its failure.
func handleDownloadEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	input := orchestrators.RecordDownloadInput{
		Platform:  r.FormValue("platform"),
		UserAgent: r.UserAgent(),
		Referrer:  r.Header.Get("Referer"),
	}
	deps := orchestrators.RecordDownloadDeps{EventStore: stores.DownloadStore}

	// Detach from the request so navigation doesn't cancel the insert.
	ctx := context.WithoutCancel(r.Context())
	go func() {
		_ = orchestrators.ExecuteRecordDownload(ctx, input, deps)
	}()
	w.WriteHeader(http.StatusNoContent)
}

// handleLegal serves the markdown legal documents (privacy, terms).
func handleLegal(title, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := os.ReadFile(filepath.Join(legalDir, filename))
		if err != nil {
			internalError(w, err)
			return
		}
		renderTemplate(w, r, "legal.html", map[string]any{
			"Title":    title,
			"Markdown": string(raw),
		})
	}
}
