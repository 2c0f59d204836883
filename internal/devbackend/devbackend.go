// Package devbackend is a local stand-in for the hosted backend used in
// development and tests. It speaks the same auth and row API subset the
// application client uses, persisting to SQLite instead of a remote service.
package devbackend

import (
	"database/sql"
	"net/http"
	"sync"
)

// Server serves the auth and row APIs over a local SQLite database.
type Server struct {
	db *sql.DB

	mu     sync.RWMutex
	tokens map[string]identity // access token -> identity
}

type identity struct {
	ID    string
	Email string
}

// New creates a server over an already-opened database.
func New(db *sql.DB) *Server {
	return &Server{
		db:     db,
		tokens: make(map[string]identity),
	}
}

// Handler returns the HTTP surface: /auth/v1/* and /rest/v1/*.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/v1/token", s.handleToken)
	mux.HandleFunc("GET /auth/v1/user", s.handleUser)
	mux.HandleFunc("/rest/v1/{table}", s.handleRows)
	return mux
}

const schema = `
CREATE TABLE IF NOT EXISTS auth_users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    id                 TEXT PRIMARY KEY,
    full_name          TEXT NOT NULL,
    phone              TEXT,
    role               TEXT NOT NULL DEFAULT 'member',
    stripe_customer_id TEXT,
    created_at         TEXT NOT NULL,
    updated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plans (
    id              TEXT PRIMARY KEY,
    slug            TEXT NOT NULL UNIQUE,
    title           TEXT NOT NULL,
    price           INTEGER NOT NULL,
    billing_interval TEXT NOT NULL DEFAULT 'month',
    features        TEXT NOT NULL DEFAULT '[]',
    stripe_price_id TEXT,
    is_active       INTEGER NOT NULL DEFAULT 1,
    sort_order      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS memberships (
    id                     TEXT PRIMARY KEY,
    user_id                TEXT NOT NULL,
    plan_id                TEXT NOT NULL,
    stripe_subscription_id TEXT,
    status                 TEXT NOT NULL,
    start_date             TEXT NOT NULL,
    end_date               TEXT,
    created_at             TEXT NOT NULL,
    updated_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS inquiries (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    phone         TEXT,
    message       TEXT NOT NULL,
    interested_in TEXT,
    source        TEXT,
    created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS app_downloads (
    id         TEXT PRIMARY KEY,
    platform   TEXT NOT NULL,
    user_agent TEXT,
    referrer   TEXT,
    created_at TEXT NOT NULL
);
`

// Migrate creates the schema when missing.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
