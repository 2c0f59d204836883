package devbackend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type seedPlan struct {
	Slug     string
	Title    string
	Price    int
	Interval string
	Features []string
	Sort     int
}

var seedPlans = []seedPlan{
	{
		Slug: "tiger-basic", Title: "Basic", Price: 29, Interval: "month", Sort: 1,
		Features: []string{"Open floor access", "Locker rooms", "Mobile app"},
	},
	{
		Slug: "tiger-pro", Title: "Pro", Price: 49, Interval: "month", Sort: 2,
		Features: []string{"Everything in Basic", "Unlimited classes", "Guest passes"},
	},
	{
		Slug: "tiger-annual", Title: "Annual", Price: 490, Interval: "year", Sort: 3,
		Features: []string{"Everything in Pro", "Two months free", "Annual assessment"},
	},
}

// Seed populates the plan catalog and an admin account. Idempotent: rows
// that already exist are left alone.
func Seed(ctx context.Context, db *sql.DB, adminEmail, adminPassword string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	for _, p := range seedPlans {
		features, err := json.Marshal(p.Features)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx,
			`INSERT OR IGNORE INTO plans (id, slug, title, price, billing_interval, features, is_active, sort_order)
			 VALUES (?, ?, ?, ?, ?, ?, 1, ?)`,
			uuid.New().String(), p.Slug, p.Title, p.Price, p.Interval, string(features), p.Sort)
		if err != nil {
			return fmt.Errorf("seed plan %s: %w", p.Slug, err)
		}
	}

	var existing string
	err := db.QueryRowContext(ctx, `SELECT id FROM auth_users WHERE email = ?`, adminEmail).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id := uuid.New().String()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO auth_users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, adminEmail, string(hash), now); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO profiles (id, full_name, role, created_at, updated_at) VALUES (?, ?, 'admin', ?, ?)`,
		id, "Site Admin", now, now); err != nil {
		return fmt.Errorf("seed admin profile: %w", err)
	}

	slog.Info("devbackend", "event", "admin_seeded", "email", adminEmail)
	return nil
}
