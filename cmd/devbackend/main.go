package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"tigeriron/internal/devbackend"
)

func main() {
	_ = godotenv.Load()

	dbPath := envOrDefault("TIGERIRON_DEV_DB", "tigeriron-dev.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := devbackend.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	adminEmail := envOrDefault("TIGERIRON_DEV_ADMIN_EMAIL", "admin@tigerironfitness.com")
	adminPassword := envOrDefault("TIGERIRON_DEV_ADMIN_PASSWORD", "iron-tiger-admin")
	if err := devbackend.Seed(context.Background(), db, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	server := devbackend.New(db)
	addr := envOrDefault("TIGERIRON_DEV_ADDR", ":54321")
	log.Printf("Dev backend on %s (db=%s, admin=%s)", addr, dbPath, adminEmail)
	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
