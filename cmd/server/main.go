package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"tigeriron/internal/adapters/backend"
	emailPkg "tigeriron/internal/adapters/email"
	web "tigeriron/internal/adapters/http"
	appdownloadStore "tigeriron/internal/adapters/storage/appdownload"
	inquiryStore "tigeriron/internal/adapters/storage/inquiry"
	membershipStore "tigeriron/internal/adapters/storage/membership"
	planStore "tigeriron/internal/adapters/storage/plan"
	profileStore "tigeriron/internal/adapters/storage/profile"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Local development reads .env; absence is fine in production.
	_ = godotenv.Load()

	// The hosted backend is the only persistence this process has; without
	// its coordinates there is nothing to serve.
	backendURL := os.Getenv("TIGERIRON_BACKEND_URL")
	anonKey := os.Getenv("TIGERIRON_BACKEND_ANON_KEY")
	client, err := backend.New(backend.Config{BaseURL: backendURL, AnonKey: anonKey})
	if err != nil {
		log.Fatalf("backend configuration: %v (set TIGERIRON_BACKEND_URL and TIGERIRON_BACKEND_ANON_KEY)", err)
	}

	stores := &web.Stores{
		ProfileStore:    profileStore.NewRESTStore(client),
		PlanStore:       planStore.NewRESTStore(client),
		MembershipStore: membershipStore.NewRESTStore(client),
		InquiryStore:    inquiryStore.NewRESTStore(client),
		DownloadStore:   appdownloadStore.NewRESTStore(client),
	}

	// Configure email sender
	resendKey := os.Getenv("TIGERIRON_RESEND_KEY")
	emailFrom := envOrDefault("TIGERIRON_RESEND_FROM", "Tiger Iron Fitness <noreply@tigerironfitness.com>")
	notifyTo := os.Getenv("TIGERIRON_INQUIRY_NOTIFY")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, notifyTo)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, notifyTo)
		if os.Getenv("TIGERIRON_ENV") == "production" {
			log.Println("WARNING: TIGERIRON_RESEND_KEY is not set — inquiry notifications are DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set TIGERIRON_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux("static", stores, client)

	addr := envOrDefault("TIGERIRON_ADDR", ":8080")
	log.Printf("Tiger Iron %s starting on %s (env=%s, backend=%s)", version, addr, envOrDefault("TIGERIRON_ENV", "development"), backendURL)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
