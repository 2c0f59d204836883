package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"tigeriron/internal/adapters/backend"
	"tigeriron/internal/adapters/email"
	"tigeriron/internal/adapters/http/middleware"
	appdownloadStore "tigeriron/internal/adapters/storage/appdownload"
	inquiryStore "tigeriron/internal/adapters/storage/inquiry"
	membershipStore "tigeriron/internal/adapters/storage/membership"
	planStore "tigeriron/internal/adapters/storage/plan"
	profileStore "tigeriron/internal/adapters/storage/profile"
)

// Stores holds all storage dependencies.
type Stores struct {
	ProfileStore    profileStore.Store
	PlanStore       planStore.Store
	MembershipStore membershipStore.Store
	InquiryStore    inquiryStore.Store
	DownloadStore   appdownloadStore.Store
}

// AuthAPI is the backend identity surface the handlers need.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password string) (backend.AuthSession, error)
	SignInWithPassword(ctx context.Context, email, password string) (backend.AuthSession, error)
}

// loadCSRFKey reads the CSRF secret from TIGERIRON_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("TIGERIRON_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("TIGERIRON_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("TIGERIRON_ENV") == "production" {
		log.Fatal("TIGERIRON_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set TIGERIRON_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global backend auth instance (set by NewMux)
var backendAuth AuthAPI

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var inquiryNotifyAddress string

// SetEmailSender sets the global email sender and where inquiry
// notifications go. An empty notifyTo disables notifications.
func SetEmailSender(sender email.Sender, from, notifyTo string) {
	emailSender = sender
	emailFromAddress = from
	inquiryNotifyAddress = notifyTo
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, auth AuthAPI) http.Handler {
	stores = s
	backendAuth = auth
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("TIGERIRON_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: SecurityHeaders -> CSRF -> Auth -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
