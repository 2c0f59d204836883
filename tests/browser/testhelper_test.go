package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"tigeriron/internal/adapters/backend"
	web "tigeriron/internal/adapters/http"
	"tigeriron/internal/adapters/http/middleware"
	appdownloadStore "tigeriron/internal/adapters/storage/appdownload"
	inquiryStore "tigeriron/internal/adapters/storage/inquiry"
	membershipStore "tigeriron/internal/adapters/storage/membership"
	planStore "tigeriron/internal/adapters/storage/plan"
	profileStore "tigeriron/internal/adapters/storage/profile"
	"tigeriron/internal/devbackend"
)

const (
	adminEmail    = "admin@test.com"
	adminPassword = "TestPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	Client  *backend.Client
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp wires the full stack: a local backend over a temp SQLite DB, the
// site in front of it, and a headless browser.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if os.Getenv("TIGERIRON_BROWSER_TESTS") == "" {
		t.Skip("set TIGERIRON_BROWSER_TESTS=1 to run browser tests")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := devbackend.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}
	ctx := context.Background()
	if err := devbackend.Seed(ctx, db, adminEmail, adminPassword); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	backendSrv := httptest.NewServer(devbackend.New(db).Handler())
	t.Cleanup(backendSrv.Close)

	client, err := backend.New(backend.Config{BaseURL: backendSrv.URL, AnonKey: "test-anon-key"})
	if err != nil {
		t.Fatalf("failed to create backend client: %v", err)
	}

	stores := &web.Stores{
		ProfileStore:    profileStore.NewRESTStore(client),
		PlanStore:       planStore.NewRESTStore(client),
		MembershipStore: membershipStore.NewRESTStore(client),
		InquiryStore:    inquiryStore.NewRESTStore(client),
		DownloadStore:   appdownloadStore.NewRESTStore(client),
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	// Browser pages fetch fast enough to trip the default per-IP limit
	web.RateLimitPerSecond = 1000

	mux := web.NewMux("static", stores, client)
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		Client:  client,
		PW:      pw,
		Browser: browser,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login logs in with the given credentials and waits for the landing page.
func (a *testApp) login(t *testing.T, page playwright.Page, email, password, wantURL string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+wantURL, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to %s: %v", wantURL, err)
	}
}

// signUpMember walks the signup wizard end to end: pick a plan (or skip),
// fill the account form, then follow the confirmation link to the portal.
func (a *testApp) signUpMember(t *testing.T, page playwright.Page, name, email, password, planSlug string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/signup"); err != nil {
		t.Fatalf("failed to navigate to signup: %v", err)
	}
	// Step 1: plan selection. Each plan is a link; skipping is its own link.
	if err := page.Locator(fmt.Sprintf(`a[href="/signup?plan=%s"]`, planSlug)).Click(); err != nil {
		t.Fatalf("failed to pick plan %q: %v", planSlug, err)
	}
	// Step 2: account details.
	if err := page.Locator("input[name=full_name]").Fill(name); err != nil {
		t.Fatalf("failed to fill name: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("input[name=confirm_password]").Fill(password); err != nil {
		t.Fatalf("failed to fill confirmation: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to submit signup: %v", err)
	}
	// Step 3: confirmation, then on to the portal.
	portalLink := page.Locator(`a[href="/portal"]`, playwright.PageLocatorOptions{
		HasText: "Go to My Account",
	})
	if err := portalLink.WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("signup did not reach the confirmation step: %v", err)
	}
	if err := portalLink.Click(); err != nil {
		t.Fatalf("failed to follow portal link: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/portal", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("confirmation link did not reach portal: %v", err)
	}
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
