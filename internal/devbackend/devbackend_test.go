package devbackend

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"tigeriron/internal/adapters/backend"
	planStore "tigeriron/internal/adapters/storage/plan"
)

// newTestBackend spins up the local backend over a fresh SQLite file and
// returns a configured client against it.
func newTestBackend(t *testing.T) (*backend.Client, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	srv := httptest.NewServer(New(db).Handler())
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{BaseURL: srv.URL, AnonKey: "test-anon-key"})
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	return client, db
}

// TestSignupAndSignIn verifies the full identity round trip: signup issues a
// session, the token resolves the user, and the password works for sign-in.
func TestSignupAndSignIn(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	session, err := client.SignUp(ctx, "ann@example.com", "hunter2-hunter2")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if session.AccessToken == "" || session.User.ID == "" {
		t.Fatalf("session = %+v", session)
	}
	if session.User.Email != "ann@example.com" {
		t.Errorf("email = %q", session.User.Email)
	}

	ident, err := client.User(backend.WithToken(ctx, session.AccessToken))
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if ident.ID != session.User.ID {
		t.Errorf("identity = %+v, want id %s", ident, session.User.ID)
	}

	again, err := client.SignInWithPassword(ctx, "ann@example.com", "hunter2-hunter2")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if again.User.ID != session.User.ID {
		t.Errorf("sign-in identity = %+v", again.User)
	}
}

// TestSignup_DuplicateEmailIsTyped verifies a second signup with the same
// email comes back as a recognizable duplicate.
func TestSignup_DuplicateEmailIsTyped(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	if _, err := client.SignUp(ctx, "ann@example.com", "hunter2-hunter2"); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	_, err := client.SignUp(ctx, "ann@example.com", "other-password-9")
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if !backend.IsDuplicate(err) {
		t.Errorf("IsDuplicate = false for %v", err)
	}
	if got := backend.UserMessage(err); got != "An account with this email already exists. Try logging in instead." {
		t.Errorf("UserMessage = %q", got)
	}
}

// TestSignIn_WrongPassword verifies bad credentials map to the curated message.
func TestSignIn_WrongPassword(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	if _, err := client.SignUp(ctx, "ann@example.com", "hunter2-hunter2"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	_, err := client.SignInWithPassword(ctx, "ann@example.com", "wrong-password-1")
	if err == nil {
		t.Fatal("expected credentials error")
	}
	if got := backend.UserMessage(err); got != "Invalid email or password." {
		t.Errorf("UserMessage = %q", got)
	}
}

// TestRowAPI_PlanCatalog verifies the seeded catalog comes back through the
// real store implementation with filters, ordering, and JSON features intact.
func TestRowAPI_PlanCatalog(t *testing.T) {
	client, db := newTestBackend(t)
	ctx := context.Background()

	if err := Seed(ctx, db, "admin@example.com", "admin-password-1"); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	store := planStore.NewRESTStore(client)
	plans, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("plans = %d, want 3", len(plans))
	}
	if plans[0].Slug != "tiger-basic" || plans[2].Slug != "tiger-annual" {
		t.Errorf("order = %s, %s, %s", plans[0].Slug, plans[1].Slug, plans[2].Slug)
	}
	if len(plans[1].Features) == 0 {
		t.Errorf("features not decoded: %+v", plans[1])
	}

	pro, err := store.GetBySlug(ctx, "tiger-pro")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if pro.Price != 49 || pro.BillingInterval != "month" {
		t.Errorf("pro = %+v", pro)
	}

	if _, err := store.GetBySlug(ctx, "no-such-plan"); err != planStore.ErrNotFound {
		t.Errorf("missing slug error = %v, want ErrNotFound", err)
	}
}

// TestRowAPI_InsertAndCount verifies inserts default the id and timestamps,
// duplicates are typed, and HEAD counting sees the rows.
func TestRowAPI_InsertAndCount(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	var created []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
	}
	body := map[string]any{
		"name": "Ann Lee", "email": "ann@example.com",
		"message": "Hi there", "interested_in": "trial", "source": "direct",
	}
	if err := client.Insert(ctx, "inquiries", body, &created); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(created) != 1 || created[0].ID == "" || created[0].CreatedAt == "" {
		t.Fatalf("created = %+v", created)
	}

	dup := map[string]any{"id": created[0].ID, "name": "Dup", "email": "d@example.com", "message": "x"}
	err := client.Insert(ctx, "inquiries", dup, nil)
	if err == nil {
		t.Fatal("expected duplicate-row error")
	}
	if !backend.IsDuplicate(err) {
		t.Errorf("IsDuplicate = false for %v", err)
	}

	total, err := client.Count(ctx, "inquiries")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}

	none, err := client.Count(ctx, "inquiries", backend.Eq("email", "nobody@example.com"))
	if err != nil {
		t.Fatalf("Count filtered: %v", err)
	}
	if none != 0 {
		t.Errorf("filtered total = %d, want 0", none)
	}
}

// TestRowAPI_UnknownTable verifies unknown relations are rejected, not
// silently empty.
func TestRowAPI_UnknownTable(t *testing.T) {
	client, _ := newTestBackend(t)

	var rows []map[string]any
	err := client.Select(context.Background(), "secrets", backend.Query{}, &rows)
	if err == nil {
		t.Fatal("expected error for unknown table")
	}
}

// TestSeed_IsIdempotent verifies running the seed twice neither duplicates
// plans nor clobbers the admin account.
func TestSeed_IsIdempotent(t *testing.T) {
	client, db := newTestBackend(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := Seed(ctx, db, "admin@example.com", "admin-password-1"); err != nil {
			t.Fatalf("Seed run %d: %v", i+1, err)
		}
	}

	total, err := client.Count(ctx, "plans")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 3 {
		t.Errorf("plans = %d, want 3", total)
	}

	session, err := client.SignInWithPassword(ctx, "admin@example.com", "admin-password-1")
	if err != nil {
		t.Fatalf("admin sign-in: %v", err)
	}
	var profiles []struct {
		Role string `json:"role"`
	}
	q := backend.Query{Filters: []backend.Filter{backend.Eq("id", session.User.ID)}}
	if err := client.Select(ctx, "profiles", q, &profiles); err != nil {
		t.Fatalf("Select profile: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Role != "admin" {
		t.Errorf("profiles = %+v", profiles)
	}
}
