package devbackend

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// writeAuthError emits an error in the auth API's body shape.
func writeAuthError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":       status,
		"error_code": code,
		"msg":        msg,
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeAuthError(w, http.StatusBadRequest, "bad_json", "request body is not valid JSON")
		return
	}
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if creds.Email == "" || creds.Password == "" {
		writeAuthError(w, http.StatusBadRequest, "validation_failed", "email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		writeAuthError(w, http.StatusInternalServerError, "unexpected_failure", err.Error())
		return
	}

	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(r.Context(),
		`INSERT INTO auth_users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, creds.Email, string(hash), now)
	if err != nil {
		if isUniqueViolation(err) {
			writeAuthError(w, http.StatusUnprocessableEntity, "user_already_exists", "User already registered")
			return
		}
		writeAuthError(w, http.StatusInternalServerError, "unexpected_failure", err.Error())
		return
	}

	slog.Info("devbackend", "event", "user_created", "user_id", id)
	s.issueSession(w, identity{ID: id, Email: creds.Email})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		writeAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "only grant_type=password is supported")
		return
	}
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeAuthError(w, http.StatusBadRequest, "bad_json", "request body is not valid JSON")
		return
	}
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))

	var id, hash string
	err := s.db.QueryRowContext(r.Context(),
		`SELECT id, password_hash FROM auth_users WHERE email = ?`, creds.Email).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		writeAuthError(w, http.StatusBadRequest, "invalid_credentials", "Invalid login credentials")
		return
	}
	if err != nil {
		writeAuthError(w, http.StatusInternalServerError, "unexpected_failure", err.Error())
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
		writeAuthError(w, http.StatusBadRequest, "invalid_credentials", "Invalid login credentials")
		return
	}

	s.issueSession(w, identity{ID: id, Email: creds.Email})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	ident, ok := s.identityFromRequest(r)
	if !ok {
		writeAuthError(w, http.StatusUnauthorized, "bad_jwt", "invalid or expired token")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(userResponse{ID: ident.ID, Email: ident.Email})
}

// issueSession mints an opaque token, registers it and writes the session body.
func (s *Server) issueSession(w http.ResponseWriter, ident identity) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		writeAuthError(w, http.StatusInternalServerError, "unexpected_failure", err.Error())
		return
	}
	token := hex.EncodeToString(raw)

	s.mu.Lock()
	s.tokens[token] = ident
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sessionResponse{
		AccessToken: token,
		User:        userResponse{ID: ident.ID, Email: ident.Email},
	})
}

// identityFromRequest resolves the Bearer token, if it names a live session.
func (s *Server) identityFromRequest(r *http.Request) (identity, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return identity{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ident, ok := s.tokens[token]
	return ident, ok
}

// isUniqueViolation matches the driver's UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
