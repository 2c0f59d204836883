package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Configuration errors, reported at startup before any request is made.
var (
	ErrMissingURL = errors.New("backend: service URL is required")
	ErrMissingKey = errors.New("backend: anon key is required")
)

// Config carries the two secrets the hosted backend is configured with.
type Config struct {
	BaseURL    string
	AnonKey    string
	HTTPClient *http.Client
}

// Client is the single configured handle to the hosted backend. It exposes
// authentication and row CRUD; all other packages go through it.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// New validates the configuration and returns a ready client.
// PRE: cfg.BaseURL and cfg.AnonKey are non-empty
// POST: Returns a client, or a descriptive error so startup can fail fast
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrMissingURL
	}
	if strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, ErrMissingKey
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: httpClient,
	}, nil
}

// Error is a failure reported by the hosted backend. Raw messages are for
// logs; user-facing text comes from UserMessage.
type Error struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("backend: %d %s: %s", e.Status, e.Code, e.Message)
}

// Well-known error codes from the auth and row APIs.
const (
	CodeUserExists         = "user_already_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeDuplicateRow       = "23505" // unique_violation
)

// IsDuplicate reports whether err is a duplicate-identity or duplicate-row error.
func IsDuplicate(err error) bool {
	var be *Error
	if !errors.As(err, &be) {
		return false
	}
	return be.Code == CodeUserExists || be.Code == CodeDuplicateRow || be.Status == http.StatusConflict
}

// IsUnauthorized reports whether err is an authentication/authorization rejection.
func IsUnauthorized(err error) bool {
	var be *Error
	if !errors.As(err, &be) {
		return false
	}
	return be.Status == http.StatusUnauthorized || be.Status == http.StatusForbidden
}

// UserMessage maps a backend failure to a curated, user-safe message. The
// backend's own messages never reach the page.
func UserMessage(err error) string {
	var be *Error
	if errors.As(err, &be) {
		switch {
		case be.Code == CodeUserExists, be.Status == http.StatusConflict:
			return "An account with this email already exists. Try logging in instead."
		case be.Code == CodeInvalidCredentials, be.Status == http.StatusUnauthorized:
			return "Invalid email or password."
		}
	}
	return "Something went wrong. Please try again."
}

// contextKey is an unexported type for context keys in this package.
type contextKey string

const tokenContextKey contextKey = "access_token"

// WithToken returns a context carrying a user access token. Requests made
// with it run under that user's row-level authorization instead of the
// anonymous role.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext extracts the user access token, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok && token != ""
}

// Filter is a single equality-style predicate on a row query.
type Filter struct {
	Column string
	Op     string // "eq" unless stated otherwise
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: "eq", Value: value}
}

// Query carries row-query parameters: filters, ordering, and a row limit.
type Query struct {
	Select  string // column list, defaults to "*"
	Filters []Filter
	Order   string // order column; empty means backend default
	Desc    bool
	Limit   int
}

// encode renders the query as REST query parameters.
func (q Query) encode() url.Values {
	values := url.Values{}
	sel := q.Select
	if sel == "" {
		sel = "*"
	}
	values.Set("select", sel)
	for _, f := range q.Filters {
		op := f.Op
		if op == "" {
			op = "eq"
		}
		values.Set(f.Column, op+"."+f.Value)
	}
	if q.Order != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		values.Set("order", q.Order+"."+dir)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// Select fetches rows from a table into dest (a pointer to a slice).
// PRE: table is non-empty; dest is a pointer to a JSON-decodable slice
// POST: dest holds the matching rows
func (c *Client) Select(ctx context.Context, table string, q Query, dest any) error {
	target := c.baseURL + "/rest/v1/" + table + "?" + q.encode().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil, dest)
}

// Insert writes one row into a table. When dest is non-nil the created
// representation is decoded into it.
// PRE: body marshals to the table's column set
// POST: Row is created, or a typed *Error is returned
func (c *Client) Insert(ctx context.Context, table string, body any, dest any) error {
	target := c.baseURL + "/rest/v1/" + table
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return err
	}
	if dest != nil {
		req.Header.Set("Prefer", "return=representation")
	} else {
		req.Header.Set("Prefer", "return=minimal")
	}
	return c.do(req, body, dest)
}

// Count returns the exact number of rows matching the filters.
// PRE: table is non-empty
// POST: Returns count >= 0
func (c *Client) Count(ctx context.Context, table string, filters ...Filter) (int, error) {
	q := Query{Filters: filters}
	target := c.baseURL + "/rest/v1/" + table + "?" + q.encode().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.send(req, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return 0, &Error{Status: resp.StatusCode, Message: resp.Status}
	}
	return parseContentRangeTotal(resp.Header.Get("Content-Range"))
}

// parseContentRangeTotal extracts the total from a "0-9/42" style header.
func parseContentRangeTotal(header string) (int, error) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 || idx == len(header)-1 {
		return 0, fmt.Errorf("backend: malformed Content-Range %q", header)
	}
	total := header[idx+1:]
	if total == "*" {
		return 0, nil
	}
	return strconv.Atoi(total)
}

// do sends the request with auth headers, decodes errors into *Error and the
// body into dest when provided.
func (c *Client) do(req *http.Request, body any, dest any) error {
	resp, err := c.send(req, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, raw)
	}
	if dest == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// send attaches the apikey and bearer headers and executes the request.
func (c *Client) send(req *http.Request, body any) (*http.Response, error) {
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(payload))
		req.ContentLength = int64(len(payload))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", c.anonKey)
	token := c.anonKey
	if t, ok := TokenFromContext(req.Context()); ok {
		token = t
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.httpClient.Do(req)
}

// decodeError turns an error response body into a typed *Error. The body
// shape varies between the auth and row APIs, so both are tried.
func decodeError(status int, raw []byte) error {
	var payload struct {
		Code      any    `json:"code"` // string on row errors, number on auth errors
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
		Msg       string `json:"msg"`
	}
	be := &Error{Status: status}
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch code := payload.Code.(type) {
		case string:
			be.Code = code
		}
		if payload.ErrorCode != "" {
			be.Code = payload.ErrorCode
		}
		be.Message = payload.Message
		if be.Message == "" {
			be.Message = payload.Msg
		}
	}
	if be.Message == "" {
		be.Message = strings.TrimSpace(string(raw))
	}
	return be
}
