package backend

import (
	"context"
	"net/http"
)

// Identity is the raw authentication identity held by the hosted backend,
// distinct from the application-level Profile row keyed by its ID.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthSession is the result of a successful signup or sign-in.
type AuthSession struct {
	AccessToken string   `json:"access_token"`
	User        Identity `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates a new authentication identity from email and password.
// PRE: email and password are non-empty; password policy is enforced upstream
// POST: Returns the new identity and its session token, or a typed *Error
// (IsDuplicate reports a reproducible duplicate-email failure)
func (c *Client) SignUp(ctx context.Context, email, password string) (AuthSession, error) {
	return c.authRequest(ctx, c.baseURL+"/auth/v1/signup", credentials{Email: email, Password: password})
}

// SignInWithPassword exchanges credentials for a session.
// PRE: email and password are non-empty
// POST: Returns a session whose token carries the user's row-level identity
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (AuthSession, error) {
	return c.authRequest(ctx, c.baseURL+"/auth/v1/token?grant_type=password", credentials{Email: email, Password: password})
}

// User resolves the identity behind the access token on ctx.
// PRE: ctx carries a token via WithToken
// POST: Returns the identity, or an unauthorized *Error for stale tokens
func (c *Client) User(ctx context.Context) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Identity{}, err
	}
	var ident Identity
	if err := c.do(req, nil, &ident); err != nil {
		return Identity{}, err
	}
	return ident, nil
}

func (c *Client) authRequest(ctx context.Context, target string, body credentials) (AuthSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return AuthSession{}, err
	}
	var sess AuthSession
	if err := c.do(req, body, &sess); err != nil {
		return AuthSession{}, err
	}
	return sess, nil
}
