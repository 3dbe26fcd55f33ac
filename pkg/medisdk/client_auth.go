package medisdk

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges credentials for a token pair via POST /auth/login and
// returns an authenticated session together with the user identity. On
// failure (rejected credentials, transport error) an *AuthError is returned
// and no session is created.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Session, *LoginResponse, error) {
	var login LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, creds, &login, http.StatusOK); err != nil {
		return nil, nil, err
	}
	return c.NewSession(&login), &login, nil
}

// Register creates a new account via POST /auth/register. The account starts
// with the PENDING role until an administrator assigns a real one.
// Registration does not establish a session; callers log in separately.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var created RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, req, &created, http.StatusOK); err != nil {
		return nil, err
	}
	return &created, nil
}

// Refresh exchanges a refresh token for a new access token (and possibly a
// rotated refresh token) via POST /auth/refresh.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	payload := map[string]string{"refreshToken": refreshToken}

	var refreshed RefreshResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", nil, payload, &refreshed, http.StatusOK); err != nil {
		return nil, err
	}
	return &refreshed, nil
}

// Logout revokes a refresh token server-side via POST /auth/logout.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	payload := map[string]string{"refreshToken": refreshToken}
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, payload, nil, http.StatusOK)
}

// LogoutAll revokes every refresh token issued to the account that owns the
// given one, logging the user out of all devices.
func (c *Client) LogoutAll(ctx context.Context, refreshToken string) error {
	query := url.Values{"refreshToken": {refreshToken}}
	return c.doJSON(ctx, http.MethodPost, "/auth/logout-all", query, nil, nil, http.StatusOK)
}

// ValidateToken checks whether a refresh token is still accepted by the
// server via GET /auth/validate-token. A rejected or unreachable check
// reports false; the error carries the reason.
func (c *Client) ValidateToken(ctx context.Context, refreshToken string) (bool, error) {
	query := url.Values{"refreshToken": {refreshToken}}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/validate-token", query, nil, nil, http.StatusOK); err != nil {
		return false, err
	}
	return true, nil
}
