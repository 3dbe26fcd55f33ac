package medisdk

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sqli/medwork-client/pkg/httpx"
)

// Client is a client for the MediWork API. It provides access to the
// unauthenticated auth endpoints and can create authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a new MediWork API client. baseURL should include the
// /api prefix, e.g. "https://medwork.example.com/api". Outbound requests are
// throttled with the default client rate limit.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: httpx.NewThrottledTransport(httpx.ClientLimit, nil),
		},
		Logger: slog.Default(),
	}
}

// NewSession creates an authenticated session from a login response.
func (c *Client) NewSession(login *LoginResponse) *Session {
	return c.ResumeSession(login.AccessToken, login.RefreshToken, login.UserInfo())
}

// ResumeSession rebuilds an authenticated session from previously persisted
// state (e.g. tokens restored from the session store at startup). The
// session behaves identically to a freshly logged-in one, including
// automatic refresh.
func (c *Client) ResumeSession(accessToken, refreshToken string, user UserInfo) *Session {
	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		user:         user,
	}
}
