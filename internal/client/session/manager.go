// Package session owns the authentication state of the client: the single
// source of truth for who is logged in, backed by durable storage so a
// session survives process restarts.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sqli/medwork-client/internal/client/store"
	"github.com/sqli/medwork-client/pkg/medisdk"
)

// DefaultCheckInterval is how often the background watcher inspects the
// access token for expiry.
const DefaultCheckInterval = 60 * time.Second

// ErrNotAuthenticated is returned by operations that need a live session
// when there is none.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// Manager is the session store service. It mediates between the SDK (which
// holds in-memory token state) and durable storage (which must always hold
// either a complete session or nothing), and runs the background expiry
// watcher.
type Manager struct {
	client *medisdk.Client
	store  store.Store
	logger *slog.Logger

	interval time.Duration

	mu   sync.Mutex
	sess *medisdk.Session

	onExpired func(err error)

	// Watcher lifecycle, guarded by mu.
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewManager creates a session manager. interval <= 0 selects
// DefaultCheckInterval.
func NewManager(client *medisdk.Client, st store.Store, logger *slog.Logger, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Manager{
		client:   client,
		store:    st,
		logger:   logger,
		interval: interval,
	}
}

// OnSessionExpired registers an application hook fired when a refresh cycle
// fails and the session is forcibly torn down. The CLI uses it to tell the
// user to log in again; a long-lived UI would redirect to its login view.
func (m *Manager) OnSessionExpired(fn func(err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpired = fn
}

// Session returns the live session, or nil when not authenticated.
func (m *Manager) Session() *medisdk.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// CurrentUser returns the identity of the logged-in user, or nil.
func (m *Manager) CurrentUser() *medisdk.UserInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil
	}
	user := m.sess.User()
	return &user
}

// Restore rebuilds the session from durable storage at startup. Returns
// (nil, nil) when no session is persisted.
func (m *Manager) Restore(ctx context.Context) (*medisdk.UserInfo, error) {
	persisted, err := m.store.Load(ctx)
	if errors.Is(err, store.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess := m.client.ResumeSession(persisted.AccessToken, persisted.RefreshToken, persisted.User)
	m.adopt(sess)

	m.logger.Debug("session restored", "email", persisted.User.Email, "role", persisted.User.Role)
	user := persisted.User
	return &user, nil
}

// Login authenticates against POST /auth/login, persists the complete
// session (tokens plus user, atomically) and makes it current. On failure
// nothing changes and the *medisdk.AuthError carries a displayable message.
func (m *Manager) Login(ctx context.Context, creds medisdk.Credentials) (*medisdk.UserInfo, error) {
	sess, login, err := m.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	user := login.UserInfo()
	if err := m.store.Save(ctx, store.Session{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
		User:         user,
	}); err != nil {
		return nil, err
	}

	m.adopt(sess)

	m.logger.Info("logged in", "email", user.Email, "role", user.Role)
	return &user, nil
}

// Register creates a new pending-role account. It never establishes a
// session; the caller logs in separately once registration succeeds.
func (m *Manager) Register(ctx context.Context, req medisdk.RegisterRequest) (*medisdk.RegisterResponse, error) {
	return m.client.Register(ctx, req)
}

// Logout ends the session. The server-side revoke is best effort: a failure
// is logged and swallowed, local state is cleared no matter what. Logging
// out without a session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	sess := m.sess
	m.sess = nil
	m.mu.Unlock()

	if sess != nil {
		if err := sess.Revoke(ctx); err != nil {
			m.logger.Warn("server-side logout failed, clearing local session anyway", "error", err)
		}
	}

	if err := m.store.Clear(ctx); err != nil {
		return err
	}

	m.logger.Info("logged out")
	return nil
}

// RefreshAccessToken forces a token refresh on the live session. A failed
// refresh tears the session down (the SDK hook clears durable storage and
// fires OnSessionExpired).
func (m *Manager) RefreshAccessToken(ctx context.Context) (string, error) {
	sess := m.Session()
	if sess == nil {
		return "", ErrNotAuthenticated
	}
	return sess.RefreshAccessToken(ctx)
}

// adopt installs a session and wires its persistence and teardown hooks.
func (m *Manager) adopt(sess *medisdk.Session) {
	sess.OnTokenRefresh(func(accessToken, refreshToken string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.store.UpdateTokens(ctx, accessToken, refreshToken); err != nil {
			m.logger.Error("failed to persist refreshed tokens", "error", err)
		}
	})

	sess.OnSessionExpired(func(cause error) {
		m.teardown(sess, cause)
	})

	m.mu.Lock()
	m.sess = sess
	m.mu.Unlock()
}

// teardown clears every trace of the session after a failed refresh, then
// notifies the application. Durable storage and in-memory state go
// together; there is no partial outcome. A stale session expiring after a
// re-login must not take the new session with it.
func (m *Manager) teardown(expired *medisdk.Session, cause error) {
	m.mu.Lock()
	if m.sess != expired {
		m.mu.Unlock()
		return
	}
	m.sess = nil
	onExpired := m.onExpired
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("failed to clear session storage", "error", err)
	}

	if onExpired != nil {
		onExpired(cause)
	}
}
