package session_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sqli/medwork-client/internal/client/session"
	"github.com/sqli/medwork-client/internal/client/store"
	"github.com/sqli/medwork-client/pkg/medisdk"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory store.Store for exercising the manager without a
// database.
type memStore struct {
	mu   sync.Mutex
	sess *store.Session
}

func (m *memStore) Load(ctx context.Context) (store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return store.Session{}, store.ErrNoSession
	}
	return *m.sess, nil
}

func (m *memStore) Save(ctx context.Context, sess store.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = &sess
	return nil
}

func (m *memStore) UpdateTokens(ctx context.Context, accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return store.ErrNoSession
	}
	m.sess.AccessToken = accessToken
	m.sess.RefreshToken = refreshToken
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) snapshot() *store.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil
	}
	copied := *m.sess
	return &copied
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func accessTokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "jane@example.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newManager(t *testing.T, srvURL string, st store.Store, interval time.Duration) *session.Manager {
	t.Helper()
	client := medisdk.NewClient(srvURL)
	client.Logger = testLogger()
	return session.NewManager(client, st, testLogger(), interval)
}

func TestLoginPersistsWholeSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		writeJSON(w, http.StatusOK, medisdk.LoginResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			Email:        "jane@example.com",
			FullName:     "Jane Doe",
			Role:         medisdk.RoleRH,
		})
	}))
	defer srv.Close()

	st := &memStore{}
	mgr := newManager(t, srv.URL, st, 0)

	user, err := mgr.Login(context.Background(), medisdk.Credentials{Email: "jane@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, medisdk.RoleRH, user.Role)

	persisted := st.snapshot()
	require.NotNil(t, persisted)
	require.Equal(t, "access-1", persisted.AccessToken)
	require.Equal(t, "refresh-1", persisted.RefreshToken)
	require.Equal(t, "jane@example.com", persisted.User.Email)

	require.NotNil(t, mgr.Session())
	require.Equal(t, user, mgr.CurrentUser())
}

func TestLoginFailureLeavesNoState(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
	}))
	defer srv.Close()

	st := &memStore{}
	mgr := newManager(t, srv.URL, st, 0)

	_, err := mgr.Login(context.Background(), medisdk.Credentials{Email: "jane@example.com", Password: "bad"})
	var authErr *medisdk.AuthError
	require.ErrorAs(t, err, &authErr)

	require.Nil(t, st.snapshot())
	require.Nil(t, mgr.Session())
	require.Nil(t, mgr.CurrentUser())
}

func TestRestore(t *testing.T) {
	t.Parallel()

	t.Run("empty store", func(t *testing.T) {
		mgr := newManager(t, "http://127.0.0.1:0", &memStore{}, 0)
		user, err := mgr.Restore(context.Background())
		require.NoError(t, err)
		require.Nil(t, user)
		require.Nil(t, mgr.Session())
	})

	t.Run("persisted session", func(t *testing.T) {
		st := &memStore{}
		require.NoError(t, st.Save(context.Background(), store.Session{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			User:         medisdk.UserInfo{Email: "jane@example.com", FullName: "Jane Doe", Role: medisdk.RoleDoctor},
		}))

		mgr := newManager(t, "http://127.0.0.1:0", st, 0)
		user, err := mgr.Restore(context.Background())
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, medisdk.RoleDoctor, user.Role)

		sess := mgr.Session()
		require.NotNil(t, sess)
		require.Equal(t, "access-1", sess.AccessToken())
		require.Equal(t, "refresh-1", sess.RefreshToken())
	})
}

func TestLogoutClearsStateEvenWhenRevokeFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	}))
	defer srv.Close()

	st := &memStore{}
	require.NoError(t, st.Save(context.Background(), store.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         medisdk.UserInfo{Email: "jane@example.com"},
	}))

	mgr := newManager(t, srv.URL, st, 0)
	_, err := mgr.Restore(context.Background())
	require.NoError(t, err)

	require.NoError(t, mgr.Logout(context.Background()))
	require.Nil(t, st.snapshot())
	require.Nil(t, mgr.Session())
}

func TestLogoutWithoutSession(t *testing.T) {
	t.Parallel()

	st := &memStore{}
	mgr := newManager(t, "http://127.0.0.1:0", st, 0)

	require.NoError(t, mgr.Logout(context.Background()))
	require.Nil(t, st.snapshot())
}

func TestRefreshPersistsRotatedTokens(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		writeJSON(w, http.StatusOK, medisdk.RefreshResponse{
			AccessToken:  "access-2",
			RefreshToken: "refresh-2",
		})
	}))
	defer srv.Close()

	st := &memStore{}
	require.NoError(t, st.Save(context.Background(), store.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         medisdk.UserInfo{Email: "jane@example.com"},
	}))

	mgr := newManager(t, srv.URL, st, 0)
	_, err := mgr.Restore(context.Background())
	require.NoError(t, err)

	token, err := mgr.RefreshAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "access-2", token)

	persisted := st.snapshot()
	require.NotNil(t, persisted)
	require.Equal(t, "access-2", persisted.AccessToken)
	require.Equal(t, "refresh-2", persisted.RefreshToken)
	require.Equal(t, "jane@example.com", persisted.User.Email)
}

func TestRefreshWithoutSession(t *testing.T) {
	t.Parallel()

	mgr := newManager(t, "http://127.0.0.1:0", &memStore{}, 0)
	_, err := mgr.RefreshAccessToken(context.Background())
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestRefreshFailureTearsSessionDown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid refresh token"})
	}))
	defer srv.Close()

	st := &memStore{}
	require.NoError(t, st.Save(context.Background(), store.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         medisdk.UserInfo{Email: "jane@example.com"},
	}))

	mgr := newManager(t, srv.URL, st, 0)
	var expired atomic.Int32
	var cause error
	mgr.OnSessionExpired(func(err error) {
		expired.Add(1)
		cause = err
	})

	_, err := mgr.Restore(context.Background())
	require.NoError(t, err)

	_, err = mgr.RefreshAccessToken(context.Background())
	var authErr *medisdk.AuthError
	require.ErrorAs(t, err, &authErr)

	require.Equal(t, int32(1), expired.Load())
	require.Error(t, cause)
	require.Nil(t, st.snapshot(), "durable storage cleared with the in-memory state")
	require.Nil(t, mgr.Session())
	require.Nil(t, mgr.CurrentUser())
}

func TestWatcherRefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	freshAccess := accessTokenExpiringAt(t, time.Now().Add(time.Hour))

	var refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, medisdk.RefreshResponse{AccessToken: freshAccess})
	}))
	defer srv.Close()

	st := &memStore{}
	require.NoError(t, st.Save(context.Background(), store.Session{
		AccessToken:  accessTokenExpiringAt(t, time.Now().Add(-time.Minute)),
		RefreshToken: "refresh-1",
		User:         medisdk.UserInfo{Email: "jane@example.com"},
	}))

	mgr := newManager(t, srv.URL, st, 20*time.Millisecond)
	_, err := mgr.Restore(context.Background())
	require.NoError(t, err)

	mgr.StartWatcher()
	defer mgr.StopWatcher()

	require.Eventually(t, func() bool {
		persisted := st.snapshot()
		return persisted != nil && persisted.AccessToken == freshAccess
	}, 5*time.Second, 10*time.Millisecond, "watcher refreshes the expired token")

	// The fresh token is nowhere near expiry, so the watcher settles.
	calls := refreshCalls.Load()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, calls, refreshCalls.Load())
}

func TestWatcherStartStopIdempotent(t *testing.T) {
	t.Parallel()

	mgr := newManager(t, "http://127.0.0.1:0", &memStore{}, time.Hour)

	mgr.StartWatcher()
	mgr.StartWatcher()
	mgr.StopWatcher()
	mgr.StopWatcher()
}
