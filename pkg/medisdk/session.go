package medisdk

import (
	"context"
	"net/http"
	"sync"
)

// Session represents an authenticated MediWork session with automatic token
// refresh. All Session methods attach the current access token and
// transparently recover from a single authorization failure per request via
// the refresh protocol described in the package documentation.
type Session struct {
	client *Client

	// mu guards the token state, the refresh in-flight flag and the pending
	// queue. Check-and-set of the flag happens under this lock so that two
	// requests can never both start a refresh.
	mu           sync.Mutex
	accessToken  string
	refreshToken string
	user         UserInfo

	refreshing bool
	queue      []*pendingCall

	onTokens  func(accessToken, refreshToken string)
	onExpired func(err error)
}

// callResult carries the outcome of a replayed request, or just the new
// access token for callers that joined a refresh cycle without a request.
type callResult struct {
	resp  *http.Response
	token string
	err   error
}

// pendingCall is one suspended continuation waiting on the in-flight
// refresh. call is nil for pure token waiters (RefreshAccessToken callers).
type pendingCall struct {
	ctx  context.Context
	call *call
	done chan callResult
}

// OnTokenRefresh registers a hook invoked after every successful refresh
// with the new access token and the current (possibly rotated) refresh
// token. Used to mirror token state into durable storage.
func (s *Session) OnTokenRefresh(fn func(accessToken, refreshToken string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokens = fn
}

// OnSessionExpired registers a hook invoked when a refresh cycle fails and
// the session is torn down. The hook receives the refresh error.
func (s *Session) OnSessionExpired(fn func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = fn
}

// AccessToken returns the current access token. It may already be expired;
// Session methods handle that transparently.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// User returns the identity record of the authenticated account.
func (s *Session) User() UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated reports whether the session still holds a token pair.
// It becomes false after a failed refresh tears the session down.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != "" && s.refreshToken != ""
}

// RefreshAccessToken forces a refresh of the access token and returns the
// new one. If a refresh cycle is already in flight the call joins it instead
// of starting a second one. On failure the session is torn down and an
// *AuthError is returned.
func (s *Session) RefreshAccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.refreshing {
		p := &pendingCall{done: make(chan callResult, 1)}
		s.queue = append(s.queue, p)
		s.mu.Unlock()

		select {
		case res := <-p.done:
			return res.token, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	s.refreshing = true
	s.mu.Unlock()

	token, err := s.refreshNow(ctx)
	s.drainQueue(token, err)
	return token, err
}

// Revoke revokes the session's refresh token server-side via POST
// /auth/logout. It does not clear local state; that is the session
// manager's job.
func (s *Session) Revoke(ctx context.Context) error {
	refreshToken := s.RefreshToken()
	if refreshToken == "" {
		return &AuthError{Message: "no refresh token to revoke"}
	}
	return s.client.Logout(ctx, refreshToken)
}

// refreshNow performs the actual refresh call. The caller must have set the
// refreshing flag. A failure of any kind tears the whole session down so the
// token/user invariant holds even on error paths.
func (s *Session) refreshNow(ctx context.Context) (string, error) {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()

	if refreshToken == "" {
		err := &AuthError{Message: "no refresh token available"}
		s.expire(err)
		return "", err
	}

	s.client.Logger.Debug("refreshing access token")

	resp, err := s.client.Refresh(ctx, refreshToken)
	if err != nil {
		s.expire(err)
		return "", err
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		// Server rotated the refresh token; keep the old one otherwise.
		s.refreshToken = resp.RefreshToken
	}
	access, refresh := s.accessToken, s.refreshToken
	onTokens := s.onTokens
	s.mu.Unlock()

	if onTokens != nil {
		onTokens(access, refresh)
	}
	return access, nil
}

// drainQueue completes one refresh cycle: it atomically takes the pending
// queue and clears the in-flight flag, then resolves each suspended
// continuation in FIFO order. Queued requests are replayed with the new
// token, each propagating its own outcome; on refresh failure every entry is
// rejected with the refresh error.
func (s *Session) drainQueue(token string, refreshErr error) {
	s.mu.Lock()
	pending := s.queue
	s.queue = nil
	s.refreshing = false
	s.mu.Unlock()

	for _, p := range pending {
		switch {
		case refreshErr != nil:
			p.done <- callResult{err: refreshErr}
		case p.call == nil:
			p.done <- callResult{token: token}
		default:
			resp, err := s.send(p.ctx, p.call, token)
			p.done <- callResult{resp: resp, err: err}
		}
	}
}

// expire clears the whole session in one step. Tokens and the user identity
// are never left in a partial state.
func (s *Session) expire(cause error) {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = UserInfo{}
	onExpired := s.onExpired
	s.mu.Unlock()

	s.client.Logger.Warn("session expired", "error", cause)

	if onExpired != nil {
		onExpired(cause)
	}
}
