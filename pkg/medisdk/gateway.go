package medisdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sqli/medwork-client/pkg/idx"
)

// call is a replayable request descriptor. The body is held as bytes so the
// request can be resent after a token refresh; retried marks that the
// refresh-and-retry protocol already ran once for this request.
type call struct {
	method  string
	path    string
	query   url.Values
	body    []byte
	retried bool
	id      idx.ID
}

// do builds a descriptor and runs it through the authenticated request path.
func (s *Session) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	payload any,
) (*http.Response, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	c := &call{
		method: method,
		path:   path,
		query:  query,
		body:   body,
		id:     idx.New(),
	}
	return s.roundTrip(ctx, c)
}

// roundTrip sends a request with the current access token and, on a 401/403
// that has not been retried yet, runs the refresh-and-retry protocol. All
// other failures propagate to the caller untouched.
func (s *Session) roundTrip(ctx context.Context, c *call) (*http.Response, error) {
	resp, err := s.send(ctx, c, s.AccessToken())
	if err != nil {
		return nil, err
	}

	if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) && !c.retried {
		c.retried = true
		drainBody(resp)
		return s.retryAfterRefresh(ctx, c)
	}

	return resp, nil
}

// retryAfterRefresh coordinates the single-flight refresh. Exactly one
// failing request starts the cycle; every other request that fails
// authorization while it is in flight suspends on the pending queue and is
// replayed by the cycle owner once the refresh resolves.
func (s *Session) retryAfterRefresh(ctx context.Context, c *call) (*http.Response, error) {
	s.mu.Lock()
	if s.refreshing {
		p := &pendingCall{ctx: ctx, call: c, done: make(chan callResult, 1)}
		s.queue = append(s.queue, p)
		s.mu.Unlock()

		select {
		case res := <-p.done:
			return res.resp, res.err
		case <-ctx.Done():
			// Caller abandoned the request; the cycle owner's result lands
			// in the buffered channel and is discarded.
			return nil, ctx.Err()
		}
	}
	s.refreshing = true
	s.mu.Unlock()

	s.client.Logger.Debug("authorization failed, starting refresh cycle", "request_id", c.id)

	token, refreshErr := s.refreshNow(ctx)

	var resp *http.Response
	var err error
	if refreshErr != nil {
		err = refreshErr
	} else {
		resp, err = s.send(ctx, c, token)
	}

	s.drainQueue(token, refreshErr)
	return resp, err
}

// send performs one HTTP round trip with the given bearer token. Transport
// failures come back as *RequestError.
func (s *Session) send(ctx context.Context, c *call, token string) (*http.Response, error) {
	endpoint := s.client.BaseURL + c.path
	if len(c.query) > 0 {
		endpoint += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		body = bytes.NewReader(c.body)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", c.id.String())
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, &RequestError{Message: "failed to send request", Err: err}
	}

	return resp, nil
}

// drainBody discards and closes a response body so the underlying
// connection can be reused.
func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
