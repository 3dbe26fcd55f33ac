package medisdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doJSON performs an unauthenticated JSON request against an auth endpoint.
// Failures come back as *AuthError so they can be shown to the user.
func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	query url.Values,
	payload, target any,
	expectedStatus int,
) error {
	endpoint := c.url(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &AuthError{Message: "failed to reach the authentication service", Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode != expectedStatus {
		return newAuthError(resp.StatusCode, bodyBytes)
	}

	if target != nil {
		if err := json.Unmarshal(bodyBytes, target); err != nil {
			return &AuthError{Message: "failed to decode response", Err: err}
		}
	}
	return nil
}

// decodeJSON decodes an authenticated response into target. A nil target
// only checks the status. Non-success statuses come back as *RequestError.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode != expectedStatus {
		return newRequestError(resp.StatusCode, bodyBytes)
	}

	if target != nil {
		if err := json.Unmarshal(bodyBytes, target); err != nil {
			return &RequestError{Message: "failed to decode response", Err: err}
		}
	}
	return nil
}

// getJSON runs an authenticated GET and decodes the 200 response.
func (s *Session) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	resp, err := s.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}

// postJSON runs an authenticated POST and decodes the response.
func (s *Session) postJSON(ctx context.Context, path string, payload, target any, expectedStatus int) error {
	resp, err := s.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}

// putJSON runs an authenticated PUT and decodes the 200 response.
func (s *Session) putJSON(ctx context.Context, path string, query url.Values, payload, target any) error {
	resp, err := s.do(ctx, http.MethodPut, path, query, payload)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}

// patchJSON runs an authenticated PATCH and decodes the 200 response.
func (s *Session) patchJSON(ctx context.Context, path string, payload, target any) error {
	resp, err := s.do(ctx, http.MethodPatch, path, nil, payload)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}

// deleteJSON runs an authenticated DELETE and checks the expected status.
func (s *Session) deleteJSON(ctx context.Context, path string, target any, expectedStatus int) error {
	resp, err := s.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}
