package medisdk

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ============================================================================
// Error Taxonomy
// ============================================================================

// AuthError represents a failure from an auth endpoint: rejected credentials,
// an invalid or expired refresh token, or a transport failure during an auth
// call. Message is safe to show to a user.
type AuthError struct {
	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Message is the backend-provided error message where one was returned,
	// otherwise a generic description of the failure.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("auth failed (%d): %s", e.StatusCode, e.Message)
	}
	return "auth failed: " + e.Message
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *AuthError) Unwrap() error { return e.Err }

// RequestError represents any non-auth failure on a domain call: a 4xx the
// gateway does not recover from, a 5xx, or a transport error. The gateway
// propagates these unchanged; translating them into user-facing messages is
// the caller's job.
type RequestError struct {
	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Message is the backend-provided error message, or the raw response
	// body when the backend did not return structured JSON.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
	}
	return "request failed: " + e.Message
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *RequestError) Unwrap() error { return e.Err }

// ============================================================================
// Backend Error Parsing
// ============================================================================

// apiErrorBody is the error shape emitted by the backend's global exception
// handler. Older endpoints return a bare string body instead.
type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorMessage extracts a displayable message from an error response body.
func errorMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return "unexpected error"
}

// newRequestError builds a RequestError from a non-success domain response.
func newRequestError(statusCode int, body []byte) *RequestError {
	return &RequestError{StatusCode: statusCode, Message: errorMessage(body)}
}

// newAuthError builds an AuthError from a non-success auth-endpoint response.
func newAuthError(statusCode int, body []byte) *AuthError {
	return &AuthError{StatusCode: statusCode, Message: errorMessage(body)}
}
