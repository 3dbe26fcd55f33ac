/*
Package medisdk provides a client SDK for the MediWork medical-visit
scheduling API.

# Overview

The medisdk package implements a bearer-token authenticated client for the
MediWork REST API. It provides both unauthenticated operations (via Client)
and authenticated operations (via Session) with automatic token refresh.

# Client vs Session

The package is organized around two main types:

  - Client: Provides unauthenticated operations (login, register, refresh,
    logout, token validation) and creates authenticated sessions
  - Session: Provides authenticated operations with automatic token refresh

Create a Client to interact with the auth endpoints and establish a session:

	client := medisdk.NewClient("https://medwork.example.com/api")

	// Authenticate to create a session
	session, user, err := client.Login(ctx, medisdk.Credentials{
		Email:    "a@b.com",
		Password: "Valid1!pass",
	})

Use a Session for everything else. Sessions transparently recover from access
token expiry:

	visits, err := session.MyVisits(ctx)
	users, err := session.ListUsers(ctx)

# Automatic Token Refresh

When a request comes back 401 or 403, the session marks the request as
retried, performs a single refresh against POST /auth/refresh, and replays
the request with the new access token. Requests that fail authorization while
a refresh is already in flight join a pending queue instead of starting a
second refresh; once the refresh resolves they are replayed in FIFO order,
each propagating its own outcome. A request is never retried more than once.

If the refresh itself fails the session is torn down: tokens and the user
identity are cleared together and the OnSessionExpired hook fires so the
application can force a re-login.

# Persistence Hooks

The SDK does not persist anything itself. Register hooks to mirror token
state into durable storage:

	session.OnTokenRefresh(func(access, refresh string) { ... })
	session.OnSessionExpired(func(err error) { ... })

# Error Handling

The SDK returns typed errors:

  - *AuthError: failures from the auth endpoints (bad credentials, rejected
    or expired refresh token, transport failure during an auth call)
  - *RequestError: everything else (4xx other than the refreshed 401/403,
    5xx, transport failures on domain calls)

Both carry the backend-provided message where one was returned, suitable for
direct display to a user.

# Session Organization

Session methods are split by API area:

  - session.go: token state, single-flight refresh, pending queue
  - gateway.go: the authenticated request path
  - session_users.go: admin and user-directory operations
  - session_visits.go: visit, doctor and spontaneous-visit operations
  - session_slots.go: concrete and recurring availability slots

# Thread Safety

Sessions are safe for concurrent use. Token state, the refresh in-flight
flag and the pending queue are guarded by a single mutex; at most one
refresh call is ever in flight no matter how many requests fail
authorization concurrently.
*/
package medisdk
