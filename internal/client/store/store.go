// Package store defines durable storage for the authentication session.
//
// The web client this replaces kept three localStorage keys: "token",
// "refreshToken" and "user". The same three logical keys survive here,
// with one hard rule carried over from them: they are written together and
// cleared together, never individually, so a reader can never observe a
// partial session.
package store

import (
	"context"
	"errors"

	"github.com/sqli/medwork-client/pkg/medisdk"
)

// Storage keys, mirroring the browser client's localStorage layout.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// ErrNoSession reports that no session is persisted. A partially persisted
// session (which should never happen) is reported the same way after the
// remnants are cleared.
var ErrNoSession = errors.New("store: no session persisted")

// Session is the persisted authentication state.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         medisdk.UserInfo
}

// Store is durable session storage.
type Store interface {
	// Load returns the persisted session, or ErrNoSession when there is none.
	Load(ctx context.Context) (Session, error)

	// Save persists a complete session atomically, replacing any previous one.
	Save(ctx context.Context, s Session) error

	// UpdateTokens replaces the token pair of the persisted session, keeping
	// the user record. It fails with ErrNoSession when no session exists, so
	// a refresh can never create a tokens-without-user state.
	UpdateTokens(ctx context.Context, accessToken, refreshToken string) error

	// Clear removes the whole session atomically. Clearing an empty store is
	// not an error.
	Clear(ctx context.Context) error

	Close() error
}
