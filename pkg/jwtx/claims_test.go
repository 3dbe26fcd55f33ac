package jwtx_test

import (
	"testing"
	"time"

	"github.com/sqli/medwork-client/pkg/jwtx"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	return signedToken(t, jwt.RegisteredClaims{
		Subject:   "jane@example.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
}

func TestExpiryTime(t *testing.T) {
	t.Parallel()

	t.Run("decodes exp without verifying", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		got, err := jwtx.ExpiryTime(tokenExpiringAt(t, exp))
		require.NoError(t, err)
		require.True(t, got.Equal(exp))
	})

	t.Run("no exp claim", func(t *testing.T) {
		token := signedToken(t, jwt.RegisteredClaims{Subject: "jane@example.com"})
		_, err := jwtx.ExpiryTime(token)
		require.ErrorIs(t, err, jwtx.ErrNoExpiry)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := jwtx.ExpiryTime("not-a-jwt")
		require.Error(t, err)
	})
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	t.Run("empty token", func(t *testing.T) {
		require.True(t, jwtx.IsExpired(""))
	})

	t.Run("malformed token", func(t *testing.T) {
		require.True(t, jwtx.IsExpired("garbage"))
	})

	t.Run("structurally valid but undecodable", func(t *testing.T) {
		require.True(t, jwtx.IsExpired("aGVsbG8.d29ybGQ.c2lnbmF0dXJl"))
	})

	t.Run("no exp claim", func(t *testing.T) {
		token := signedToken(t, jwt.RegisteredClaims{Subject: "jane@example.com"})
		require.True(t, jwtx.IsExpired(token))
	})

	t.Run("expired token", func(t *testing.T) {
		require.True(t, jwtx.IsExpired(tokenExpiringAt(t, time.Now().Add(-time.Hour))))
	})

	t.Run("expiring within the skew window", func(t *testing.T) {
		require.True(t, jwtx.IsExpired(tokenExpiringAt(t, time.Now().Add(jwtx.ExpirySkew/2))))
	})

	t.Run("valid token", func(t *testing.T) {
		require.False(t, jwtx.IsExpired(tokenExpiringAt(t, time.Now().Add(time.Hour))))
	})
}
