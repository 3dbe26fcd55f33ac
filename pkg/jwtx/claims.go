// Package jwtx provides client-side inspection of access tokens.
//
// The client never verifies signatures; that is the server's job. It only
// decodes the expiry claim to decide whether a token is worth sending. Any
// token that cannot be decoded is treated as expired (fail-closed), so a
// garbage token costs one refresh rather than a guaranteed 401.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpirySkew is subtracted from the expiry claim so tokens are treated as
// expired slightly before they actually are, avoiding requests that die
// in flight.
const ExpirySkew = 30 * time.Second

// ErrNoExpiry reports a token that decodes fine but carries no exp claim.
var ErrNoExpiry = errors.New("jwtx: token has no expiry claim")

// parser never validates claims or signatures; decoding is all we do here.
var parser = jwt.NewParser()

// ExpiryTime decodes the exp claim of a JWT without verifying its
// signature. Malformed tokens and tokens without an exp claim return an
// error.
func ExpiryTime(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token is expired or will be within
// ExpirySkew. Missing, empty and malformed tokens are expired by
// definition.
func IsExpired(token string) bool {
	return isExpiredAt(token, time.Now())
}

// isExpiredAt is the testable core of IsExpired.
func isExpiredAt(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	exp, err := ExpiryTime(token)
	if err != nil {
		return true
	}
	return !now.Before(exp.Add(-ExpirySkew))
}
