// Package token reads claims out of access tokens on the client side.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims is the subset of access-token claims the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp claim
	IssuedAt  time.Time // zero when the token carries no iat claim
}

// Parse extracts claims without verifying the signature. The client never
// holds the signing key; the backend remains the authority on validity,
// and these claims are used only for display and refresh scheduling.
func Parse(accessToken string) (*Claims, error) {
	var registered jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, &registered); err != nil {
		return nil, errors.Wrap(err, "[token.Parse] parse access token")
	}

	claims := &Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	return claims, nil
}

// Expired reports whether the token's exp claim has passed at the given
// time. A token without an exp claim never reports expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}
