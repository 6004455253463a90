// Package jwtx signs and verifies the stateless client bearer tokens.
// Tokens are EdDSA (Ed25519) JWTs; nothing about them is persisted
// server-side, so verification is signature + expiry only.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultClientTokenTTL is a sensible default lifetime for client access
// tokens when a client has no explicit expiry configured.
const DefaultClientTokenTTL = time.Hour

// Claims are the application-token claims. The subject is the client ID;
// scopes are the granted application scopes, always a subset of the client's
// allowed set at mint time.
type Claims struct {
	jwt.RegisteredClaims

	// Scopes are granted application scopes, e.g. ["read", "write"].
	Scopes []string `json:"scopes,omitempty"`
}

// NewClientClaims builds the claims for a freshly minted client token.
func NewClientClaims(
	clientID string,
	scopes []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	if ttl <= 0 {
		ttl = DefaultClientTokenTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
		Scopes: scopes,
	}
}

// ClientID returns the client that the token was minted for.
func (c *Claims) ClientID() string { return c.Subject }

// HasScope reports exact string membership of scope in the granted set.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
