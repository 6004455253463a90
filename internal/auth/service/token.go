package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/store"
	"github.com/covenhall/arcana/pkg/cryptox"
	"github.com/covenhall/arcana/pkg/jwtx"
	"github.com/covenhall/arcana/pkg/slogx"
)

var (
	ErrInvalidClient = errors.New("invalid_client")
	ErrInvalidScope  = errors.New("invalid_scope")
)

// TokenService mints and verifies client access tokens. Clients are
// machine callers (backend services, trusted frontends) that
// authenticate with an ID and secret; the tokens they receive carry
// the app-level scopes under which every request is evaluated.
type TokenService struct {
	Signer   *jwtx.Signer
	Verifier *jwtx.Verifier
	Store    store.Store
	Issuer   string

	// DefaultTTL applies when a client row carries no token lifetime.
	DefaultTTL time.Duration
}

// MintClientToken implements the client_credentials grant.
//
// The secret is verified against the stored argon2id hash. Requested
// scopes must all fall inside the client's allowed set; an empty
// request grants everything the client is allowed.
func (s *TokenService) MintClientToken(
	ctx context.Context,
	clientID, clientSecret string,
	requestedScopes []string,
) (*domain.ClientToken, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidClient
		}
		return nil, err
	}

	if !client.IsActive {
		l.Info("token mint attempted by disabled client", "client_id", clientID)
		return nil, ErrInvalidClient
	}

	if err := cryptox.VerifySecret(clientSecret, client.SecretHash); err != nil {
		l.Info("client secret verification failed", "client_id", clientID)
		return nil, ErrInvalidClient
	}

	// Empty request grants the full allowed set; anything requested
	// outside it (or malformed) rejects the whole request rather than
	// silently narrowing.
	effective := client.AllowedScopes
	if len(requestedScopes) > 0 {
		for _, scope := range requestedScopes {
			if !validScopeName(scope) {
				return nil, ErrInvalidScope
			}
			if !containsScope(client.AllowedScopes, scope) {
				return nil, ErrInvalidScope
			}
		}
		effective = dedupe(requestedScopes)
	}
	if len(effective) == 0 {
		return nil, ErrInvalidScope
	}

	ttl := client.TokenExpiresIn
	if ttl <= 0 {
		ttl = s.DefaultTTL
	}

	claims := jwtx.NewClientClaims(client.ID, effective, ttl, s.Issuer, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign client token", "error", err)
		return nil, err
	}

	// Best effort; a failed touch never blocks the mint.
	if err := s.Store.Clients().TouchClientLastUsed(ctx, client.ID, now); err != nil {
		l.Warn("failed to touch client last_used_at", "client_id", client.ID, "error", err)
	}

	return &domain.ClientToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   ttl,
		Scope:       strings.Join(effective, " "),
	}, nil
}

// Verify parses and validates a client bearer token, returning its
// claims. Signature, expiry, and issuer failures all collapse to the
// verifier's sentinels.
func (s *TokenService) Verify(tokenString string) (jwtx.Claims, error) {
	return s.Verifier.Verify(tokenString)
}

// validScopeName restricts scope identifiers to lowercase
// alphanumerics and underscores.
func validScopeName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

func containsScope(scopes []string, scope string) bool {
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
