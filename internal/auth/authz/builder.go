package authz

import (
	"context"
	"strings"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/service"
	"github.com/covenhall/arcana/pkg/slogx"
)

// Builder resolves the two request credentials into a Context. Each
// layer is resolved independently: a bad or missing session token
// never invalidates a good client token, and vice versa. Invalid
// credentials simply leave their layer empty; the Require helpers
// decide later whether that is fatal.
type Builder struct {
	Tokens   *service.TokenService
	Sessions *service.SessionService
}

// Build resolves the Authorization bearer value and the session token
// (either may be empty) into an authorization context.
func (b *Builder) Build(ctx context.Context, bearer, sessionToken string, meta domain.RequestMeta) *Context {
	l := slogx.FromContext(ctx)
	out := &Context{}

	if bearer = strings.TrimSpace(bearer); bearer != "" {
		claims, err := b.Tokens.Verify(bearer)
		if err != nil {
			l.Debug("client token rejected", "error", err)
		} else {
			out.Client = &claims
		}
	}

	if sessionToken = strings.TrimSpace(sessionToken); sessionToken != "" {
		session, user, err := b.Sessions.ValidateSession(ctx, sessionToken, meta)
		if err != nil {
			l.Debug("session token rejected", "error", err)
		} else {
			out.Session = session
			out.User = user
		}
	}

	return out
}
