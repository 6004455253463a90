// Package authz carries the per-request authorization context: the
// machine client behind the call and, when a session token was
// presented, the end user. Handlers declare what they need through
// the Require helpers; both credential layers are always evaluated so
// a failure names the layer that is missing.
package authz

import (
	"context"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/pkg/authsdk"
	"github.com/covenhall/arcana/pkg/jwtx"
)

// Context is the resolved authorization state of one request. Either
// layer may be absent: Client is nil when no valid bearer token was
// presented, User/Session are nil when no valid session token was.
type Context struct {
	// Client holds the verified claims of the app bearer token.
	Client *jwtx.Claims
	// Session and User identify the end user behind the request.
	Session *domain.UserSession
	User    *domain.User
}

// HasAppScope reports whether a valid client token with the scope is
// present.
func (a *Context) HasAppScope(scope string) bool {
	return a != nil && a.Client != nil && a.Client.HasScope(scope)
}

// HasUserScope reports whether a valid session with a user holding
// the scope is present.
func (a *Context) HasUserScope(scope string) bool {
	return a != nil && a.User != nil && a.User.HasScope(scope)
}

// RequireAppScope demands a valid client token carrying scope.
// A missing token is unauthorized; a token without the scope is
// forbidden.
func (a *Context) RequireAppScope(scope string) *authsdk.APIError {
	if a == nil || a.Client == nil {
		return authsdk.ErrUnauthorized.WithDescription("client token required")
	}
	if !a.Client.HasScope(scope) {
		return authsdk.ErrForbidden.WithDescription("client token missing scope %q", scope)
	}
	return nil
}

// RequireUserScope demands a valid session whose user carries scope.
func (a *Context) RequireUserScope(scope string) *authsdk.APIError {
	if a == nil || a.User == nil {
		return authsdk.ErrUnauthorized.WithDescription("session token required")
	}
	if !a.User.HasScope(scope) {
		return authsdk.ErrForbidden.WithDescription("user missing scope %q", scope)
	}
	return nil
}

// RequireBoth demands the app scope and the user scope together. Both
// layers are checked; the app layer reports first so a caller fixing
// credentials works outside-in.
func (a *Context) RequireBoth(appScope, userScope string) *authsdk.APIError {
	if err := a.RequireAppScope(appScope); err != nil {
		return err
	}
	return a.RequireUserScope(userScope)
}

type ctxKey struct{}

// WithContext attaches the authorization context to ctx.
func WithContext(ctx context.Context, a *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the request's authorization context. It never
// returns nil; an absent value means an unauthenticated request.
func FromContext(ctx context.Context) *Context {
	if a, ok := ctx.Value(ctxKey{}).(*Context); ok && a != nil {
		return a
	}
	return &Context{}
}
