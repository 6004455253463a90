package authz

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/pkg/jwtx"
)

func clientWith(scopes ...string) *jwtx.Claims {
	return &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "client-1"},
		Scopes:           scopes,
	}
}

func userWith(scopes ...string) *domain.User {
	return &domain.User{ID: "user-1", AllowedScopes: scopes}
}

func TestRequireAppScope(t *testing.T) {
	var empty *Context

	err := empty.RequireAppScope("coven_read")
	require.NotNil(t, err)
	require.Equal(t, http.StatusUnauthorized, err.StatusCode)

	a := &Context{Client: clientWith("coven_read")}
	require.Nil(t, a.RequireAppScope("coven_read"))

	err = a.RequireAppScope("coven_write")
	require.NotNil(t, err)
	require.Equal(t, http.StatusForbidden, err.StatusCode)
}

func TestRequireUserScope(t *testing.T) {
	a := &Context{Client: clientWith("coven_read")}

	// A client token alone never satisfies a user requirement.
	err := a.RequireUserScope("basic")
	require.NotNil(t, err)
	require.Equal(t, http.StatusUnauthorized, err.StatusCode)

	a.User = userWith("basic")
	require.Nil(t, a.RequireUserScope("basic"))

	err = a.RequireUserScope("moderator")
	require.NotNil(t, err)
	require.Equal(t, http.StatusForbidden, err.StatusCode)
}

func TestRequireBoth(t *testing.T) {
	tests := []struct {
		name       string
		ctx        *Context
		wantStatus int // 0 means allowed
		wantLayer  string
	}{
		{
			name:       "neither credential",
			ctx:        &Context{},
			wantStatus: http.StatusUnauthorized,
			wantLayer:  "client token",
		},
		{
			name:       "client only",
			ctx:        &Context{Client: clientWith("coven_write")},
			wantStatus: http.StatusUnauthorized,
			wantLayer:  "session token",
		},
		{
			name:       "user only",
			ctx:        &Context{User: userWith("basic")},
			wantStatus: http.StatusUnauthorized,
			wantLayer:  "client token",
		},
		{
			name:       "client lacks scope",
			ctx:        &Context{Client: clientWith("coven_read"), User: userWith("basic")},
			wantStatus: http.StatusForbidden,
			wantLayer:  "client token missing scope",
		},
		{
			name:       "user lacks scope",
			ctx:        &Context{Client: clientWith("coven_write"), User: userWith()},
			wantStatus: http.StatusForbidden,
			wantLayer:  "user missing scope",
		},
		{
			name: "both satisfied",
			ctx:  &Context{Client: clientWith("coven_write"), User: userWith("basic")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ctx.RequireBoth("coven_write", "basic")
			if tt.wantStatus == 0 {
				require.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			require.Equal(t, tt.wantStatus, err.StatusCode)
			require.Contains(t, err.Description, tt.wantLayer)
		})
	}
}

func TestFromContextNeverNil(t *testing.T) {
	a := FromContext(context.Background())
	require.NotNil(t, a)
	require.False(t, a.HasAppScope("anything"))

	withClient := WithContext(context.Background(), &Context{Client: clientWith("x")})
	require.True(t, FromContext(withClient).HasAppScope("x"))
}
