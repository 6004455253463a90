package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSessionListing opens two sessions for one user and lists them; only
// the requesting one is flagged as current.
func TestSessionListing(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))
	ctx := t.Context()

	env.signupUser(t, sdk, "hazel@example.com", "hazel", false)

	require.NoError(t, sdk.InitiateLogin(ctx, "hazel@example.com"))
	code := env.verificationCode(t, "hazel@example.com")
	login, err := sdk.CompleteLogin(ctx, "hazel@example.com", code, false)
	require.NoError(t, err)

	sdk.SetSessionToken(login.SessionToken)
	list, err := sdk.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, list.Sessions, 2)

	current := 0
	for _, s := range list.Sessions {
		require.NotEmpty(t, s.ID)
		if s.CurrentSession {
			current++
		}
	}
	require.Equal(t, 1, current)
}

// TestLogout terminates the current session; it stops authenticating
// immediately.
func TestLogout(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))
	ctx := t.Context()

	signup := env.signupUser(t, sdk, "briar@example.com", "briar", false)
	sdk.SetSessionToken(signup.SessionToken)

	require.NoError(t, sdk.Logout(ctx))

	_, err := sdk.Sessions(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}

// TestLogoutAll closes every session, including the requesting one, and
// reports the count.
func TestLogoutAll(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))
	ctx := t.Context()

	env.signupUser(t, sdk, "rowan@example.com", "rowan", false)

	require.NoError(t, sdk.InitiateLogin(ctx, "rowan@example.com"))
	code := env.verificationCode(t, "rowan@example.com")
	login, err := sdk.CompleteLogin(ctx, "rowan@example.com", code, false)
	require.NoError(t, err)

	sdk.SetSessionToken(login.SessionToken)
	resp, err := sdk.LogoutAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, resp.TerminatedCount)

	_, err = sdk.Sessions(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}

// TestSessionEndpointsRequireBothLayers checks that a bearer token alone
// cannot reach the session surface.
func TestSessionEndpointsRequireBothLayers(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))

	_, err := sdk.Sessions(t.Context())
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")

	err = sdk.Logout(t.Context())
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}
