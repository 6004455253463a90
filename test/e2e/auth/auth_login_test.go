package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoginFlow signs a user up, logs out, then walks the two-step login.
func TestLoginFlow(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))
	ctx := t.Context()

	env.signupUser(t, sdk, "hazel@example.com", "hazel", false)

	require.NoError(t, sdk.InitiateLogin(ctx, "hazel@example.com"))
	code := env.verificationCode(t, "hazel@example.com")

	resp, err := sdk.CompleteLogin(ctx, "hazel@example.com", code, true)
	require.NoError(t, err)
	require.Equal(t, "hazel", resp.User.Handle)
	require.NotEmpty(t, resp.SessionToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User.LastLoginAt)
}

// TestLoginUnknownEmail is rejected at the initiate step; no code is ever
// issued for an address without an account.
func TestLoginUnknownEmail(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))

	err := sdk.InitiateLogin(t.Context(), "stranger@example.com")
	requireAPIError(t, err, http.StatusNotFound, "not_found")
}

// TestLoginCodeIsSingleUse replays a consumed login code.
func TestLoginCodeIsSingleUse(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))
	ctx := t.Context()

	env.signupUser(t, sdk, "briar@example.com", "briar", false)

	require.NoError(t, sdk.InitiateLogin(ctx, "briar@example.com"))
	code := env.verificationCode(t, "briar@example.com")

	_, err := sdk.CompleteLogin(ctx, "briar@example.com", code, false)
	require.NoError(t, err)

	_, err = sdk.CompleteLogin(ctx, "briar@example.com", code, false)
	requireAPIError(t, err, http.StatusNotFound, "not_found")
}
