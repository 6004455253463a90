package auth_test

import (
	"net/http"
	"testing"
)

// TestGarbageCredentialsRejected throws malformed credentials at both
// header channels; everything must come back 401 without a server error.
func TestGarbageCredentialsRejected(t *testing.T) {
	env := setupAuthContainer(t)
	ctx := t.Context()

	cases := []struct {
		name         string
		clientToken  string
		sessionToken string
	}{
		{"garbage bearer", "not-a-jwt", ""},
		{"truncated jwt", "eyJhbGciOiJFZERTQSJ9.e30", ""},
		{"garbage session token", "", "nonsense-session-token"},
		{"both garbage", "not-a-jwt", "nonsense-session-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sdk := env.sdk()
			if tc.clientToken != "" {
				sdk.SetClientToken(tc.clientToken)
			}
			if tc.sessionToken != "" {
				sdk.SetSessionToken(tc.sessionToken)
			}

			err := sdk.InitiateSignup(ctx, "hazel@example.com")
			requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
		})
	}
}

// TestSessionTokenIsNotABearer checks the two header channels are not
// interchangeable: a session token in the Authorization header does not
// authenticate the machine layer.
func TestSessionTokenIsNotABearer(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))

	signup := env.signupUser(t, sdk, "hazel@example.com", "hazel", false)

	crossed := env.sdk()
	crossed.SetClientToken(signup.SessionToken)
	err := crossed.InitiateLogin(t.Context(), "hazel@example.com")
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}

// TestBearerIsNotASessionToken is the mirror check: a valid machine JWT in
// X-Session-Token does not authenticate the user layer.
func TestBearerIsNotASessionToken(t *testing.T) {
	env := setupAuthContainer(t)
	bearer := env.mintAdminToken(t, "auth")

	sdk := env.sdk()
	sdk.SetClientToken(bearer)
	sdk.SetSessionToken(bearer)

	_, err := sdk.Sessions(t.Context())
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}

// TestUnknownSessionTokenRejected checks that a token with the right shape
// but no matching session is a clean 401.
func TestUnknownSessionTokenRejected(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))
	// 43 chars of base64url, the same shape as a real session token.
	sdk.SetSessionToken("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

	_, err := sdk.Sessions(t.Context())
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}
