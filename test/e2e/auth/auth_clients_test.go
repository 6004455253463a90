package auth_test

import (
	"net/http"
	"testing"
)

// Client management sits behind the dual admin gate: an admin-scoped
// bearer token AND an admin-scoped user session. User scope grants are out
// of band (no API mutates them), so these tests cover every rejection the
// gate can produce; the allowed path is covered at the handler level where
// an admin user can be seeded directly.

// TestClientManagementRequiresSession rejects a privileged bearer token
// that arrives without any user session.
func TestClientManagementRequiresSession(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "admin", "auth"))

	_, err := sdk.ListClients(t.Context())
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")

	_, err = sdk.CreateClient(t.Context(), "tarot service", []string{"tarot_read"}, 0)
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}

// TestClientManagementRequiresBearer rejects a user session that arrives
// without a machine credential.
func TestClientManagementRequiresBearer(t *testing.T) {
	env := setupAuthContainer(t)

	authed := env.sdk()
	authed.SetClientToken(env.mintAdminToken(t, "auth"))
	signup := env.signupUser(t, authed, "op@example.com", "operator", false)

	sdk := env.sdk()
	sdk.SetSessionToken(signup.SessionToken)
	_, err := sdk.ListClients(t.Context())
	requireAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}

// TestClientManagementRequiresAdminScopes rejects valid credentials on
// both layers when either lacks the admin scope.
func TestClientManagementRequiresAdminScopes(t *testing.T) {
	env := setupAuthContainer(t)
	sdk := env.sdk()
	sdk.SetClientToken(env.mintAdminToken(t, "auth"))

	signup := env.signupUser(t, sdk, "someone@example.com", "someone", false)
	sdk.SetSessionToken(signup.SessionToken)

	// Bearer lacks the admin app scope.
	_, err := sdk.ListClients(t.Context())
	requireAPIError(t, err, http.StatusForbidden, "forbidden")

	// Bearer is privileged but the user only holds the basic scope.
	sdk.SetClientToken(env.mintAdminToken(t, "admin", "auth"))
	_, err = sdk.ListClients(t.Context())
	requireAPIError(t, err, http.StatusForbidden, "forbidden")
}
