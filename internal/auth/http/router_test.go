package http

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/covenhall/arcana/internal/auth/authz"
	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/service"
	"github.com/covenhall/arcana/internal/auth/store"
	"github.com/covenhall/arcana/internal/auth/store/drivers/sqlite"
	"github.com/covenhall/arcana/pkg/cryptox"
	"github.com/covenhall/arcana/pkg/idx"
	"github.com/covenhall/arcana/pkg/jwtx"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

// captureMailer records issued codes so tests can replay them.
type captureMailer struct {
	codes map[string]string
}

func (m *captureMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.codes[email] = code
	return nil
}

// testEnv is a fully wired router over an in-memory store, plus the
// services tests use to mint credentials directly.
type testEnv struct {
	router   *Router
	store    store.Store
	clients  *service.ClientService
	tokens   *service.TokenService
	account  *service.AccountService
	sessions *service.SessionService
	mail     *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner("test-key", priv)
	require.NoError(t, err)

	tokens := &service.TokenService{
		Signer:     signer,
		Verifier:   jwtx.NewVerifier(pub, "arcana-auth-test"),
		Store:      st,
		Issuer:     "arcana-auth-test",
		DefaultTTL: time.Hour,
	}
	sessions := &service.SessionService{
		Store:       st,
		SessionTTL:  12 * time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	}
	mail := &captureMailer{codes: map[string]string{}}
	verification := &service.VerificationService{
		Store:          st,
		Mailer:         mail,
		CodeTTL:        15 * time.Minute,
		ResendCooldown: 0, // no cooldown in handler tests
		MaxAttempts:    3,
	}
	account := &service.AccountService{
		Store:        st,
		Verification: verification,
		Sessions:     sessions,
	}
	clients := &service.ClientService{
		Store:           st,
		DefaultTokenTTL: time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	builder := &authz.Builder{Tokens: tokens, Sessions: sessions}

	router := NewRouter("test", st, builder, logger)
	router.TokenService = tokens
	router.AccountService = account
	router.SessionService = sessions
	router.ClientService = clients
	router.ApplyRoutes()

	return &testEnv{
		router:   router,
		store:    st,
		clients:  clients,
		tokens:   tokens,
		account:  account,
		sessions: sessions,
		mail:     mail,
	}
}

// mintToken provisions a client with the scopes and mints a bearer
// token for it, bypassing the HTTP surface.
func (e *testEnv) mintToken(t *testing.T, scopes ...string) string {
	t.Helper()

	client, secret, err := e.clients.CreateClient(context.Background(), "test "+strings.Join(scopes, "+"), scopes, 0, false)
	require.NoError(t, err)

	tok, err := e.tokens.MintClientToken(context.Background(), client.ID, secret, nil)
	require.NoError(t, err)
	return tok.AccessToken
}

var testMeta = domain.RequestMeta{UserAgent: "test-agent", IPAddress: "192.0.2.1"}

// signupUser provisions an account through the service layer and
// returns its session tokens.
func (e *testEnv) signupUser(t *testing.T, email, handle string, remember bool) (userID, sessionToken, refreshToken string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, e.account.InitiateSignup(ctx, email))
	user, tokens, err := e.account.CompleteSignup(ctx, email, e.mail.codes[email], handle, remember, testMeta)
	require.NoError(t, err)
	return user.ID, tokens.SessionToken, tokens.RefreshToken
}

// seedAdminUser creates a user holding the admin scope directly in
// the store (scope management is out of band; the gate only reads it)
// and opens a session for them.
func (e *testEnv) seedAdminUser(t *testing.T, email, handle string) (userID, sessionToken string) {
	t.Helper()
	ctx := context.Background()

	now := time.Now()
	user := domain.User{
		ID:            idx.New().String(),
		Email:         email,
		Handle:        handle,
		EmailVerified: true,
		AllowedScopes: []string{ScopeUserBasic, ScopeAdmin},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, e.store.Users().CreateUser(ctx, user))

	tokens, err := e.sessions.CreateSession(ctx, user.ID, false, testMeta)
	require.NoError(t, err)
	return user.ID, tokens.SessionToken
}

func (e *testEnv) do(t *testing.T, method, path, bearer, sessionToken string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if sessionToken != "" {
		req.Header.Set(SessionTokenHeader, sessionToken)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestTokenEndpoint(t *testing.T) {
	env := newTestEnv(t)

	client, secret, err := env.clients.CreateClient(context.Background(), "gateway", []string{"auth", "coven_read"}, 0, false)
	require.NoError(t, err)

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {client.ID},
		"client_secret": {secret},
		"scope":         {"auth"},
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		Scope       string `json:"scope"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, "auth", resp.Scope)
	require.Equal(t, 3600, resp.ExpiresIn)

	claims, err := env.tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, client.ID, claims.ClientID())
}

func TestTokenEndpointWrongSecret(t *testing.T) {
	env := newTestEnv(t)

	client, _, err := env.clients.CreateClient(context.Background(), "gateway", []string{"auth"}, 0, false)
	require.NoError(t, err)

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {client.ID},
		"client_secret": {"wrong"},
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decode[map[string]string](t, rec)
	require.Equal(t, "invalid_client", resp["error"])
}

func TestTokenEndpointUnsupportedGrant(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"grant_type": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[map[string]string](t, rec)
	require.Equal(t, "unsupported_grant_type", resp["error"])
}

func TestSignupFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.mintToken(t, "auth")

	rec := env.do(t, http.MethodPost, "/v1/auth/signup/initiate", bearer, "",
		map[string]string{"email": "hazel@example.com"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	code := env.mail.codes["hazel@example.com"]
	require.Len(t, code, 6)

	rec = env.do(t, http.MethodPost, "/v1/auth/signup/complete", bearer, "", map[string]any{
		"email":             "hazel@example.com",
		"code":              code,
		"handle":            "hazel",
		"keep_me_logged_in": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User struct {
			Email         string `json:"email"`
			Handle        string `json:"handle"`
			EmailVerified bool   `json:"email_verified"`
		} `json:"user"`
		SessionToken string `json:"session_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "hazel@example.com", resp.User.Email)
	require.True(t, resp.User.EmailVerified)
	require.NotEmpty(t, resp.SessionToken)
	require.NotEmpty(t, resp.RefreshToken, "keep_me_logged_in grants a refresh token")
}

func TestSignupRequiresAppScope(t *testing.T) {
	env := newTestEnv(t)

	// No bearer token at all.
	rec := env.do(t, http.MethodPost, "/v1/auth/signup/initiate", "", "",
		map[string]string{"email": "hazel@example.com"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// A valid bearer token without the auth scope.
	bearer := env.mintToken(t, "coven_read")
	rec = env.do(t, http.MethodPost, "/v1/auth/signup/initiate", bearer, "",
		map[string]string{"email": "hazel@example.com"})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.mintToken(t, "auth")

	userID, _, refreshToken := env.signupUser(t, "hazel@example.com", "hazel", true)

	rec := env.do(t, http.MethodPost, "/v1/auth/refresh", bearer, "", map[string]string{
		"refresh_token": refreshToken,
		"user_id":       userID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		SessionToken string `json:"session_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionToken)
	require.NotEqual(t, refreshToken, resp.RefreshToken)

	// The spent token is rejected on replay.
	rec = env.do(t, http.MethodPost, "/v1/auth/refresh", bearer, "", map[string]string{
		"refresh_token": refreshToken,
		"user_id":       userID,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshEndpointWrongUser(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.mintToken(t, "auth")

	_, _, refreshToken := env.signupUser(t, "hazel@example.com", "hazel", true)
	otherID, _, _ := env.signupUser(t, "briar@example.com", "briar", false)

	rec := env.do(t, http.MethodPost, "/v1/auth/refresh", bearer, "", map[string]string{
		"refresh_token": refreshToken,
		"user_id":       otherID,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decode[map[string]string](t, rec)
	require.Equal(t, "unauthorized", resp["error"])
}

func TestLogoutAndSessionList(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.mintToken(t, "auth")

	_, sessionToken, _ := env.signupUser(t, "hazel@example.com", "hazel", false)

	rec := env.do(t, http.MethodGet, "/v1/auth/sessions", bearer, sessionToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list struct {
		Sessions []struct {
			ID             string `json:"id"`
			CurrentSession bool   `json:"current_session"`
		} `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Sessions, 1)
	require.True(t, list.Sessions[0].CurrentSession)

	rec = env.do(t, http.MethodPost, "/v1/auth/logout", bearer, sessionToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The session is gone; the same request is now unauthorized.
	rec = env.do(t, http.MethodPost, "/v1/auth/logout", bearer, sessionToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutAllReportsCount(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.mintToken(t, "auth")

	userID, sessionToken, _ := env.signupUser(t, "hazel@example.com", "hazel", false)
	_, err := env.sessions.CreateSession(context.Background(), userID, false, testMeta)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/v1/auth/logout_all", bearer, sessionToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		TerminatedCount int `json:"terminated_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.TerminatedCount)
}

func TestClientCRUDRequiresBothLayers(t *testing.T) {
	env := newTestEnv(t)

	adminBearer := env.mintToken(t, "admin", "auth")
	_, sessionToken := env.seedAdminUser(t, "op@example.com", "operator")

	body := map[string]any{
		"name":           "tarot service",
		"allowed_scopes": []string{"tarot_read"},
	}

	// Bearer alone: unauthorized, the session layer is missing.
	rec := env.do(t, http.MethodPost, "/v1/clients", adminBearer, "", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Session alone: unauthorized, the client layer is missing.
	rec = env.do(t, http.MethodPost, "/v1/clients", "", sessionToken, body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Both layers present and privileged: allowed.
	rec = env.do(t, http.MethodPost, "/v1/clients", adminBearer, sessionToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Client struct {
			ID string `json:"id"`
		} `json:"client"`
		ClientSecret string `json:"client_secret"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ClientSecret)

	// Update, rotate, delete through the same dual gate.
	rec = env.do(t, http.MethodPatch, "/v1/clients/"+created.Client.ID, adminBearer, sessionToken,
		map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/v1/clients/"+created.Client.ID+"/secret", adminBearer, sessionToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/v1/clients/"+created.Client.ID, adminBearer, sessionToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestClientListForbiddenWithoutAdminScope(t *testing.T) {
	env := newTestEnv(t)

	bearer := env.mintToken(t, "auth")
	_, sessionToken, _ := env.signupUser(t, "someone@example.com", "someone", false)

	rec := env.do(t, http.MethodGet, "/v1/clients", bearer, sessionToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]any](t, rec)
	require.Equal(t, "ok", resp["status"])

	rec = env.do(t, http.MethodGet, "/readyz", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
