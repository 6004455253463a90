package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T) (*AccountService, *captureMailer) {
	t.Helper()

	st := newTestStore(t)
	m := newCaptureMailer()
	return &AccountService{
		Store:        st,
		Verification: newVerificationService(st, m),
		Sessions:     newSessionService(st),
	}, m
}

func TestSignupFlow(t *testing.T) {
	svc, m := newAccountService(t)
	ctx := context.Background()

	require.NoError(t, svc.InitiateSignup(ctx, "fern@example.com"))
	code := m.lastCode("fern@example.com")

	user, tokens, err := svc.CompleteSignup(ctx, "fern@example.com", code, "fern", false, testMeta)
	require.NoError(t, err)
	require.Equal(t, "fern@example.com", user.Email)
	require.Equal(t, "fern", user.Handle)
	require.True(t, user.EmailVerified)
	require.Equal(t, DefaultUserScopes, user.AllowedScopes)
	require.NotEmpty(t, tokens.SessionToken)

	// The session opened by signup is live.
	session, gotUser, err := svc.Sessions.ValidateSession(ctx, tokens.SessionToken, testMeta)
	require.NoError(t, err)
	require.Equal(t, user.ID, gotUser.ID)
	require.Equal(t, tokens.SessionID, session.ID)

	// The code was consumed by the completed flow.
	err = svc.Verification.Validate(ctx, "fern@example.com", code)
	require.ErrorIs(t, err, ErrCodeNotFound)
}

func TestInitiateSignupExistingEmail(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	seedTestUser(t, svc.Store, "fern@example.com", "fern")

	require.ErrorIs(t, svc.InitiateSignup(ctx, "fern@example.com"), ErrEmailTaken)
}

func TestCompleteSignupWrongCode(t *testing.T) {
	svc, m := newAccountService(t)
	ctx := context.Background()

	require.NoError(t, svc.InitiateSignup(ctx, "fern@example.com"))
	code := m.lastCode("fern@example.com")
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, _, err := svc.CompleteSignup(ctx, "fern@example.com", wrong, "fern", false, testMeta)
	require.ErrorIs(t, err, ErrCodeMismatch)

	// The right code still works afterwards.
	_, _, err = svc.CompleteSignup(ctx, "fern@example.com", code, "fern", false, testMeta)
	require.NoError(t, err)
}

func TestCompleteSignupHandleTaken(t *testing.T) {
	svc, m := newAccountService(t)
	ctx := context.Background()

	seedTestUser(t, svc.Store, "other@example.com", "fern")

	require.NoError(t, svc.InitiateSignup(ctx, "fern@example.com"))
	code := m.lastCode("fern@example.com")

	_, _, err := svc.CompleteSignup(ctx, "fern@example.com", code, "fern", false, testMeta)
	require.ErrorIs(t, err, ErrHandleTaken)
}

func TestCompleteSignupBadHandle(t *testing.T) {
	svc, m := newAccountService(t)
	ctx := context.Background()

	require.NoError(t, svc.InitiateSignup(ctx, "fern@example.com"))
	code := m.lastCode("fern@example.com")

	for _, handle := range []string{"", "ab", "0fern", "Fern", "fern!", "_fern"} {
		_, _, err := svc.CompleteSignup(ctx, "fern@example.com", code, handle, false, testMeta)
		require.ErrorIs(t, err, ErrInvalidHandle, "handle %q", handle)
	}
}

func TestLoginFlow(t *testing.T) {
	svc, m := newAccountService(t)
	ctx := context.Background()

	user := seedTestUser(t, svc.Store, "fern@example.com", "fern")

	require.NoError(t, svc.InitiateLogin(ctx, "fern@example.com"))
	code := m.lastCode("fern@example.com")

	gotUser, tokens, err := svc.CompleteLogin(ctx, "fern@example.com", code, true, testMeta)
	require.NoError(t, err)
	require.Equal(t, user.ID, gotUser.ID)
	require.Equal(t, svc.Sessions.RememberTTL, tokens.ExpiresIn)

	stored, err := svc.Store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
}

func TestInitiateLoginUnknownEmail(t *testing.T) {
	svc, _ := newAccountService(t)

	err := svc.InitiateLogin(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}
