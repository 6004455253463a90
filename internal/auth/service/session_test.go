package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/covenhall/arcana/internal/auth/domain"
)

var testMeta = domain.RequestMeta{UserAgent: "test-agent", IPAddress: "198.51.100.7"}

func TestCreateAndValidateSession(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(st)
	ctx := context.Background()

	user := seedTestUser(t, st, "rowan@example.com", "rowan")

	tokens, err := svc.CreateSession(ctx, user.ID, false, testMeta)
	require.NoError(t, err)
	require.NotEmpty(t, tokens.SessionToken)
	require.Empty(t, tokens.RefreshToken, "standard sessions carry no refresh token")
	require.Equal(t, svc.SessionTTL, tokens.ExpiresIn)

	session, gotUser, err := svc.ValidateSession(ctx, tokens.SessionToken, testMeta)
	require.NoError(t, err)
	require.Equal(t, user.ID, gotUser.ID)
	require.Equal(t, tokens.SessionID, session.ID)
}

func TestValidateSessionRejectsUnknownToken(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(st)

	_, _, err := svc.ValidateSession(context.Background(), "bogus-token", testMeta)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestKeepMeLoggedInExtendsTTL(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(st)
	ctx := context.Background()

	user := seedTestUser(t, st, "rowan@example.com", "rowan")

	tokens, err := svc.CreateSession(ctx, user.ID, true, testMeta)
	require.NoError(t, err)
	require.Equal(t, svc.RememberTTL, tokens.ExpiresIn)
	require.NotEmpty(t, tokens.RefreshToken, "keep-me-logged-in sessions are refreshable")
}

func TestRefreshSessionRotatesTokens(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(st)
	ctx := context.Background()

	user := seedTestUser(t, st, "rowan@example.com", "rowan")
	tokens, err := svc.CreateSession(ctx, user.ID, true, testMeta)
	require.NoError(t, err)

	rotated, err := svc.RefreshSession(ctx, tokens.RefreshToken, user.ID, testMeta)
	require.NoError(t, err)
	require.Equal(t, tokens.SessionID, rotated.SessionID)
	require.NotEqual(t, tokens.SessionToken, rotated.SessionToken)
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// Old pair is dead, new pair works.
	_, _, err = svc.ValidateSession(ctx, tokens.SessionToken, testMeta)
	require.ErrorIs(t, err, ErrInvalidSession)

	_, _, err = svc.ValidateSession(ctx, rotated.SessionToken, testMeta)
	require.NoError(t, err)

	// Replaying the spent refresh token fails.
	_, err = svc.RefreshSession(ctx, tokens.RefreshToken, user.ID, testMeta)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefreshSessionWrongAccount(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(st)
	ctx := context.Background()

	owner := seedTestUser(t, st, "rowan@example.com", "rowan")
	other := seedTestUser(t, st, "sage@example.com", "sage")

	tokens, err := svc.CreateSession(ctx, owner.ID, true, testMeta)
	require.NoError(t, err)

	_, err = svc.RefreshSession(ctx, tokens.RefreshToken, other.ID, testMeta)
	require.ErrorIs(t, err, ErrSessionOwner)

	// The mismatch must not have rotated anything.
	_, _, err = svc.ValidateSession(ctx, tokens.SessionToken, testMeta)
	require.NoError(t, err)
}

func TestTerminateSession(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(st)
	ctx := context.Background()

	user := seedTestUser(t, st, "rowan@example.com", "rowan")
	tokens, err := svc.CreateSession(ctx, user.ID, false, testMeta)
	require.NoError(t, err)

	require.NoError(t, svc.TerminateSession(ctx, tokens.SessionToken, user.ID))

	_, _, err = svc.ValidateSession(ctx, tokens.SessionToken, testMeta)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestTerminateSessionOwnerMismatch(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(st)
	ctx := context.Background()

	owner := seedTestUser(t, st, "rowan@example.com", "rowan")
	other := seedTestUser(t, st, "sage@example.com", "sage")

	tokens, err := svc.CreateSession(ctx, owner.ID, false, testMeta)
	require.NoError(t, err)

	require.ErrorIs(t, svc.TerminateSession(ctx, tokens.SessionToken, other.ID), ErrInvalidSession)
}

func TestTerminateAllSessions(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(st)
	ctx := context.Background()

	user := seedTestUser(t, st, "rowan@example.com", "rowan")

	var sessionTokens []string
	for i := 0; i < 3; i++ {
		tokens, err := svc.CreateSession(ctx, user.ID, false, testMeta)
		require.NoError(t, err)
		sessionTokens = append(sessionTokens, tokens.SessionToken)
	}

	n, err := svc.TerminateAllSessions(ctx, user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	for _, token := range sessionTokens {
		_, _, err := svc.ValidateSession(ctx, token, testMeta)
		require.ErrorIs(t, err, ErrInvalidSession)
	}
}

func TestListUserSessions(t *testing.T) {
	st := newTestStore(t)
	svc := newSessionService(st)
	ctx := context.Background()

	user := seedTestUser(t, st, "rowan@example.com", "rowan")
	for i := 0; i < 2; i++ {
		_, err := svc.CreateSession(ctx, user.ID, false, testMeta)
		require.NoError(t, err)
	}

	sessions, err := svc.ListUserSessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		require.Equal(t, user.ID, s.UserID)
		require.Equal(t, testMeta.UserAgent, s.UserAgent)
	}
}
