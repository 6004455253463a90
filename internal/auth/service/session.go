package service

import (
	"context"
	"errors"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/store"
	"github.com/covenhall/arcana/pkg/cryptox"
	"github.com/covenhall/arcana/pkg/idx"
	"github.com/covenhall/arcana/pkg/slogx"
)

var (
	ErrInvalidSession = errors.New("invalid_session")
	ErrInvalidRefresh = errors.New("invalid_refresh_token")
	ErrSessionOwner   = errors.New("session_owner_mismatch")
)

// SessionService creates, validates, refreshes, and revokes user
// sessions. Session and refresh tokens are opaque random strings; the
// store holds only their SHA-256 fingerprints.
type SessionService struct {
	Store store.Store

	// SessionTTL is the lifetime of a standard session.
	SessionTTL time.Duration
	// RememberTTL is the extended lifetime for keep-me-logged-in.
	RememberTTL time.Duration
}

func (s *SessionService) ttl(keepMeLoggedIn bool) time.Duration {
	if keepMeLoggedIn {
		return s.RememberTTL
	}
	return s.SessionTTL
}

// CreateSession mints a fresh session token for the user and persists
// its fingerprint. A refresh token is issued only for keep-me-logged-in
// sessions; a standard session simply expires.
func (s *SessionService) CreateSession(
	ctx context.Context,
	userID string,
	keepMeLoggedIn bool,
	meta domain.RequestMeta,
) (*domain.SessionTokens, error) {
	now := time.Now()

	sessionToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	var refreshToken, refreshHash string
	if keepMeLoggedIn {
		refreshToken, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return nil, err
		}
		refreshHash = cryptox.FingerprintToken(refreshToken)
	}

	ttl := s.ttl(keepMeLoggedIn)
	session := domain.UserSession{
		ID:               idx.New().String(),
		UserID:           userID,
		SessionTokenHash: cryptox.FingerprintToken(sessionToken),
		RefreshTokenHash: refreshHash,
		KeepMeLoggedIn:   keepMeLoggedIn,
		ExpiresAt:        now.Add(ttl),
		LastUsedAt:       now,
		UserAgent:        meta.UserAgent,
		IPAddress:        meta.IPAddress,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &domain.SessionTokens{
		SessionID:    session.ID,
		SessionToken: sessionToken,
		RefreshToken: refreshToken, // empty unless keepMeLoggedIn
		ExpiresIn:    ttl,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// ValidateSession resolves a session token to its session and owner,
// rejecting expired or revoked sessions. A successful validation
// touches last_used_at inline; a failed touch is logged, never
// surfaced.
func (s *SessionService) ValidateSession(
	ctx context.Context,
	sessionToken string,
	meta domain.RequestMeta,
) (*domain.UserSession, *domain.User, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	hash := cryptox.FingerprintToken(sessionToken)
	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, err
	}

	if !session.IsActive || session.Expired(now) {
		return nil, nil, ErrInvalidSession
	}

	user, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, err
	}

	if err := s.Store.Sessions().TouchSession(ctx, session.ID, now, meta); err != nil {
		l.Warn("failed to touch session", "session_id", session.ID, "error", err)
	}
	session.LastUsedAt = now

	return &session, &user, nil
}

// RefreshSession rotates a session's token pair. The caller supplies
// the user the refresh token is expected to belong to; a mismatch is
// rejected before any state changes. Rotation is a conditional update
// guarded on the old refresh hash, so a replayed refresh token loses
// the race and is treated as invalid.
func (s *SessionService) RefreshSession(
	ctx context.Context,
	refreshToken, expectedUserID string,
	meta domain.RequestMeta,
) (*domain.SessionTokens, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	oldHash := cryptox.FingerprintToken(refreshToken)
	session, err := s.Store.Sessions().GetSessionByRefreshHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if session.UserID != expectedUserID {
		l.Warn("refresh token presented for wrong account",
			"session_id", session.ID,
			"expected_user_id", expectedUserID,
		)
		return nil, ErrSessionOwner
	}

	if !session.IsActive || session.Expired(now) {
		return nil, ErrInvalidRefresh
	}

	newSessionToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	ttl := s.ttl(session.KeepMeLoggedIn)
	expiresAt := now.Add(ttl)

	err = s.Store.Sessions().RotateSessionTokens(ctx, session.ID, oldHash,
		cryptox.FingerprintToken(newSessionToken),
		cryptox.FingerprintToken(newRefreshToken),
		expiresAt, now,
	)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Someone else rotated first; this token is spent.
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if err := s.Store.Sessions().TouchSession(ctx, session.ID, now, meta); err != nil {
		l.Warn("failed to touch session", "session_id", session.ID, "error", err)
	}

	return &domain.SessionTokens{
		SessionID:    session.ID,
		SessionToken: newSessionToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    ttl,
		ExpiresAt:    expiresAt,
	}, nil
}

// TerminateSession revokes the session behind a session token. The
// owner check is part of the delete, so a token from another account
// cannot revoke someone else's session.
func (s *SessionService) TerminateSession(ctx context.Context, sessionToken, userID string) error {
	hash := cryptox.FingerprintToken(sessionToken)
	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidSession
		}
		return err
	}

	if err := s.Store.Sessions().DeleteSession(ctx, session.ID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidSession
		}
		return err
	}
	return nil
}

// TerminateAllSessions revokes every session the user has and reports
// how many were removed.
func (s *SessionService) TerminateAllSessions(ctx context.Context, userID string) (int64, error) {
	n, err := s.Store.Sessions().DeleteUserSessions(ctx, userID)
	if err != nil {
		return 0, err
	}
	slogx.FromContext(ctx).Info("terminated all sessions", "user_id", userID, "count", n)
	return n, nil
}

// ListUserSessions returns all sessions for the user, most recently
// used first.
func (s *SessionService) ListUserSessions(ctx context.Context, userID string) ([]domain.UserSession, error) {
	return s.Store.Sessions().ListUserSessions(ctx, userID)
}

// Cleanup removes sessions past their expiry. It is called on a timer
// by the housekeeping loop.
func (s *SessionService) Cleanup(ctx context.Context) (int64, error) {
	return s.Store.Sessions().DeleteExpiredSessions(ctx, time.Now())
}
