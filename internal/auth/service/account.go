package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/store"
	"github.com/covenhall/arcana/pkg/idx"
	"github.com/covenhall/arcana/pkg/slogx"
)

var (
	ErrEmailTaken    = errors.New("email_taken")
	ErrHandleTaken   = errors.New("handle_taken")
	ErrInvalidHandle = errors.New("invalid_handle")
	ErrUserNotFound  = errors.New("user_not_found")
)

// DefaultUserScopes are granted to every new account.
var DefaultUserScopes = []string{"basic"}

// AccountService drives the two-step signup and login flows. Both
// flows start with an emailed verification code and complete with the
// code's submission; completion hands off to the SessionService for
// token issuance.
type AccountService struct {
	Store        store.Store
	Verification *VerificationService
	Sessions     *SessionService
}

// InitiateSignup sends a verification code to a new address. An
// address that already has an account is rejected before any code is
// issued.
func (s *AccountService) InitiateSignup(ctx context.Context, email string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}

	_, err = s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case errors.Is(err, store.ErrNotFound):
	default:
		return err
	}

	return s.Verification.Issue(ctx, email)
}

// CompleteSignup validates the code, creates the account with its
// email marked verified, and opens a first session.
func (s *AccountService) CompleteSignup(
	ctx context.Context,
	email, code, handle string,
	keepMeLoggedIn bool,
	meta domain.RequestMeta,
) (*domain.User, *domain.SessionTokens, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}
	handle = strings.TrimSpace(handle)
	if !validHandle(handle) {
		return nil, nil, ErrInvalidHandle
	}

	if err := s.Verification.Validate(ctx, email, code); err != nil {
		return nil, nil, err
	}

	user := domain.User{
		ID:            idx.New().String(),
		Email:         email,
		Handle:        handle,
		EmailVerified: true,
		AllowedScopes: DefaultUserScopes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// The code was valid, so the collision is on email or
			// handle. Email was checked at initiation; report the
			// handle unless the email row appeared in between.
			if _, lookupErr := s.Store.Users().GetUserByEmail(ctx, email); lookupErr == nil {
				return nil, nil, ErrEmailTaken
			}
			return nil, nil, ErrHandleTaken
		}
		return nil, nil, err
	}

	tokens, err := s.Sessions.CreateSession(ctx, user.ID, keepMeLoggedIn, meta)
	if err != nil {
		return nil, nil, err
	}

	// The account exists and the session is open; spend the code. A
	// leftover record only lingers until its expiry sweep.
	if err := s.Verification.Consume(ctx, email); err != nil {
		l.Warn("failed to consume verification record", "email", email, "error", err)
	}

	l.Info("account created", "user_id", user.ID, "handle", handle)
	return &user, tokens, nil
}

// InitiateLogin sends a verification code to an existing account's
// address. Unknown addresses are rejected so a code is never issued
// for an address with no account.
func (s *AccountService) InitiateLogin(ctx context.Context, email string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.Verification.Issue(ctx, email)
}

// CompleteLogin validates the code and opens a session for the
// account behind the address.
func (s *AccountService) CompleteLogin(
	ctx context.Context,
	email, code string,
	keepMeLoggedIn bool,
	meta domain.RequestMeta,
) (*domain.User, *domain.SessionTokens, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if err := s.Verification.Validate(ctx, email, code); err != nil {
		return nil, nil, err
	}

	// Logging in through an emailed code proves address ownership.
	if !user.EmailVerified {
		if err := s.Store.Users().SetEmailVerified(ctx, user.ID, true, now); err != nil {
			return nil, nil, err
		}
		user.EmailVerified = true
	}

	if err := s.Store.Users().SetLastLoginAt(ctx, user.ID, now); err != nil {
		l.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	tokens, err := s.Sessions.CreateSession(ctx, user.ID, keepMeLoggedIn, meta)
	if err != nil {
		return nil, nil, err
	}

	if err := s.Verification.Consume(ctx, email); err != nil {
		l.Warn("failed to consume verification record", "email", email, "error", err)
	}

	l.Info("login completed", "user_id", user.ID)
	return &user, tokens, nil
}

// validHandle accepts 3-32 characters of lowercase alphanumerics and
// underscores, starting with a letter.
func validHandle(handle string) bool {
	if len(handle) < 3 || len(handle) > 32 {
		return false
	}
	for i, r := range handle {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9', r == '_':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
