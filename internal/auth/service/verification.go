package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/mailer"
	"github.com/covenhall/arcana/internal/auth/store"
	"github.com/covenhall/arcana/pkg/cryptox"
	"github.com/covenhall/arcana/pkg/slogx"
)

var (
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrCodeCooldown    = errors.New("code_cooldown")
	ErrCodeNotFound    = errors.New("code_not_found")
	ErrCodeExpired     = errors.New("code_expired")
	ErrCodeMismatch    = errors.New("code_mismatch")
	ErrTooManyAttempts = errors.New("too_many_attempts")
)

// CodeMismatchError is an ErrCodeMismatch that also reports how many
// attempts remain, so the caller can tell the user.
type CodeMismatchError struct {
	Remaining int
}

func (e *CodeMismatchError) Error() string {
	return fmt.Sprintf("invalid verification code, %d attempt(s) remaining", e.Remaining)
}

func (e *CodeMismatchError) Is(target error) bool { return target == ErrCodeMismatch }

// CooldownError is an ErrCodeCooldown that also reports how long until
// a new code may be requested.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("a code was sent recently, retry in %d seconds", int(e.RetryAfter.Seconds())+1)
}

func (e *CooldownError) Is(target error) bool { return target == ErrCodeCooldown }

// VerificationService issues and validates short-lived email
// verification codes. Codes are random six-digit strings, stored only
// as argon2id hashes, with one live record per email address.
type VerificationService struct {
	Store  store.Store
	Mailer mailer.Mailer

	// CodeTTL is how long an issued code stays valid.
	CodeTTL time.Duration
	// ResendCooldown is the minimum gap between issues for one email.
	ResendCooldown time.Duration
	// MaxAttempts caps invalid submissions before the record is burned.
	MaxAttempts int
}

// Issue generates a fresh code for the address and emails it. A new
// issue replaces any previous record for the same address, but only
// after the cooldown window since the last pending issue has elapsed.
// A record that was already verified (a flow that stalled after code
// entry) is replaceable immediately.
func (s *VerificationService) Issue(ctx context.Context, email string) error {
	now := time.Now()
	l := slogx.FromContext(ctx)

	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}

	// Cheap cooldown check before paying for the argon2 hash. The
	// transaction below re-checks under lock; this only rejects the
	// obvious repeats early.
	existing, err := s.Store.Verifications().GetVerification(ctx, email)
	if err == nil {
		if cooldownErr := s.checkCooldown(existing, now); cooldownErr != nil {
			return cooldownErr
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	code, err := cryptox.GenerateVerificationCode()
	if err != nil {
		return err
	}
	codeHash, err := cryptox.HashSecret(code)
	if err != nil {
		return err
	}

	record := domain.VerificationRecord{
		Email:     email,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(s.CodeTTL),
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Verifications().GetVerification(ctx, email)
		switch {
		case err == nil:
			if cooldownErr := s.checkCooldown(existing, now); cooldownErr != nil {
				return cooldownErr
			}
			if err := tx.Verifications().DeleteVerification(ctx, email); err != nil {
				return err
			}
		case errors.Is(err, store.ErrNotFound):
			// First issue for this address.
		default:
			return err
		}
		return tx.Verifications().CreateVerification(ctx, record)
	})
	if err != nil {
		return err
	}

	// The code is already persisted; a failed delivery is logged and
	// surfaced, but does not invalidate the record. The caller can
	// retry after the cooldown.
	if err := s.Mailer.SendVerificationCode(ctx, email, code); err != nil {
		l.Error("failed to send verification code", "email", email, "error", err)
		return err
	}

	l.Info("verification code issued", "email", email)
	return nil
}

// checkCooldown rejects a re-issue inside the cooldown window. Only
// pending records count: a verified record already proved the address,
// so replacing it cannot be used to spam codes at it.
func (s *VerificationService) checkCooldown(existing domain.VerificationRecord, now time.Time) error {
	if existing.Verified {
		return nil
	}
	if elapsed := now.Sub(existing.CreatedAt); elapsed < s.ResendCooldown {
		return &CooldownError{RetryAfter: s.ResendCooldown - elapsed}
	}
	return nil
}

// Validate checks a submitted code against the outstanding record for
// the address. A correct code marks the record verified; it stays until
// the caller finishes the rest of its flow and calls Consume, so a
// failure between the two does not strand the user mid-flow. An
// incorrect code bumps the attempt counter; the record is deleted once
// the counter reaches MaxAttempts, so the cap can never be exceeded by
// retrying.
func (s *VerificationService) Validate(ctx context.Context, email, code string) error {
	now := time.Now()
	l := slogx.FromContext(ctx)

	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}

	if !cryptox.ValidVerificationCode(code) {
		return ErrCodeMismatch
	}

	record, err := s.Store.Verifications().GetVerification(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCodeNotFound
		}
		return err
	}

	if record.Verified {
		// Already spent; single use.
		return ErrCodeNotFound
	}

	if record.Expired(now) {
		_ = s.Store.Verifications().DeleteVerification(ctx, email)
		return ErrCodeExpired
	}

	if record.Attempts >= s.MaxAttempts {
		_ = s.Store.Verifications().DeleteVerification(ctx, email)
		return ErrTooManyAttempts
	}

	if err := cryptox.VerifySecret(code, record.CodeHash); err != nil {
		updated, incErr := s.Store.Verifications().IncrementVerificationAttempts(ctx, email)
		if incErr != nil {
			if errors.Is(incErr, store.ErrNotFound) {
				return ErrCodeNotFound
			}
			return incErr
		}
		if updated.Attempts >= s.MaxAttempts {
			_ = s.Store.Verifications().DeleteVerification(ctx, email)
			l.Warn("verification code burned after repeated failures", "email", email, "attempts", updated.Attempts)
			return ErrTooManyAttempts
		}
		return &CodeMismatchError{Remaining: s.MaxAttempts - updated.Attempts}
	}

	if err := s.Store.Verifications().MarkVerificationVerified(ctx, email); err != nil {
		return err
	}

	l.Info("verification code accepted", "email", email)
	return nil
}

// Consume deletes the record after a verified flow has completed. The
// code can never be replayed past this point.
func (s *VerificationService) Consume(ctx context.Context, email string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	return s.Store.Verifications().DeleteVerification(ctx, email)
}

// Cleanup removes expired verification records. It is called on a
// timer by the housekeeping loop.
func (s *VerificationService) Cleanup(ctx context.Context) (int64, error) {
	return s.Store.Verifications().DeleteExpiredVerifications(ctx, time.Now())
}

// NormalizeEmail lowercases and trims an address and rejects anything
// that does not parse as a bare RFC 5322 address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
