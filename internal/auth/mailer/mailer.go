// Package mailer abstracts outbound verification email delivery.
package mailer

import (
	"context"

	"github.com/covenhall/arcana/pkg/slogx"
)

// Mailer delivers verification codes to end users.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// LogMailer writes codes to the structured log instead of sending
// email. It is the default in development and in tests.
type LogMailer struct{}

func (LogMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	slogx.FromContext(ctx).Info("verification code (log delivery)",
		"email", email,
		"code", code,
	)
	return nil
}
