package domain

import "time"

// VerificationRecord is a single outstanding one-time-code challenge for an
// email address. At most one record exists per email (the email is the key);
// issuing a new code replaces any prior record.
type VerificationRecord struct {
	Email     string // lowercased, trimmed; the lookup key
	CodeHash  string // argon2id encoded
	Attempts  int
	Verified  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the challenge is past its expiry at the given time.
func (v *VerificationRecord) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
