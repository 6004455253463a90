package domain

import "time"

// UserSession is one logged-in device/browser instance for a user. Tokens
// are stored only as SHA-256 fingerprints; RefreshTokenHash is empty when
// the session was created without keep-me-logged-in.
type UserSession struct {
	ID               string
	UserID           string
	SessionTokenHash string
	RefreshTokenHash string
	KeepMeLoggedIn   bool
	ExpiresAt        time.Time
	LastUsedAt       time.Time
	UserAgent        string
	IPAddress        string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *UserSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionTokens is the plaintext token pair handed to the caller when a
// session is created or refreshed. RefreshToken is empty for ephemeral
// sessions. The plaintexts exist only in this value; they are never stored.
type SessionTokens struct {
	SessionID    string
	SessionToken string
	RefreshToken string
	ExpiresIn    time.Duration
	ExpiresAt    time.Time
}

// RequestMeta is per-request caller metadata recorded on sessions.
type RequestMeta struct {
	UserAgent string
	IPAddress string
}
