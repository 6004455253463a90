package domain

import "time"

// User is the account record as the auth core sees it. Profile fields beyond
// EmailVerified and LastLoginAt belong to the wider platform and are never
// mutated here.
type User struct {
	ID            string
	Email         string // lowercased, trimmed
	Handle        string
	EmailVerified bool
	AllowedScopes []string // user scopes, e.g. ["basic"] or ["basic", "admin"]
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasScope reports exact string membership in the user's scope set.
func (u *User) HasScope(scope string) bool {
	for _, s := range u.AllowedScopes {
		if s == scope {
			return true
		}
	}
	return false
}
