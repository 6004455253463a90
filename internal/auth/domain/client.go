package domain

import "time"

// Client is a registered machine caller (the GraphQL gateway, batch jobs,
// partner integrations). Clients authenticate with an ID/secret pair and are
// granted application scopes, entirely separate from end users.
type Client struct {
	ID             string
	Name           string
	SecretHash     string // argon2id encoded; the plaintext is shown once
	AllowedScopes  []string
	TokenExpiresIn time.Duration
	IsActive       bool
	Protected      bool // seed client cannot be deleted
	LastUsedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ClientPatch is a partial client update; nil fields are left unchanged.
type ClientPatch struct {
	Name           *string
	AllowedScopes  []string
	TokenExpiresIn *time.Duration
	IsActive       *bool
}

// IsZero reports whether the patch changes nothing.
func (p ClientPatch) IsZero() bool {
	return p.Name == nil && p.AllowedScopes == nil && p.TokenExpiresIn == nil && p.IsActive == nil
}

// ClientToken is a freshly minted application bearer token.
type ClientToken struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"` // always "Bearer"
	ExpiresIn   time.Duration `json:"expires_in"` // seconds until expiry
	Scope       string        `json:"scope,omitempty"`
}
