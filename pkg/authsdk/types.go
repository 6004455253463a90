package authsdk

import "time"

// ErrorResponse is the decoded body of a failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// TokenResponse is returned by the client-credentials token endpoint.
type TokenResponse struct {
	// AccessToken is the JWT used to authenticate machine API requests.
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`

	// Scope is the space-delimited list of granted application scopes.
	Scope string `json:"scope,omitempty"`
}

// UserInfo is the public view of a user account.
type UserInfo struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Handle        string     `json:"handle"`
	EmailVerified bool       `json:"email_verified"`
	Scopes        []string   `json:"scopes,omitempty"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// AuthResponse is returned when a signup or login flow completes: the new
// session tokens plus the authenticated user. RefreshToken is present only
// when the session was created with keep_me_logged_in.
type AuthResponse struct {
	User         UserInfo  `json:"user"`
	SessionToken string    `json:"session_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionTokensResponse is returned by the refresh endpoint: a freshly
// rotated session/refresh token pair.
type SessionTokensResponse struct {
	SessionToken string    `json:"session_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionInfo is session metadata for "manage my devices"; raw tokens are
// never included.
type SessionInfo struct {
	ID             string    `json:"id"`
	KeepMeLoggedIn bool      `json:"keep_me_logged_in"`
	UserAgent      string    `json:"user_agent,omitempty"`
	IPAddress      string    `json:"ip_address,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastUsedAt     time.Time `json:"last_used_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	CurrentSession bool      `json:"current_session"`
}

// SessionListResponse wraps the device listing.
type SessionListResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

// LogoutAllResponse reports how many sessions were terminated, used for
// user-facing confirmation messaging.
type LogoutAllResponse struct {
	TerminatedCount int `json:"terminated_count"`
}

// MessageResponse is a generic acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ClientInfo is the public view of a registered machine client. The secret
// hash never leaves the server.
type ClientInfo struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	AllowedScopes  []string   `json:"allowed_scopes"`
	TokenExpiresIn int        `json:"token_expires_in"`
	IsActive       bool       `json:"is_active"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ClientSecretResponse carries a freshly generated client secret. It is
// returned exactly once, at creation or rotation; the server keeps only a
// hash.
type ClientSecretResponse struct {
	Client       ClientInfo `json:"client"`
	ClientSecret string     `json:"client_secret"`
}

// ClientListResponse wraps the client listing.
type ClientListResponse struct {
	Clients []ClientInfo `json:"clients"`
}

// HealthResponse is returned by the health endpoints. Checks is
// populated by readyz only.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
