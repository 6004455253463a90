package authsdk

import (
	"context"
	"net/http"
)

// RefreshSession rotates a refresh token into a new session/refresh pair.
// userID must be the owner of the session the refresh token belongs to.
func (c *Client) RefreshSession(ctx context.Context, refreshToken, userID string) (*SessionTokensResponse, error) {
	body := map[string]string{
		"refresh_token": refreshToken,
		"user_id":       userID,
	}

	var out SessionTokensResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout terminates the current session (the one identified by the session
// token this client carries).
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)
}

// LogoutAll terminates every session of the current user and reports how
// many were closed.
func (c *Client) LogoutAll(ctx context.Context) (*LogoutAllResponse, error) {
	var out LogoutAllResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/logout_all", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sessions lists the current user's sessions (device metadata only).
func (c *Client) Sessions(ctx context.Context) (*SessionListResponse, error) {
	var out SessionListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/auth/sessions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
