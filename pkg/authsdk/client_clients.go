package authsdk

import (
	"context"
	"net/http"
)

// ClientPatch carries the optional fields of a client update; only non-nil
// fields are changed.
type ClientPatch struct {
	Name           *string  `json:"name,omitempty"`
	AllowedScopes  []string `json:"allowed_scopes,omitempty"`
	TokenExpiresIn *int     `json:"token_expires_in,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

// CreateClient registers a new machine client. The returned secret is shown
// exactly once.
func (c *Client) CreateClient(
	ctx context.Context,
	name string,
	allowedScopes []string,
	tokenExpiresIn int,
) (*ClientSecretResponse, error) {
	body := map[string]any{
		"name":             name,
		"allowed_scopes":   allowedScopes,
		"token_expires_in": tokenExpiresIn,
	}

	var out ClientSecretResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/clients", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClients returns all registered machine clients.
func (c *Client) ListClients(ctx context.Context) (*ClientListResponse, error) {
	var out ClientListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/clients", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClient applies a partial update; only the provided fields change.
func (c *Client) UpdateClient(ctx context.Context, clientID string, patch ClientPatch) (*ClientInfo, error) {
	var out ClientInfo
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/clients/"+clientID, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegenerateClientSecret rotates the client secret. The previous secret stops
// verifying immediately; the new one is shown exactly once.
func (c *Client) RegenerateClientSecret(ctx context.Context, clientID string) (*ClientSecretResponse, error) {
	var out ClientSecretResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/clients/"+clientID+"/secret", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClient removes a machine client permanently. Prefer deactivating via
// UpdateClient when tokens may still be in flight.
func (c *Client) DeleteClient(ctx context.Context, clientID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/clients/"+clientID, nil, nil)
}
