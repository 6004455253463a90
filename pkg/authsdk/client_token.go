package authsdk

import (
	"context"
	"net/url"
	"strings"
)

// MintToken exchanges client credentials for an application bearer token
// (client_credentials grant). scopes may be empty to request every scope the
// client is allowed.
func (c *Client) MintToken(
	ctx context.Context,
	clientID, clientSecret string,
	scopes []string,
) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	if len(scopes) > 0 {
		form.Set("scope", strings.Join(scopes, " "))
	}

	var out TokenResponse
	if err := c.doForm(ctx, "/v1/oauth2/token", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
