package authsdk

import (
	"context"
	"net/http"
)

// InitiateSignup requests a verification code for a new account. The code is
// delivered out of band (email); nothing sensitive is returned.
func (c *Client) InitiateSignup(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/signup/initiate", body, nil)
}

// CompleteSignup submits the verification code and creates the account plus
// its first session.
func (c *Client) CompleteSignup(
	ctx context.Context,
	email, code, handle string,
	keepMeLoggedIn bool,
) (*AuthResponse, error) {
	body := map[string]any{
		"email":             email,
		"code":              code,
		"handle":            handle,
		"keep_me_logged_in": keepMeLoggedIn,
	}

	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/signup/complete", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitiateLogin requests a verification code for an existing account.
func (c *Client) InitiateLogin(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/login/initiate", body, nil)
}

// CompleteLogin submits the verification code and opens a session.
func (c *Client) CompleteLogin(
	ctx context.Context,
	email, code string,
	keepMeLoggedIn bool,
) (*AuthResponse, error) {
	body := map[string]any{
		"email":             email,
		"code":              code,
		"keep_me_logged_in": keepMeLoggedIn,
	}

	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login/complete", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
