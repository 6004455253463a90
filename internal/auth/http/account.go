package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/covenhall/arcana/internal/auth/authz"
	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/service"
	"github.com/covenhall/arcana/pkg/authsdk"
	"github.com/covenhall/arcana/pkg/httpx"
	"github.com/covenhall/arcana/pkg/slogx"
)

// AccountHandler serves the passwordless signup and login flows. All
// four endpoints require the calling gateway's app scope; end users
// never talk to this service directly.
type AccountHandler struct {
	AccountService *service.AccountService
}

type initiateRequest struct {
	Email string `json:"email"`
}

type completeSignupRequest struct {
	Email          string `json:"email"`
	Code           string `json:"code"`
	Handle         string `json:"handle"`
	KeepMeLoggedIn bool   `json:"keep_me_logged_in"`
}

type completeLoginRequest struct {
	Email          string `json:"email"`
	Code           string `json:"code"`
	KeepMeLoggedIn bool   `json:"keep_me_logged_in"`
}

// HandleSignupInitiate godoc
//
//	@Summary		Initiate Signup
//	@Description	Sends a six-digit verification code to a new email address. Rejected when an
//	@Description	account already exists for the address or a code was issued within the cooldown.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		initiateRequest			true	"email"
//	@Success		202		{object}	authsdk.MessageResponse	"message"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/signup/initiate [post].
func (h *AccountHandler) HandleSignupInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if apiErr := authz.FromContext(ctx).RequireAppScope(ScopeAuth); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrValidation.WithDescription("malformed JSON body").WriteError(w)
		return
	}

	if err := h.AccountService.InitiateSignup(ctx, req.Email); err != nil {
		writeAccountError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, authsdk.MessageResponse{
		Message: "verification code sent",
	})
}

// HandleSignupComplete godoc
//
//	@Summary		Complete Signup
//	@Description	Validates the emailed code, creates the account, and opens its first session.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		completeSignupRequest	true	"email, code, handle, keep_me_logged_in"
//	@Success		201		{object}	authsdk.AuthResponse	"user, session_token, refresh_token, expires_in, expires_at"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/signup/complete [post].
func (h *AccountHandler) HandleSignupComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if apiErr := authz.FromContext(ctx).RequireAppScope(ScopeAuth); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	var req completeSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrValidation.WithDescription("malformed JSON body").WriteError(w)
		return
	}

	user, tokens, err := h.AccountService.CompleteSignup(ctx,
		req.Email, req.Code, req.Handle, req.KeepMeLoggedIn, requestMeta(r))
	if err != nil {
		writeAccountError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authResponse(user, tokens))
}

// HandleLoginInitiate godoc
//
//	@Summary		Initiate Login
//	@Description	Sends a six-digit verification code to an existing account's email address.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		initiateRequest			true	"email"
//	@Success		202		{object}	authsdk.MessageResponse	"message"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/login/initiate [post].
func (h *AccountHandler) HandleLoginInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if apiErr := authz.FromContext(ctx).RequireAppScope(ScopeAuth); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrValidation.WithDescription("malformed JSON body").WriteError(w)
		return
	}

	if err := h.AccountService.InitiateLogin(ctx, req.Email); err != nil {
		writeAccountError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, authsdk.MessageResponse{
		Message: "verification code sent",
	})
}

// HandleLoginComplete godoc
//
//	@Summary		Complete Login
//	@Description	Validates the emailed code and opens a session for the account.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		completeLoginRequest	true	"email, code, keep_me_logged_in"
//	@Success		200		{object}	authsdk.AuthResponse	"user, session_token, refresh_token, expires_in, expires_at"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/login/complete [post].
func (h *AccountHandler) HandleLoginComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if apiErr := authz.FromContext(ctx).RequireAppScope(ScopeAuth); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	var req completeLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrValidation.WithDescription("malformed JSON body").WriteError(w)
		return
	}

	user, tokens, err := h.AccountService.CompleteLogin(ctx,
		req.Email, req.Code, req.KeepMeLoggedIn, requestMeta(r))
	if err != nil {
		writeAccountError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authResponse(user, tokens))
}

func authResponse(user *domain.User, tokens *domain.SessionTokens) authsdk.AuthResponse {
	return authsdk.AuthResponse{
		User: authsdk.UserInfo{
			ID:            user.ID,
			Email:         user.Email,
			Handle:        user.Handle,
			EmailVerified: user.EmailVerified,
			Scopes:        user.AllowedScopes,
			LastLoginAt:   user.LastLoginAt,
		},
		SessionToken: tokens.SessionToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    int(tokens.ExpiresIn.Seconds()),
		ExpiresAt:    tokens.ExpiresAt,
	}
}

// writeAccountError maps account/verification sentinels onto the API
// error taxonomy. Anything unmapped is logged and hidden behind
// server_error.
func writeAccountError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		authsdk.ErrValidation.WithDescription("invalid email address").WriteError(w)
	case errors.Is(err, service.ErrInvalidHandle):
		authsdk.ErrValidation.WithDescription("invalid handle").WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		authsdk.ErrConflict.WithDescription("an account already exists for this email").WriteError(w)
	case errors.Is(err, service.ErrHandleTaken):
		authsdk.ErrConflict.WithDescription("handle is already taken").WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		authsdk.ErrNotFound.WithDescription("no account for this email").WriteError(w)
	case errors.Is(err, service.ErrCodeCooldown):
		// The service error spells out the remaining cooldown.
		authsdk.ErrTooManyRequests.WithDescription("%s", err.Error()).WriteError(w)
	case errors.Is(err, service.ErrTooManyAttempts):
		authsdk.ErrTooManyRequests.WithDescription("too many invalid codes, request a new one").WriteError(w)
	case errors.Is(err, service.ErrCodeNotFound):
		authsdk.ErrNotFound.WithDescription("no active code for this email").WriteError(w)
	case errors.Is(err, service.ErrCodeExpired):
		authsdk.ErrUnauthorized.WithDescription("verification code expired").WriteError(w)
	case errors.Is(err, service.ErrCodeMismatch):
		var mismatch *service.CodeMismatchError
		if errors.As(err, &mismatch) {
			authsdk.ErrUnauthorized.WithDescription("%s", mismatch.Error()).WriteError(w)
		} else {
			authsdk.ErrUnauthorized.WithDescription("verification code incorrect").WriteError(w)
		}
	default:
		slogx.FromContext(ctx).Error("account operation failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
