package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/covenhall/arcana/internal/auth/authz"
	"github.com/covenhall/arcana/internal/auth/service"
	"github.com/covenhall/arcana/pkg/authsdk"
	"github.com/covenhall/arcana/pkg/httpx"
	"github.com/covenhall/arcana/pkg/slogx"
)

// SessionsHandler serves session refresh, logout, and listing. Refresh
// is a machine-client operation (the gateway exchanges a stored
// refresh token on the user's behalf); the rest act on the session
// token presented in the request itself.
type SessionsHandler struct {
	SessionService *service.SessionService
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

// HandleRefresh godoc
//
//	@Summary		Refresh Session
//	@Description	Exchanges a refresh token for a rotated session/refresh token pair. The caller
//	@Description	states which user the token should belong to; a mismatch is rejected without
//	@Description	rotating anything. A spent refresh token is rejected.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		refreshRequest					true	"refresh_token, user_id"
//	@Success		200		{object}	authsdk.SessionTokensResponse	"session_token, refresh_token, expires_in, expires_at"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/refresh [post].
func (h *SessionsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if apiErr := authz.FromContext(ctx).RequireAppScope(ScopeAuth); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrValidation.WithDescription("malformed JSON body").WriteError(w)
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" || strings.TrimSpace(req.UserID) == "" {
		authsdk.ErrValidation.WithDescription("refresh_token and user_id are required").WriteError(w)
		return
	}

	tokens, err := h.SessionService.RefreshSession(ctx, req.RefreshToken, req.UserID, requestMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh), errors.Is(err, service.ErrSessionOwner):
			// The owner mismatch deliberately looks identical to an
			// invalid token from the outside.
			authsdk.ErrUnauthorized.WithDescription("invalid refresh token").WriteError(w)
		default:
			log.Error("session refresh failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionTokensResponse{
		SessionToken: tokens.SessionToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    int(tokens.ExpiresIn.Seconds()),
		ExpiresAt:    tokens.ExpiresAt,
	})
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Terminates the session behind the presented session token.
//	@Tags			Sessions
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"message"
//	@Failure		401	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Router			/v1/auth/logout [post].
func (h *SessionsHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	a := authz.FromContext(ctx)
	if apiErr := a.RequireBoth(ScopeAuth, ScopeUserBasic); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	sessionToken := r.Header.Get(SessionTokenHeader)
	if err := h.SessionService.TerminateSession(ctx, sessionToken, a.User.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSession):
			authsdk.ErrUnauthorized.WithDescription("invalid session token").WriteError(w)
		default:
			log.Error("logout failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "logged out"})
}

// HandleLogoutAll godoc
//
//	@Summary		Logout Everywhere
//	@Description	Terminates every session belonging to the authenticated user, including the
//	@Description	one making this request, and reports the count.
//	@Tags			Sessions
//	@Produce		json
//	@Success		200	{object}	authsdk.LogoutAllResponse	"terminated_count"
//	@Failure		401	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Router			/v1/auth/logout_all [post].
func (h *SessionsHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	a := authz.FromContext(ctx)
	if apiErr := a.RequireBoth(ScopeAuth, ScopeUserBasic); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	n, err := h.SessionService.TerminateAllSessions(ctx, a.User.ID)
	if err != nil {
		log.Error("logout_all failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LogoutAllResponse{TerminatedCount: int(n)})
}

// HandleList godoc
//
//	@Summary		List My Sessions
//	@Description	Returns metadata for every session belonging to the authenticated user. Raw
//	@Description	tokens are never included; the requesting session is flagged.
//	@Tags			Sessions
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionListResponse	"sessions"
//	@Failure		401	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Router			/v1/auth/sessions [get].
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	a := authz.FromContext(ctx)
	if apiErr := a.RequireBoth(ScopeAuth, ScopeUserBasic); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	sessions, err := h.SessionService.ListUserSessions(ctx, a.User.ID)
	if err != nil {
		log.Error("session listing failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]authsdk.SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, authsdk.SessionInfo{
			ID:             s.ID,
			KeepMeLoggedIn: s.KeepMeLoggedIn,
			UserAgent:      s.UserAgent,
			IPAddress:      s.IPAddress,
			CreatedAt:      s.CreatedAt,
			LastUsedAt:     s.LastUsedAt,
			ExpiresAt:      s.ExpiresAt,
			CurrentSession: a.Session != nil && a.Session.ID == s.ID,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionListResponse{Sessions: out})
}
