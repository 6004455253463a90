package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/covenhall/arcana/internal/auth/authz"
	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/service"
	"github.com/covenhall/arcana/pkg/authsdk"
	"github.com/covenhall/arcana/pkg/httpx"
	"github.com/covenhall/arcana/pkg/slogx"
)

// ClientsHandler serves the machine-client registry. Every operation
// requires the admin app scope AND an admin user session; registry
// changes are always attributable to a person.
type ClientsHandler struct {
	ClientService *service.ClientService
}

type createClientRequest struct {
	Name           string   `json:"name"`
	AllowedScopes  []string `json:"allowed_scopes"`
	TokenExpiresIn int      `json:"token_expires_in,omitempty"` // seconds
	Protected      bool     `json:"protected,omitempty"`
}

type updateClientRequest struct {
	Name           *string  `json:"name,omitempty"`
	AllowedScopes  []string `json:"allowed_scopes,omitempty"`
	TokenExpiresIn *int     `json:"token_expires_in,omitempty"` // seconds
	IsActive       *bool    `json:"is_active,omitempty"`
}

func (h *ClientsHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if apiErr := authz.FromContext(r.Context()).RequireBoth(ScopeAdmin, ScopeAdmin); apiErr != nil {
		apiErr.WriteError(w)
		return false
	}
	return true
}

// HandleCreate godoc
//
//	@Summary		Create Client
//	@Description	Registers a machine client and returns its secret. The secret is shown exactly
//	@Description	once; only a hash is stored.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Param			request	body		createClientRequest				true	"name, allowed_scopes, token_expires_in, protected"
//	@Success		201		{object}	authsdk.ClientSecretResponse	"client, client_secret"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Router			/v1/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.requireAdmin(w, r) {
		return
	}

	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrValidation.WithDescription("malformed JSON body").WriteError(w)
		return
	}

	client, secret, err := h.ClientService.CreateClient(ctx,
		req.Name, req.AllowedScopes, time.Duration(req.TokenExpiresIn)*time.Second, req.Protected)
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.ClientSecretResponse{
		Client:       clientInfo(client),
		ClientSecret: secret,
	})
}

// HandleList godoc
//
//	@Summary		List Clients
//	@Description	Returns every registered machine client. Secret hashes are never included.
//	@Tags			Clients
//	@Produce		json
//	@Success		200	{object}	authsdk.ClientListResponse	"clients"
//	@Failure		401	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		403	{object}	authsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Router			/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.requireAdmin(w, r) {
		return
	}

	clients, err := h.ClientService.ListClients(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("client listing failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]authsdk.ClientInfo, 0, len(clients))
	for i := range clients {
		out = append(out, clientInfo(&clients[i]))
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.ClientListResponse{Clients: out})
}

// HandleUpdate godoc
//
//	@Summary		Update Client
//	@Description	Applies a partial update. Setting is_active to false disables future token
//	@Description	mints without deleting the registration.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Client ID"
//	@Param			request	body		updateClientRequest		true	"name, allowed_scopes, token_expires_in, is_active"
//	@Success		200		{object}	authsdk.ClientInfo		"client"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Router			/v1/clients/{id} [patch].
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.requireAdmin(w, r) {
		return
	}

	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrValidation.WithDescription("malformed JSON body").WriteError(w)
		return
	}

	patch := domain.ClientPatch{
		Name:          req.Name,
		AllowedScopes: req.AllowedScopes,
		IsActive:      req.IsActive,
	}
	if req.TokenExpiresIn != nil {
		d := time.Duration(*req.TokenExpiresIn) * time.Second
		patch.TokenExpiresIn = &d
	}

	client, err := h.ClientService.UpdateClient(ctx, r.PathValue("id"), patch)
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientInfo(client))
}

// HandleRegenerateSecret godoc
//
//	@Summary		Regenerate Client Secret
//	@Description	Replaces the client's secret and returns the new one exactly once. Previously
//	@Description	minted tokens stay valid until they expire.
//	@Tags			Clients
//	@Produce		json
//	@Param			id	path		string							true	"Client ID"
//	@Success		200	{object}	authsdk.ClientSecretResponse	"client, client_secret"
//	@Failure		401	{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		404	{object}	authsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Router			/v1/clients/{id}/secret [post].
func (h *ClientsHandler) HandleRegenerateSecret(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.requireAdmin(w, r) {
		return
	}

	client, secret, err := h.ClientService.RegenerateSecret(ctx, r.PathValue("id"))
	if err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ClientSecretResponse{
		Client:       clientInfo(client),
		ClientSecret: secret,
	})
}

// HandleDelete godoc
//
//	@Summary		Delete Client
//	@Description	Permanently removes a client. Protected clients cannot be deleted, only disabled.
//	@Tags			Clients
//	@Produce		json
//	@Param			id	path		string					true	"Client ID"
//	@Success		200	{object}	authsdk.MessageResponse	"message"
//	@Failure		401	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Router			/v1/clients/{id} [delete].
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.requireAdmin(w, r) {
		return
	}

	if err := h.ClientService.DeleteClient(ctx, r.PathValue("id")); err != nil {
		writeClientError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "client deleted"})
}

func clientInfo(c *domain.Client) authsdk.ClientInfo {
	return authsdk.ClientInfo{
		ID:             c.ID,
		Name:           c.Name,
		AllowedScopes:  c.AllowedScopes,
		TokenExpiresIn: int(c.TokenExpiresIn.Seconds()),
		IsActive:       c.IsActive,
		LastUsedAt:     c.LastUsedAt,
		CreatedAt:      c.CreatedAt,
	}
}

func writeClientError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		authsdk.ErrNotFound.WithDescription("client not found").WriteError(w)
	case errors.Is(err, service.ErrClientProtected):
		authsdk.ErrForbidden.WithDescription("protected clients cannot be deleted").WriteError(w)
	case errors.Is(err, service.ErrInvalidName):
		authsdk.ErrValidation.WithDescription("client name is required").WriteError(w)
	case errors.Is(err, service.ErrInvalidScope):
		authsdk.ErrValidation.WithDescription("allowed_scopes must be non-empty lowercase identifiers").WriteError(w)
	default:
		slogx.FromContext(ctx).Error("client operation failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
