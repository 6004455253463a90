package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/covenhall/arcana/internal/auth/domain"
	"github.com/covenhall/arcana/internal/auth/store"
	"github.com/covenhall/arcana/pkg/cryptox"
	"github.com/covenhall/arcana/pkg/idx"
	"github.com/covenhall/arcana/pkg/slogx"
)

var (
	ErrClientNotFound  = errors.New("client_not_found")
	ErrClientProtected = errors.New("client_protected")
	ErrInvalidName     = errors.New("invalid_name")
)

// ClientService manages the registry of machine clients. Secrets are
// generated here, returned exactly once, and persisted only as
// argon2id hashes.
type ClientService struct {
	Store store.Store

	// DefaultTokenTTL applies when a client is created without an
	// explicit token lifetime.
	DefaultTokenTTL time.Duration
}

// CreateClient registers a new client and returns it alongside the
// plaintext secret. The secret is not recoverable afterwards.
func (s *ClientService) CreateClient(
	ctx context.Context,
	name string,
	allowedScopes []string,
	tokenExpiresIn time.Duration,
	protected bool,
) (*domain.Client, string, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", ErrInvalidName
	}
	for _, scope := range allowedScopes {
		if !validScopeName(scope) {
			return nil, "", ErrInvalidScope
		}
	}
	if len(allowedScopes) == 0 {
		return nil, "", ErrInvalidScope
	}
	if tokenExpiresIn <= 0 {
		tokenExpiresIn = s.DefaultTokenTTL
	}

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, "", err
	}
	secretHash, err := cryptox.HashSecret(secret)
	if err != nil {
		return nil, "", err
	}

	client := domain.Client{
		ID:             idx.New().String(),
		Name:           name,
		SecretHash:     secretHash,
		AllowedScopes:  dedupe(allowedScopes),
		TokenExpiresIn: tokenExpiresIn,
		IsActive:       true,
		Protected:      protected,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Store.Clients().CreateClient(ctx, client); err != nil {
		return nil, "", err
	}

	l.Info("client created", "client_id", client.ID, "name", name)
	return &client, secret, nil
}

// RegenerateSecret replaces a client's secret, invalidating the old
// one for future mints. Tokens already issued stay valid until they
// expire.
func (s *ClientService) RegenerateSecret(ctx context.Context, clientID string) (*domain.Client, string, error) {
	now := time.Now()

	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrClientNotFound
		}
		return nil, "", err
	}

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, "", err
	}
	secretHash, err := cryptox.HashSecret(secret)
	if err != nil {
		return nil, "", err
	}

	if err := s.Store.Clients().UpdateClientSecretHash(ctx, clientID, secretHash, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrClientNotFound
		}
		return nil, "", err
	}

	client.SecretHash = secretHash
	client.UpdatedAt = now

	slogx.FromContext(ctx).Info("client secret regenerated", "client_id", clientID)
	return &client, secret, nil
}

// UpdateClient applies a partial update. Setting is_active to false
// disables future mints without destroying the registration.
func (s *ClientService) UpdateClient(ctx context.Context, clientID string, patch domain.ClientPatch) (*domain.Client, error) {
	now := time.Now()

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrInvalidName
	}
	if patch.AllowedScopes != nil {
		if len(patch.AllowedScopes) == 0 {
			return nil, ErrInvalidScope
		}
		for _, scope := range patch.AllowedScopes {
			if !validScopeName(scope) {
				return nil, ErrInvalidScope
			}
		}
		patch.AllowedScopes = dedupe(patch.AllowedScopes)
	}

	if !patch.IsZero() {
		if err := s.Store.Clients().UpdateClient(ctx, clientID, patch, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
	}

	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

// DeleteClient permanently removes a client. Protected clients (the
// bootstrap admin client) cannot be deleted, only disabled.
func (s *ClientService) DeleteClient(ctx context.Context, clientID string) error {
	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.Protected {
		return ErrClientProtected
	}

	if err := s.Store.Clients().DeleteClient(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("client deleted", "client_id", clientID)
	return nil
}

// ListClients returns every registered client.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.Store.Clients().ListClients(ctx)
}

// GetClient returns a single client by ID.
func (s *ClientService) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}
