package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/prboard/internal/domain/port/driven"
)

// GitHubTokenService is the credential-store key for the GitHub token.
const GitHubTokenService = "github"

// ErrEmptyToken is returned by Save for a blank token.
var ErrEmptyToken = errors.New("token must not be empty")

// ClientFactory builds a GitHub client for a token. An empty token yields an
// unauthenticated client.
type ClientFactory func(token string) (driven.GitHubClient, error)

// TokenSource tells where the active token came from.
type TokenSource string

const (
	TokenSourceNone   TokenSource = "none"
	TokenSourceEnv    TokenSource = "env"
	TokenSourceStored TokenSource = "stored"
)

// TokenStatus describes the token configuration for the settings page.
type TokenStatus struct {
	StorageEnabled bool
	Source         TokenSource
	Masked         string
	UpdatedAt      time.Time
}

// TokenService manages the GitHub token kept in the credential store and
// swaps the provider's client whenever it changes. A stored token takes
// priority over the token from the environment.
type TokenService struct {
	store    driven.CredentialStore
	provider *GitHubClientProvider
	factory  ClientFactory
	envToken string
}

// NewTokenService creates a TokenService. envToken is the fallback used when
// nothing is stored.
func NewTokenService(store driven.CredentialStore, provider *GitHubClientProvider, factory ClientFactory, envToken string) *TokenService {
	return &TokenService{
		store:    store,
		provider: provider,
		factory:  factory,
		envToken: envToken,
	}
}

// Activate resolves the token at startup and installs a client for it.
// An unreadable store is logged and the environment token is used instead.
func (s *TokenService) Activate(ctx context.Context) (TokenSource, error) {
	token, source := s.envToken, TokenSourceEnv
	cred, err := s.store.Fetch(ctx, GitHubTokenService)
	switch {
	case errors.Is(err, driven.ErrEncryptionKeyNotSet), errors.Is(err, driven.ErrCredentialNotFound):
	case err != nil:
		slog.Warn("stored github token unreadable, falling back to environment", "error", err)
	default:
		token, source = cred.Value, TokenSourceStored
	}
	if token == "" {
		source = TokenSourceNone
	}

	if err := s.install(token); err != nil {
		return source, err
	}
	return source, nil
}

// Save stores token and switches to a client using it.
func (s *TokenService) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	if err := s.store.Put(ctx, GitHubTokenService, token); err != nil {
		return fmt.Errorf("store github token: %w", err)
	}
	if err := s.install(token); err != nil {
		return err
	}

	slog.Info("github token updated")
	return nil
}

// Clear removes the stored token and reverts to the environment token.
func (s *TokenService) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, GitHubTokenService); err != nil {
		return fmt.Errorf("delete github token: %w", err)
	}
	if err := s.install(s.envToken); err != nil {
		return err
	}

	slog.Info("stored github token cleared")
	return nil
}

// Status reports which token is active without revealing it.
func (s *TokenService) Status(ctx context.Context) (TokenStatus, error) {
	status := TokenStatus{StorageEnabled: true, Source: TokenSourceNone}
	if s.envToken != "" {
		status.Source = TokenSourceEnv
		status.Masked = MaskToken(s.envToken)
	}

	cred, err := s.store.Fetch(ctx, GitHubTokenService)
	switch {
	case errors.Is(err, driven.ErrEncryptionKeyNotSet):
		status.StorageEnabled = false
	case errors.Is(err, driven.ErrCredentialNotFound):
	case err != nil:
		return status, fmt.Errorf("read stored github token: %w", err)
	default:
		status.Source = TokenSourceStored
		status.Masked = MaskToken(cred.Value)
		status.UpdatedAt = cred.UpdatedAt
	}
	return status, nil
}

func (s *TokenService) install(token string) error {
	client, err := s.factory(token)
	if err != nil {
		return fmt.Errorf("create github client: %w", err)
	}
	s.provider.Replace(client)
	return nil
}

// MaskToken hides all but the last four characters of a token.
func MaskToken(token string) string {
	const visible = 4
	if len(token) <= visible {
		return strings.Repeat("•", len(token))
	}
	return strings.Repeat("•", 8) + token[len(token)-visible:]
}
