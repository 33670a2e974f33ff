package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/prboard/internal/domain/model"
)

var (
	// ErrEncryptionKeyNotSet is returned when credential storage is disabled
	// because PRBOARD_SECRET_KEY was not configured.
	ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set PRBOARD_SECRET_KEY")

	// ErrCredentialNotFound is returned by Fetch when nothing is stored for a service.
	ErrCredentialNotFound = errors.New("credential not found")
)

// CredentialStore persists secrets for external services, keyed by service
// name. Values cross this boundary in plaintext; encryption at rest is the
// adapter's job.
type CredentialStore interface {
	// Put stores secret for service, replacing any previous value.
	Put(ctx context.Context, service, secret string) error

	// Fetch returns the credential for service or ErrCredentialNotFound.
	Fetch(ctx context.Context, service string) (model.Credential, error)

	// Remove deletes the credential for service. Removing a missing
	// credential succeeds, and works even when storage is disabled.
	Remove(ctx context.Context, service string) error
}
