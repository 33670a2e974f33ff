package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/prboard/internal/domain/model"
	"github.com/ericfisherdev/prboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port.
// Values are sealed with AES-256-GCM before write and opened after read.
type CredentialRepo struct {
	db     *DB
	sealer *sealer // nil when storage is disabled
}

// NewCredentialRepo creates a CredentialRepo. key must be 32 bytes, or nil to
// disable storage; Put and Fetch then return driven.ErrEncryptionKeyNotSet.
func NewCredentialRepo(db *DB, key []byte) (*CredentialRepo, error) {
	repo := &CredentialRepo{db: db}
	if key == nil {
		return repo, nil
	}

	s, err := newSealer(key)
	if err != nil {
		return nil, err
	}
	repo.sealer = s
	return repo, nil
}

// Enabled reports whether an encryption key was configured.
func (r *CredentialRepo) Enabled() bool {
	return r.sealer != nil
}

// Put seals secret and upserts it for service.
func (r *CredentialRepo) Put(ctx context.Context, service, secret string) error {
	if r.sealer == nil {
		return driven.ErrEncryptionKeyNotSet
	}
	if secret == "" {
		return fmt.Errorf("put credential %q: empty secret", service)
	}

	sealed, err := r.sealer.seal(service, secret)
	if err != nil {
		return fmt.Errorf("seal credential %q: %w", service, err)
	}

	const query = `INSERT INTO credentials (service, sealed_value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(service) DO UPDATE SET sealed_value = excluded.sealed_value, updated_at = excluded.updated_at`
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.Writer.ExecContext(ctx, query, service, sealed, now); err != nil {
		return fmt.Errorf("put credential %q: %w", service, err)
	}
	return nil
}

// Fetch reads and opens the credential for service.
func (r *CredentialRepo) Fetch(ctx context.Context, service string) (model.Credential, error) {
	if r.sealer == nil {
		return model.Credential{}, driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT sealed_value, updated_at FROM credentials WHERE service = ?`
	var sealed, updatedAt string
	err := r.db.Reader.QueryRowContext(ctx, query, service).Scan(&sealed, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credential{}, driven.ErrCredentialNotFound
	}
	if err != nil {
		return model.Credential{}, fmt.Errorf("fetch credential %q: %w", service, err)
	}

	value, err := r.sealer.open(service, sealed)
	if err != nil {
		return model.Credential{}, fmt.Errorf("decrypt credential %q: %w", service, err)
	}
	ts, err := parseTime(updatedAt)
	if err != nil {
		return model.Credential{}, fmt.Errorf("parse updated_at for credential %q: %w", service, err)
	}

	return model.Credential{Service: service, Value: value, UpdatedAt: ts}, nil
}

// Remove deletes the credential for service.
func (r *CredentialRepo) Remove(ctx context.Context, service string) error {
	const query = `DELETE FROM credentials WHERE service = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, service); err != nil {
		return fmt.Errorf("remove credential %q: %w", service, err)
	}
	return nil
}
