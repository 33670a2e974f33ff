package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

// testKey is a fixed 32-byte AES-256 key for repository tests.
var testKey = []byte("0123456789abcdef0123456789abcdef")

// setupTestDB opens a migrated database in a per-test temporary directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "prboard.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

func newTestCredentialRepo(t *testing.T, key []byte) *CredentialRepo {
	t.Helper()

	repo, err := NewCredentialRepo(setupTestDB(t), key)
	if err != nil {
		t.Fatalf("new credential repo: %v", err)
	}
	return repo
}
