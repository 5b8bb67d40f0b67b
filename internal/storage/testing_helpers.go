package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sqlsage/sqlsage/internal/config"
)

// NewTestStore creates a temporary SQLite-backed store with auto-cleanup.
// Returns the store and a cleanup function that should be deferred.
func NewTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "sqlsage_test_*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	cfg := config.DatabaseConfig{
		Dialect:        DialectSQLite,
		Path:           filepath.Join(tempDir, "test.db"),
		MaxConnections: 4,
		MaxIdleConns:   2,
		QueryTimeout:   10 * time.Second,
	}

	store, err := Open(cfg)
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("failed to open test store: %v", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test store: %v", err)
		}
		if err := os.RemoveAll(tempDir); err != nil {
			t.Errorf("failed to remove temp dir: %v", err)
		}
	}

	return store, cleanup
}

// MustExec runs setup DDL/DML against the test store, failing the test on error
func MustExec(t *testing.T, store *Store, query string, args ...any) {
	t.Helper()

	if _, err := store.db.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("failed to execute %q: %v", query, err)
	}
}
