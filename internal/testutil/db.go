package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/GustavoCaso/spadesk/internal/config"
	"github.com/GustavoCaso/spadesk/internal/storage"
	"github.com/GustavoCaso/spadesk/internal/storage/sqlite"
)

// SetupTestStorage returns a migrated storage backed by a database file in a temp dir,
// so every test gets its own database.
func SetupTestStorage(t *testing.T) storage.Storage {
	t.Helper()

	stor, err := sqlite.New(config.DBConfig{
		Source:      filepath.Join(t.TempDir(), "spadesk.db"),
		BusyTimeout: 5000,
	}, time.UTC)
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}

	if err = stor.ApplyMigrations(context.Background(), TestLogger(t)); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := stor.Close(); err != nil {
			t.Errorf("Failed to close test storage: %v", err)
		}
	})

	return stor
}
