package testutil

import (
	"path/filepath"
	"testing"

	"github.com/ymatsuda/taskpad/internal/storage"
)

// NewSQLiteAdapter creates an in-memory SQLite adapter with all
// migrations applied. It is closed automatically when the test ends.
func NewSQLiteAdapter(t *testing.T) *storage.SQLiteAdapter {
	t.Helper()

	a, err := storage.NewSQLiteAdapter(":memory:")
	if err != nil {
		t.Fatalf("creating test sqlite adapter: %v", err)
	}

	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Errorf("closing test sqlite adapter: %v", err)
		}
	})

	return a
}

// NewFileAdapter creates a file adapter writing into a per-test
// temporary directory.
func NewFileAdapter(t *testing.T) *storage.FileAdapter {
	t.Helper()

	a, err := storage.NewFileAdapter(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("creating test file adapter: %v", err)
	}

	return a
}
