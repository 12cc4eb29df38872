package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ymatsuda/taskpad/internal/model"
)

func TestNewWiresFileBackend(t *testing.T) {
	t.Setenv(model.EnvAssistantKey, "test-key")

	cfg := &model.AppConfig{
		Assistant: model.AssistantConfig{Endpoint: "https://example.com"},
		Storage: model.StorageConfig{
			Backend: model.StorageBackendFile,
			Path:    filepath.Join(t.TempDir(), "tasks.json"),
		},
	}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, ok := a.Store.Add(context.Background(), "Buy milk", "", nil); !ok {
		t.Error("store from New rejected a valid add")
	}
	if a.Assistant == nil {
		t.Error("assistant bridge not wired")
	}
}

func TestNewWiresSQLiteBackend(t *testing.T) {
	t.Setenv(model.EnvAssistantKey, "test-key")

	cfg := &model.AppConfig{
		Storage: model.StorageConfig{
			Backend: model.StorageBackendSQLite,
			Path:    filepath.Join(t.TempDir(), "tasks.db"),
		},
	}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	t.Setenv(model.EnvAssistantKey, "test-key")

	cfg := &model.AppConfig{
		Storage: model.StorageConfig{Backend: "cloud"},
	}

	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("New accepted an unknown storage backend")
	}
}
