// Package app wires configuration, storage, the task store, and the
// assistant bridge into one embeddable unit. The UI layer hosting
// this module owns rendering and input; nothing here draws anything.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ymatsuda/taskpad/internal/assistant"
	"github.com/ymatsuda/taskpad/internal/credential"
	"github.com/ymatsuda/taskpad/internal/model"
	"github.com/ymatsuda/taskpad/internal/storage"
	"github.com/ymatsuda/taskpad/internal/store"
)

// App bundles the task tracker core for embedding.
type App struct {
	Config    *model.AppConfig
	Store     *store.TaskStore
	Assistant *assistant.Bridge

	adapter storage.Adapter
}

// New builds the application from the given configuration: it opens
// the configured storage backend, loads the persisted collection into
// a task store, and prepares the assistant bridge with the resolved
// API key.
func New(ctx context.Context, cfg *model.AppConfig) (*App, error) {
	adapter, err := openAdapter(cfg.Storage)
	if err != nil {
		return nil, err
	}

	s := store.NewTaskStore(ctx, adapter)

	bridge := assistant.New(assistant.Config{
		Endpoint:    cfg.Assistant.Endpoint,
		APIKey:      resolveAPIKey(),
		MaxTokens:   cfg.Assistant.MaxTokens,
		Temperature: cfg.Assistant.Temperature,
		Timeout:     time.Duration(cfg.Assistant.TimeoutSec) * time.Second,
	})

	return &App{
		Config:    cfg,
		Store:     s,
		Assistant: bridge,
		adapter:   adapter,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.adapter.Close()
}

// openAdapter constructs the persistence adapter selected by the
// storage configuration.
func openAdapter(cfg model.StorageConfig) (storage.Adapter, error) {
	path := cfg.Path
	if path == "" {
		path = model.DefaultStoragePath()
	}

	switch cfg.Backend {
	case model.StorageBackendFile:
		return storage.NewFileAdapter(path)
	case model.StorageBackendSQLite, "":
		return storage.NewSQLiteAdapter(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// resolveAPIKey fetches the assistant secret. An empty result is
// allowed; the bridge will simply get rejected by the endpoint and
// show its fallback answer.
func resolveAPIKey() string {
	key, err := credential.APIKey()
	if err != nil {
		log.Printf("assistant API key unavailable: %v", err)
		return ""
	}
	return key
}
