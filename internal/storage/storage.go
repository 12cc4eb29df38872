// Package storage persists the task collection. Every backend treats
// the collection as one opaque blob: Save replaces the whole stored
// copy and Load reads it back, so there is no partial patching and no
// per-task schema to migrate.
package storage

import (
	"context"

	"github.com/ymatsuda/taskpad/internal/model"
)

// Adapter is the persistence contract used by the task store.
//
// Load returns an empty collection (not an error) when nothing has
// been persisted yet. Errors from either method are reported to the
// caller; the task store treats them as non-fatal.
type Adapter interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
	Close() error
}
