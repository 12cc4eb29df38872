package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ymatsuda/taskpad/internal/model"
)

// FileAdapter stores the task collection as a single JSON file.
// It is the zero-dependency fallback backend for environments where
// a SQLite database is unwanted.
type FileAdapter struct {
	path string
}

// NewFileAdapter creates a file-backed adapter writing to path,
// creating the parent directory if needed.
func NewFileAdapter(path string) (*FileAdapter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", dir, err)
	}
	return &FileAdapter{path: path}, nil
}

// Load reads the stored collection. A missing file yields an empty
// collection and no error.
func (a *FileAdapter) Load(_ context.Context) ([]model.Task, error) {
	b, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", a.path, err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("unmarshaling %s: %w", a.path, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	return tasks, nil
}

// Save serializes the entire collection and atomically replaces the
// file, writing to a temp file first so a crash mid-write never
// leaves a truncated blob behind.
func (a *FileAdapter) Save(_ context.Context, tasks []model.Task) error {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tasks: %w", err)
	}

	tmp := a.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, a.path); err != nil {
		return fmt.Errorf("replacing %s: %w", a.path, err)
	}

	return nil
}

// Close is a no-op; the adapter holds no open resources.
func (a *FileAdapter) Close() error {
	return nil
}
