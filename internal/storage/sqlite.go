package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ymatsuda/taskpad/internal/model"
)

// stateKey is the single row under which the serialized collection
// lives. The table is keyed so future state blobs can share it.
const stateKey = "tasks"

// SQLiteAdapter stores the task collection as one JSON blob in a
// local SQLite database.
type SQLiteAdapter struct {
	db *sqlx.DB
}

// NewSQLiteAdapter opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteAdapter(dbPath string) (*SQLiteAdapter, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection keeps :memory: databases coherent and matches
	// the single-threaded access pattern of the task store.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	a := &SQLiteAdapter{db: db}
	if err := a.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return a, nil
}

// Close closes the underlying database connection.
func (a *SQLiteAdapter) Close() error {
	return a.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (a *SQLiteAdapter) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := a.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = a.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := a.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Load reads the stored collection. A database that has never been
// saved to yields an empty collection and no error.
func (a *SQLiteAdapter) Load(ctx context.Context) ([]model.Task, error) {
	var data string
	err := a.db.GetContext(ctx, &data,
		"SELECT data FROM task_state WHERE key = ?", stateKey,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading task state: %w", err)
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(data), &tasks); err != nil {
		return nil, fmt.Errorf("unmarshaling task state: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	return tasks, nil
}

// Save serializes the entire collection and replaces the stored blob.
func (a *SQLiteAdapter) Save(ctx context.Context, tasks []model.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshaling task state: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO task_state (key, data, updated_at)
		VALUES (?, ?, ?)`,
		stateKey, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing task state: %w", err)
	}

	return nil
}
