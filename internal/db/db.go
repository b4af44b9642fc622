// Package db owns the SQLite handle, the schema and its migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/blotter/internal/logger"
	"github.com/example/blotter/internal/metrics"
)

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

// Options configures Open.
type Options struct {
	Path string
	// AllowDestructiveRebuild lets Open drop and recreate every table when no
	// migration path exists. Pre-release only: all data is lost.
	AllowDestructiveRebuild bool
	// Migrations overrides the built-in steps (tests).
	Migrations []Migration
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
}

// DefaultPath returns ~/.blotter/blotter.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".blotter", "blotter.db"), nil
}

// DSN builds the sqlite3 data source name for a path.
func DSN(path string) string {
	if path == MemoryPath || path == "" {
		return "file::memory:?_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
}

// Open opens the store and runs migrations before returning. A migration
// failure closes the handle and returns a MigrationError.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.Path != "" && opts.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", DSN(opts.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serialises writers and keeps :memory: stores on a single database.
	database.SetMaxOpenConns(1)

	if _, err := database.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	migrations := opts.Migrations
	if migrations == nil {
		migrations = Migrations()
	}
	migrator := NewMigrator(migrations, log, opts.Metrics, opts.AllowDestructiveRebuild)
	if err := migrator.Init(ctx, database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

var (
	sharedMu  sync.Mutex
	sharedDB  *sql.DB
	sharedErr error
	sharedSet bool
)

// Shared returns the process-wide handle, opening it on first use. Concurrent
// first callers block until migration finishes; later calls return the same
// handle (or the same open error) without reopening.
func Shared(ctx context.Context, opts Options) (*sql.DB, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if !sharedSet {
		sharedDB, sharedErr = Open(ctx, opts)
		sharedSet = true
	}
	return sharedDB, sharedErr
}

// CloseShared closes the process-wide handle and allows a later Shared to reopen.
func CloseShared() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	var err error
	if sharedDB != nil {
		err = sharedDB.Close()
	}
	sharedDB, sharedErr, sharedSet = nil, nil, false
	return err
}
