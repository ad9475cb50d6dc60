// Package sqlite implements the Taskbook store on a single SQLite file:
// the shared handle and its write guard, the category, tag, task and
// project repositories, and the seed loader.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskbook/internal/logging"
	"github.com/mesh-intelligence/taskbook/internal/validation"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

var _ types.Tracker = (*Backend)(nil)

// connPragmas are applied to every pooled connection through the DSN.
var connPragmas = []string{
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"busy_timeout(5000)",
}

// Backend owns the one logical connection to the database file. The file is
// opened and the schema applied on first use. Mutations hold the write lock
// exclusively; reads share it.
type Backend struct {
	mu     sync.RWMutex // write guard; always taken before openMu
	openMu sync.Mutex   // protects db during lazy open
	db     *sql.DB

	config    types.Config
	logger    *slog.Logger
	validator *validation.Validator

	categories *categoriesTable
	tags       *tagsTable
	tasks      *tasksTable
	projects   *projectsTable
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used by the backend.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend validates config and returns a backend that has not touched
// the filesystem yet.
func NewBackend(config types.Config, opts ...Option) (*Backend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{
		config:    config.WithDefaults(),
		logger:    logging.Discard(),
		validator: validation.New(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.categories = &categoriesTable{backend: b}
	b.tags = &tagsTable{backend: b}
	b.tasks = &tasksTable{backend: b}
	b.projects = &projectsTable{backend: b}
	return b, nil
}

// Path returns the database file location.
func (b *Backend) Path() string { return b.config.DatabasePath() }

// Categories returns the category repository.
func (b *Backend) Categories() types.CategoryRepository { return b.categories }

// Tags returns the tag repository.
func (b *Backend) Tags() types.TagRepository { return b.tags }

// Tasks returns the task repository.
func (b *Backend) Tasks() types.TaskRepository { return b.tasks }

// Projects returns the project repository.
func (b *Backend) Projects() types.ProjectRepository { return b.projects }

// EnsureSchema opens the database if needed and creates any missing table.
// Returns a *types.StoreInitError if the file or schema cannot be prepared.
func (b *Backend) EnsureSchema() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.handle()
	if err != nil {
		return err
	}

	if err := applySchema(db); err != nil {
		return &types.StoreInitError{Path: b.Path(), Err: err}
	}
	return nil
}

// WithWriteLock runs fn inside a transaction while holding the write lock.
// The transaction commits when fn returns nil and rolls back otherwise; the
// lock is released on every path.
func (b *Backend) WithWriteLock(fn func(tx *sql.Tx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.handle()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			b.logger.Error("rolling back transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DropAll drops and recreates every table in one transaction under the
// write lock. Used before a fresh seed import.
func (b *Backend) DropAll() error {
	err := b.WithWriteLock(func(tx *sql.Tx) error {
		for _, table := range dropOrder {
			if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return fmt.Errorf("dropping %s: %w", table, err)
			}
		}
		return applySchema(tx)
	})
	if err != nil {
		return wrapErr("drop", "all", err)
	}
	b.logger.Debug("dropped and recreated all tables", "path", b.Path())
	return nil
}

// Detach closes the database handle. Detach is idempotent; a later
// operation reopens the file.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.openMu.Lock()
	defer b.openMu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// handle returns the open database, opening it and applying the schema on
// first use. Callers hold mu (shared or exclusive) so Detach cannot close the
// handle underneath them.
func (b *Backend) handle() (*sql.DB, error) {
	b.openMu.Lock()
	defer b.openMu.Unlock()

	if b.db != nil {
		return b.db, nil
	}

	path := b.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &types.StoreInitError{Path: path, Err: err}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, &types.StoreInitError{Path: path, Err: err}
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, &types.StoreInitError{Path: path, Err: err}
	}

	b.logger.Debug("opened database", "path", path)
	b.db = db
	return db, nil
}

// read runs fn against the database while sharing the write lock.
func (b *Backend) read(op, entity string, fn func(q queryer) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.handle()
	if err != nil {
		return err
	}
	return wrapErr(op, entity, fn(db))
}

// write runs fn in a write-locked transaction and wraps any failure as a
// *types.PersistenceError.
func (b *Backend) write(op, entity string, fn func(tx *sql.Tx) error) error {
	return wrapErr(op, entity, b.WithWriteLock(fn))
}

// validate checks an entity before any statement is issued.
func (b *Backend) validate(entity string, v any) error {
	return b.validator.Validate(entity, v)
}

// wrapErr converts err to a *types.PersistenceError unless it already
// carries a store error kind.
func wrapErr(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrStoreInit) || errors.Is(err, types.ErrPersistence) || errors.Is(err, types.ErrInvalidData) {
		return err
	}
	return &types.PersistenceError{Op: op, Entity: entity, Err: err}
}

// applySchema executes every CREATE statement. It accepts a *sql.DB or a
// *sql.Tx.
func applySchema(q queryer) error {
	for _, ddl := range schemaDDL {
		if _, err := q.Exec(ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := q.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// dsn builds a modernc.org/sqlite data source name with per-connection
// pragmas.
func dsn(path string) string {
	params := make([]string, len(connPragmas))
	for i, p := range connPragmas {
		params[i] = "_pragma=" + p
	}
	return path + "?" + strings.Join(params, "&")
}
