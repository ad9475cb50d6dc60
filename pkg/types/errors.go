package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrStoreInit reports that the database file or schema could not be
	// prepared. It is fatal to the whole layer.
	ErrStoreInit = errors.New("store initialization failed")

	// ErrPersistence reports that a single read or write failed. The
	// operation is not retried.
	ErrPersistence = errors.New("persistence operation failed")

	// ErrInvalidData reports an entity that failed validation before any
	// statement was issued.
	ErrInvalidData = errors.New("invalid entity data")

	// ErrMissingRow reports an update addressed to an identity that has no
	// row, for example an entity saved before the tables were cleared.
	ErrMissingRow = errors.New("no row with that identity")
)

// StoreInitError carries the database path and the underlying cause of a
// failed open or schema creation.
type StoreInitError struct {
	Path string
	Err  error
}

func (e *StoreInitError) Error() string {
	return fmt.Sprintf("initializing store at %s: %v", e.Path, e.Err)
}

func (e *StoreInitError) Unwrap() error { return e.Err }

// Is matches ErrStoreInit.
func (e *StoreInitError) Is(target error) bool { return target == ErrStoreInit }

// PersistenceError describes a failed repository operation.
type PersistenceError struct {
	Op     string // list, get, save, delete, ...
	Entity string // category, tag, task, project, project_tag
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is matches ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// ValidationError lists the fields of an entity that failed validation,
// keyed by field name.
type ValidationError struct {
	Entity string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

// Is matches ErrInvalidData.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidData }
