// Package sqlite exposes the SQLite Taskbook store to other modules while the
// implementation stays internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/taskbook/internal/sqlite"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

// NewBackend returns a store for config. The database file is opened on the
// first operation; call Detach when done.
//
// Example:
//
//	tracker, err := sqlite.NewBackend(types.Config{DataDir: ".taskbook-db"}, nil)
//	if err != nil {
//	    return err
//	}
//	defer tracker.Detach()
//	projects, err := tracker.Projects().List()
func NewBackend(config types.Config, logger *slog.Logger) (types.Tracker, error) {
	return sqlite.NewBackend(config, sqlite.WithLogger(logger))
}

// LoadSeed clears tracker and imports the built-in starter dataset, or the
// document at seedFile when it is not empty.
func LoadSeed(tracker types.Tracker, seedFile string, logger *slog.Logger) (types.SeedSummary, error) {
	return sqlite.NewSeedLoader(tracker, logger, sqlite.WithSeedFile(seedFile)).Run()
}
