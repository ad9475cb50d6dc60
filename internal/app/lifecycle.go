// Package app owns the seed lifecycle: importing the default dataset on first
// run and re-importing it on request.
package app

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/taskbook/internal/logging"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

// SeededKey is the preference that records a completed import.
const SeededKey = "is_seeded"

// Seeder imports the default dataset, replacing whatever the store holds.
type Seeder interface {
	Run() (types.SeedSummary, error)
}

// Lifecycle decides when to run the Seeder. The flag is set only after a
// successful import and removed before a reset import starts.
type Lifecycle struct {
	seeder Seeder
	flags  types.KeyValueStore
	logger *slog.Logger
}

// NewLifecycle returns a Lifecycle backed by flags.
func NewLifecycle(seeder Seeder, flags types.KeyValueStore, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Lifecycle{seeder: seeder, flags: flags, logger: logger}
}

// IsSeeded reports whether the default dataset has been imported.
func (l *Lifecycle) IsSeeded() (bool, error) {
	ok, err := l.flags.Has(SeededKey)
	if err != nil {
		return false, fmt.Errorf("reading seeded flag: %w", err)
	}
	return ok, nil
}

// EnsureSeeded imports the dataset unless it has been imported before. It
// returns true when an import ran.
func (l *Lifecycle) EnsureSeeded() (bool, types.SeedSummary, error) {
	seeded, err := l.IsSeeded()
	if err != nil {
		return false, types.SeedSummary{}, err
	}
	if seeded {
		return false, types.SeedSummary{}, nil
	}

	l.logger.Info("first run, importing seed data")
	summary, err := l.seed()
	return err == nil, summary, err
}

// Reset clears the flag and imports the dataset again. When the import fails
// the flag stays cleared so the next EnsureSeeded retries.
func (l *Lifecycle) Reset() (types.SeedSummary, error) {
	if err := l.flags.Remove(SeededKey); err != nil {
		return types.SeedSummary{}, fmt.Errorf("clearing seeded flag: %w", err)
	}
	l.logger.Info("resetting to seed data")
	return l.seed()
}

func (l *Lifecycle) seed() (types.SeedSummary, error) {
	summary, err := l.seeder.Run()
	if err != nil {
		return summary, fmt.Errorf("importing seed data: %w", err)
	}
	if err := l.flags.Set(SeededKey, "true"); err != nil {
		return summary, fmt.Errorf("setting seeded flag: %w", err)
	}
	return summary, nil
}
