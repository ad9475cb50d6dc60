// This file implements the seed loader: it clears the store and replays a
// bundled project document through the repositories.
package sqlite

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/taskbook/internal/logging"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

//go:embed seeddata.json
var defaultSeedDocument []byte

// seedDocument is the shape of the seed file.
type seedDocument struct {
	Projects []*seedProject `json:"Projects"`
}

type seedProject struct {
	Name        string        `json:"Name"`
	Description string        `json:"Description"`
	Icon        string        `json:"Icon"`
	Category    *seedColored  `json:"Category"`
	Tasks       []seedTask    `json:"Tasks"`
	Tags        []seedColored `json:"Tags"`
}

type seedTask struct {
	Title       string `json:"Title"`
	IsCompleted bool   `json:"IsCompleted"`
}

// seedColored carries a category or tag payload.
type seedColored struct {
	Title string `json:"Title"`
	Color string `json:"Color"`
}

// SeedLoader clears the store and imports a project document into it. It
// does not track whether seeding has happened; see internal/app.
type SeedLoader struct {
	tracker  types.Tracker
	logger   *slog.Logger
	seedFile string
}

// SeedOption configures a SeedLoader.
type SeedOption func(*SeedLoader)

// WithSeedFile makes Run read the document at path instead of the embedded
// default.
func WithSeedFile(path string) SeedOption {
	return func(l *SeedLoader) { l.seedFile = path }
}

// NewSeedLoader returns a loader that writes through tracker.
func NewSeedLoader(tracker types.Tracker, logger *slog.Logger, opts ...SeedOption) *SeedLoader {
	if logger == nil {
		logger = logging.Discard()
	}
	l := &SeedLoader{tracker: tracker, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run loads the configured seed file, or the embedded document when none is
// set.
func (l *SeedLoader) Run() (types.SeedSummary, error) {
	if l.seedFile != "" {
		return l.LoadFile(l.seedFile)
	}
	return l.LoadDefault()
}

// LoadDefault loads the embedded seed document.
func (l *SeedLoader) LoadDefault() (types.SeedSummary, error) {
	return l.Load(bytes.NewReader(defaultSeedDocument))
}

// LoadFile loads the seed document at path.
func (l *SeedLoader) LoadFile(path string) (types.SeedSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.SeedSummary{}, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load clears every table and imports the document read from r. A document
// that cannot be parsed is logged and imports nothing. A failed save stops
// the import and is returned; the store is left partially populated.
func (l *SeedLoader) Load(r io.Reader) (types.SeedSummary, error) {
	var summary types.SeedSummary

	if err := l.tracker.DropAll(); err != nil {
		return summary, err
	}

	var doc seedDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		l.logger.Error("parsing seed document, importing nothing", "error", err)
		return summary, nil
	}

	run := replay{
		tracker:    l.tracker,
		categories: map[seedColored]*types.Category{},
		tags:       map[seedColored]*types.Tag{},
	}
	for i, payload := range doc.Projects {
		if payload == nil {
			continue
		}
		if err := run.project(payload); err != nil {
			l.logger.Error("saving seed data", "project", payload.Name, "index", i, "error", err)
			return run.summary, err
		}
	}

	l.logger.Info("seed data loaded",
		"projects", run.summary.Projects,
		"tasks", run.summary.Tasks,
		"categories", run.summary.Categories,
		"tags", run.summary.Tags,
	)
	return run.summary, nil
}

// replay holds the state of one import. Categories and tags with the same
// title and color are saved once and shared.
type replay struct {
	tracker    types.Tracker
	categories map[seedColored]*types.Category
	tags       map[seedColored]*types.Tag
	summary    types.SeedSummary
}

func (r *replay) project(payload *seedProject) error {
	project := &types.Project{
		Name:        payload.Name,
		Description: payload.Description,
		Icon:        payload.Icon,
	}

	if payload.Category != nil {
		cat, ok := r.categories[*payload.Category]
		if !ok {
			cat = types.NewCategory(payload.Category.Title, payload.Category.Color)
			if err := r.tracker.Categories().Save(cat); err != nil {
				return fmt.Errorf("category %q: %w", cat.Title, err)
			}
			r.categories[*payload.Category] = cat
			r.summary.Categories++
		}
		project.CategoryID = cat.ID
		project.Category = cat
	}

	if err := r.tracker.Projects().Save(project); err != nil {
		return fmt.Errorf("project %q: %w", project.Name, err)
	}
	r.summary.Projects++

	for _, st := range payload.Tasks {
		task := &types.Task{Title: st.Title, IsCompleted: st.IsCompleted, ProjectID: project.ID}
		if err := r.tracker.Tasks().Save(task); err != nil {
			return fmt.Errorf("task %q: %w", task.Title, err)
		}
		r.summary.Tasks++
	}

	for _, sc := range payload.Tags {
		tag, ok := r.tags[sc]
		if !ok {
			tag = types.NewTag(sc.Title, sc.Color)
		}
		if err := r.tracker.Tags().SaveAssociation(tag, project.ID); err != nil {
			return fmt.Errorf("tag %q: %w", tag.Title, err)
		}
		if !ok {
			r.tags[sc] = tag
			r.summary.Tags++
		}
		r.summary.Associations++
	}
	return nil
}
