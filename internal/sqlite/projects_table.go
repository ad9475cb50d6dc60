// This file implements the project repository for the SQLite backend.
// Reads hydrate the project aggregate: category, tasks and tags.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

var _ types.ProjectRepository = (*projectsTable)(nil)

type projectsTable struct {
	backend *Backend
}

const projectColumns = "id, name, description, icon, category_id"

// List returns every project ordered by identity with its aggregates loaded.
func (pt *projectsTable) List() ([]*types.Project, error) {
	var out []*types.Project
	err := pt.backend.read("list", "project", func(q queryer) error {
		rows, err := q.Query("SELECT " + projectColumns + " FROM projects ORDER BY id")
		if err != nil {
			return err
		}
		out = []*types.Project{}
		for rows.Next() {
			p, err := hydrateProject(rows)
			if err != nil {
				rows.Close()
				return err
			}
			out = append(out, p)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for _, p := range out {
			if err := populateProject(q, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the project with the given identity and its aggregates.
func (pt *projectsTable) Get(id int64) (*types.Project, bool, error) {
	project := &types.Project{}
	found := false
	err := pt.backend.read("get", "project", func(q queryer) error {
		p, err := hydrateProject(q.QueryRow("SELECT "+projectColumns+" FROM projects WHERE id = ?", id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := populateProject(q, p); err != nil {
			return err
		}
		project, found = p, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return project, found, nil
}

// Save upserts the project row. Tasks and tags on the aggregate are not
// written. CategoryID is stored as given; a new project with no CategoryID
// takes it from the Category aggregate.
func (pt *projectsTable) Save(p *types.Project) error {
	if err := pt.backend.validate("project", p); err != nil {
		return err
	}
	if p.ID == 0 && p.CategoryID == 0 && p.Category != nil {
		p.CategoryID = p.Category.ID
	}
	if p.Category != nil && p.Category.ID != p.CategoryID {
		p.Category = nil
	}
	return withIdentity(&p.ID, func() error {
		return pt.backend.write("save", "project", func(tx *sql.Tx) error {
			if p.ID == 0 {
				id, err := insertID(tx,
					"INSERT INTO projects (name, description, icon, category_id) VALUES (?, ?, ?, ?)",
					p.Name, p.Description, p.Icon, nullID(p.CategoryID),
				)
				if err != nil {
					return err
				}
				p.ID = id
				return nil
			}
			return updateOne(tx, p.ID,
				"UPDATE projects SET name = ?, description = ?, icon = ?, category_id = ? WHERE id = ?",
				p.Name, p.Description, p.Icon, nullID(p.CategoryID), p.ID,
			)
		})
	})
}

// Delete removes the project, its tasks and its tag links in one
// transaction. Either all of them go or none do.
func (pt *projectsTable) Delete(p *types.Project) error {
	if p == nil || p.ID == 0 {
		return nil
	}
	return pt.backend.write("delete", "project", func(tx *sql.Tx) error {
		steps := []struct {
			what  string
			query string
		}{
			{"tasks", "DELETE FROM tasks WHERE project_id = ?"},
			{"tag links", "DELETE FROM project_tags WHERE project_id = ?"},
			{"project", "DELETE FROM projects WHERE id = ?"},
		}
		for _, s := range steps {
			if _, err := tx.Exec(s.query, p.ID); err != nil {
				return fmt.Errorf("deleting %s of project %d: %w", s.what, p.ID, err)
			}
		}
		return nil
	})
}

// populateProject loads the category, tasks and tags of p. Empty task and
// tag lists stay nil. Rows of the outer query must be closed before calling
// it.
func populateProject(q queryer, p *types.Project) error {
	if p.CategoryID != 0 {
		cat, found, err := getCategory(q, p.CategoryID)
		if err != nil {
			return fmt.Errorf("loading category of project %d: %w", p.ID, err)
		}
		if found {
			p.Category = cat
		}
	}

	tasks, err := tasksForProject(q, p.ID)
	if err != nil {
		return fmt.Errorf("loading tasks of project %d: %w", p.ID, err)
	}
	if len(tasks) > 0 {
		p.Tasks = tasks
	}

	tags, err := tagsForProject(q, p.ID)
	if err != nil {
		return fmt.Errorf("loading tags of project %d: %w", p.ID, err)
	}
	if len(tags) > 0 {
		p.Tags = tags
	}
	return nil
}

func hydrateProject(s scanner) (*types.Project, error) {
	p := &types.Project{}
	var categoryID sql.NullInt64
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Icon, &categoryID); err != nil {
		return nil, err
	}
	p.CategoryID = categoryID.Int64
	return p, nil
}
