// This file implements the tag repository and the project_tags join table
// for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

var _ types.TagRepository = (*tagsTable)(nil)

type tagsTable struct {
	backend *Backend
}

const tagColumns = "id, title, color"

// List returns every tag ordered by identity.
func (tt *tagsTable) List() ([]*types.Tag, error) {
	var out []*types.Tag
	err := tt.backend.read("list", "tag", func(q queryer) error {
		var err error
		out, err = queryTags(q, "SELECT "+tagColumns+" FROM tags ORDER BY id")
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByProject returns the tags linked to the project, ordered by tag
// identity.
func (tt *tagsTable) ListByProject(projectID int64) ([]*types.Tag, error) {
	var out []*types.Tag
	err := tt.backend.read("list", "tag", func(q queryer) error {
		var err error
		out, err = tagsForProject(q, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the tag with the given identity.
func (tt *tagsTable) Get(id int64) (*types.Tag, bool, error) {
	tag := &types.Tag{}
	found := false
	err := tt.backend.read("get", "tag", func(q queryer) error {
		var err error
		tag, found, err = getTag(q, id)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return tag, found, nil
}

// Save inserts the tag when its identity is 0, otherwise updates it.
func (tt *tagsTable) Save(t *types.Tag) error {
	if err := tt.prepare(t); err != nil {
		return err
	}
	return withIdentity(&t.ID, func() error {
		return tt.backend.write("save", "tag", func(tx *sql.Tx) error {
			return saveTag(tx, t)
		})
	})
}

// Delete removes the tag together with all of its project links.
func (tt *tagsTable) Delete(t *types.Tag) error {
	if t == nil || t.ID == 0 {
		return nil
	}
	return tt.backend.write("delete", "tag", func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM project_tags WHERE tag_id = ?", t.ID); err != nil {
			return fmt.Errorf("deleting links of tag %d: %w", t.ID, err)
		}
		if _, err := tx.Exec("DELETE FROM tags WHERE id = ?", t.ID); err != nil {
			return fmt.Errorf("deleting tag %d: %w", t.ID, err)
		}
		return nil
	})
}

// SaveAssociation upserts the tag and links it to the project in one
// transaction. Linking an already linked pair changes nothing.
func (tt *tagsTable) SaveAssociation(t *types.Tag, projectID int64) error {
	if projectID <= 0 {
		return &types.ValidationError{
			Entity: "project_tag",
			Fields: map[string]string{"project_id": "must reference a saved project"},
		}
	}
	if err := tt.prepare(t); err != nil {
		return err
	}
	// The tag insert rolls back with the link.
	return withIdentity(&t.ID, func() error {
		return tt.backend.write("save", "project_tag", func(tx *sql.Tx) error {
			if err := saveTag(tx, t); err != nil {
				return err
			}
			_, err := tx.Exec(
				"INSERT OR IGNORE INTO project_tags (project_id, tag_id) VALUES (?, ?)",
				projectID, t.ID,
			)
			return err
		})
	})
}

// DeleteAssociation removes the link between the tag and the project.
func (tt *tagsTable) DeleteAssociation(t *types.Tag, projectID int64) error {
	if t == nil || t.ID == 0 || projectID == 0 {
		return nil
	}
	return tt.backend.write("delete", "project_tag", func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM project_tags WHERE project_id = ? AND tag_id = ?", projectID, t.ID)
		return err
	})
}

func (tt *tagsTable) prepare(t *types.Tag) error {
	if t == nil {
		return &types.ValidationError{Entity: "tag", Fields: map[string]string{"tag": "is required"}}
	}
	if err := tt.backend.validate("tag", t); err != nil {
		return err
	}
	if t.Color == "" {
		t.Color = types.DefaultColor
	}
	return nil
}

func saveTag(q queryer, t *types.Tag) error {
	if t.ID == 0 {
		id, err := insertID(q, "INSERT INTO tags (title, color) VALUES (?, ?)", t.Title, t.Color)
		if err != nil {
			return err
		}
		t.ID = id
		return nil
	}
	return updateOne(q, t.ID, "UPDATE tags SET title = ?, color = ? WHERE id = ?", t.Title, t.Color, t.ID)
}

func getTag(q queryer, id int64) (*types.Tag, bool, error) {
	tag, err := hydrateTag(q.QueryRow("SELECT "+tagColumns+" FROM tags WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return &types.Tag{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return tag, true, nil
}

func tagsForProject(q queryer, projectID int64) ([]*types.Tag, error) {
	return queryTags(q, `SELECT t.id, t.title, t.color
FROM tags t
JOIN project_tags pt ON pt.tag_id = t.id
WHERE pt.project_id = ?
ORDER BY t.id`, projectID)
}

func queryTags(q queryer, query string, args ...any) ([]*types.Tag, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*types.Tag{}
	for rows.Next() {
		tag, err := hydrateTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

func hydrateTag(s scanner) (*types.Tag, error) {
	tag := &types.Tag{}
	if err := s.Scan(&tag.ID, &tag.Title, &tag.Color); err != nil {
		return nil, err
	}
	return tag, nil
}
