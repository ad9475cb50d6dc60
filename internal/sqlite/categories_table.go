// This file implements the category repository for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

var _ types.CategoryRepository = (*categoriesTable)(nil)

type categoriesTable struct {
	backend *Backend
}

const categoryColumns = "id, title, color"

// List returns every category ordered by identity.
func (ct *categoriesTable) List() ([]*types.Category, error) {
	var out []*types.Category
	err := ct.backend.read("list", "category", func(q queryer) error {
		var err error
		out, err = queryCategories(q, "SELECT "+categoryColumns+" FROM categories ORDER BY id")
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the category with the given identity. A miss yields a zero
// category and found == false.
func (ct *categoriesTable) Get(id int64) (*types.Category, bool, error) {
	cat := &types.Category{}
	found := false
	err := ct.backend.read("get", "category", func(q queryer) error {
		var err error
		cat, found, err = getCategory(q, id)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return cat, found, nil
}

// Save inserts the category when its identity is 0, otherwise updates it.
func (ct *categoriesTable) Save(c *types.Category) error {
	if err := ct.backend.validate("category", c); err != nil {
		return err
	}
	if c.Color == "" {
		c.Color = types.DefaultColor
	}
	return withIdentity(&c.ID, func() error {
		return ct.backend.write("save", "category", func(tx *sql.Tx) error {
			return saveCategory(tx, c)
		})
	})
}

// Delete detaches the category from its projects and removes it.
func (ct *categoriesTable) Delete(c *types.Category) error {
	if c == nil || c.ID == 0 {
		return nil
	}
	return ct.backend.write("delete", "category", func(tx *sql.Tx) error {
		if _, err := tx.Exec("UPDATE projects SET category_id = NULL WHERE category_id = ?", c.ID); err != nil {
			return fmt.Errorf("detaching projects: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM categories WHERE id = ?", c.ID); err != nil {
			return fmt.Errorf("deleting category %d: %w", c.ID, err)
		}
		return nil
	})
}

// TaskCounts returns one entry per category, in identity order, counting the
// tasks under projects of that category. Categories with no tasks count 0.
func (ct *categoriesTable) TaskCounts() ([]types.CategoryTaskCount, error) {
	var out []types.CategoryTaskCount
	err := ct.backend.read("count", "category", func(q queryer) error {
		rows, err := q.Query(`SELECT c.id, c.title, c.color, COUNT(t.id)
FROM categories c
LEFT JOIN projects p ON p.category_id = c.id
LEFT JOIN tasks t ON t.project_id = p.id
GROUP BY c.id
ORDER BY c.id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = []types.CategoryTaskCount{}
		for rows.Next() {
			cat := &types.Category{}
			var n int
			if err := rows.Scan(&cat.ID, &cat.Title, &cat.Color, &n); err != nil {
				return err
			}
			out = append(out, types.CategoryTaskCount{Category: cat, TaskCount: n})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func saveCategory(q queryer, c *types.Category) error {
	if c.ID == 0 {
		id, err := insertID(q, "INSERT INTO categories (title, color) VALUES (?, ?)", c.Title, c.Color)
		if err != nil {
			return err
		}
		c.ID = id
		return nil
	}
	return updateOne(q, c.ID, "UPDATE categories SET title = ?, color = ? WHERE id = ?", c.Title, c.Color, c.ID)
}

func getCategory(q queryer, id int64) (*types.Category, bool, error) {
	cat, err := hydrateCategory(q.QueryRow("SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return &types.Category{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cat, true, nil
}

func queryCategories(q queryer, query string, args ...any) ([]*types.Category, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*types.Category{}
	for rows.Next() {
		cat, err := hydrateCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func hydrateCategory(s scanner) (*types.Category, error) {
	cat := &types.Category{}
	if err := s.Scan(&cat.ID, &cat.Title, &cat.Color); err != nil {
		return nil, err
	}
	return cat, nil
}
