// Tests for the project repository, aggregate hydration and cascade delete.
package sqlite

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

func TestProjects(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, b *Backend)
	}{
		{
			name: "get on empty store returns zero project",
			check: func(t *testing.T, b *Backend) {
				got, found, err := b.Projects().Get(999)
				require.NoError(t, err)
				assert.False(t, found)
				require.NotNil(t, got)
				assert.Zero(t, got.ID)
				assert.True(t, got.IsNew())
			},
		},
		{
			name: "save and get round-trip with aggregates",
			check: func(t *testing.T, b *Backend) {
				cat := types.NewCategory("Work", "#0000FF")
				require.NoError(t, b.Categories().Save(cat))

				p := &types.Project{Name: "Website", Description: "Relaunch", Icon: "globe", CategoryID: cat.ID}
				require.NoError(t, b.Projects().Save(p))
				require.NoError(t, b.Tasks().Save(&types.Task{Title: "Design", ProjectID: p.ID}))
				require.NoError(t, b.Tasks().Save(&types.Task{Title: "Launch", IsCompleted: true, ProjectID: p.ID}))
				require.NoError(t, b.Tags().SaveAssociation(types.NewTag("Urgent", ""), p.ID))

				got, found, err := b.Projects().Get(p.ID)
				require.NoError(t, err)
				require.True(t, found)
				assert.Equal(t, "Website", got.Name)
				assert.Equal(t, "Relaunch", got.Description)
				assert.Equal(t, "globe", got.Icon)
				assert.Equal(t, cat.ID, got.CategoryID)
				require.NotNil(t, got.Category)
				assert.Equal(t, "Work", got.Category.Title)
				require.Len(t, got.Tasks, 2)
				assert.Equal(t, "Design", got.Tasks[0].Title)
				assert.True(t, got.HasCompletedTasks())
				require.Len(t, got.Tags, 1)
				assert.Equal(t, "Urgent", got.Tags[0].Title)
			},
		},
		{
			name: "save does not write tasks or tags",
			check: func(t *testing.T, b *Backend) {
				p := &types.Project{
					Name:  "p",
					Tasks: []*types.Task{{Title: "t"}},
					Tags:  []*types.Tag{types.NewTag("x", "")},
				}
				require.NoError(t, b.Projects().Save(p))

				assert.Equal(t, 0, countRows(t, b, "tasks"))
				assert.Equal(t, 0, countRows(t, b, "tags"))
			},
		},
		{
			name: "new project takes category identity from aggregate",
			check: func(t *testing.T, b *Backend) {
				cat := types.NewCategory("Home", "")
				require.NoError(t, b.Categories().Save(cat))

				p := &types.Project{Name: "Garden", Category: cat}
				require.NoError(t, b.Projects().Save(p))
				assert.Equal(t, cat.ID, p.CategoryID)
			},
		},
		{
			name: "clearing category persists NULL",
			check: func(t *testing.T, b *Backend) {
				cat := types.NewCategory("Work", "")
				require.NoError(t, b.Categories().Save(cat))
				p := &types.Project{Name: "Website", CategoryID: cat.ID}
				require.NoError(t, b.Projects().Save(p))

				loaded, found, err := b.Projects().Get(p.ID)
				require.NoError(t, err)
				require.True(t, found)
				require.NotNil(t, loaded.Category)

				loaded.CategoryID = 0
				require.NoError(t, b.Projects().Save(loaded))
				assert.Zero(t, loaded.CategoryID)
				assert.Nil(t, loaded.Category)

				got, _, err := b.Projects().Get(p.ID)
				require.NoError(t, err)
				assert.Zero(t, got.CategoryID)
				assert.Nil(t, got.Category)
			},
		},
		{
			name: "changing category drops the stale aggregate",
			check: func(t *testing.T, b *Backend) {
				work := types.NewCategory("Work", "")
				home := types.NewCategory("Home", "")
				require.NoError(t, b.Categories().Save(work))
				require.NoError(t, b.Categories().Save(home))
				p := &types.Project{Name: "p", CategoryID: work.ID}
				require.NoError(t, b.Projects().Save(p))

				loaded, _, err := b.Projects().Get(p.ID)
				require.NoError(t, err)
				loaded.CategoryID = home.ID
				require.NoError(t, b.Projects().Save(loaded))
				assert.Equal(t, home.ID, loaded.CategoryID)
				assert.Nil(t, loaded.Category)

				got, _, err := b.Projects().Get(p.ID)
				require.NoError(t, err)
				require.NotNil(t, got.Category)
				assert.Equal(t, "Home", got.Category.Title)
			},
		},
		{
			name: "saved project equals loaded project",
			check: func(t *testing.T, b *Backend) {
				p := &types.Project{Name: "Reading List", Description: "Books", Icon: "book"}
				require.NoError(t, b.Projects().Save(p))

				got, found, err := b.Projects().Get(p.ID)
				require.NoError(t, err)
				require.True(t, found)
				assert.Equal(t, p, got)
			},
		},
		{
			name: "save twice keeps one row",
			check: func(t *testing.T, b *Backend) {
				p := saveProject(t, b, "p")
				p.Description = "changed"
				require.NoError(t, b.Projects().Save(p))
				require.NoError(t, b.Projects().Save(p))

				assert.Equal(t, 1, countRows(t, b, "projects"))
				got, _, err := b.Projects().Get(p.ID)
				require.NoError(t, err)
				assert.Equal(t, "changed", got.Description)
			},
		},
		{
			name: "missing category reference fails",
			check: func(t *testing.T, b *Backend) {
				err := b.Projects().Save(&types.Project{Name: "p", CategoryID: 77})
				require.Error(t, err)
				assert.ErrorIs(t, err, types.ErrPersistence)
			},
		},
		{
			name: "list populates every project",
			check: func(t *testing.T, b *Backend) {
				p1 := saveProject(t, b, "p1")
				p2 := saveProject(t, b, "p2")
				require.NoError(t, b.Tasks().Save(&types.Task{Title: "t", ProjectID: p2.ID}))
				require.NoError(t, b.Tags().SaveAssociation(types.NewTag("x", ""), p1.ID))

				projects, err := b.Projects().List()
				require.NoError(t, err)
				require.Len(t, projects, 2)
				assert.Empty(t, projects[0].Tasks)
				assert.Len(t, projects[0].Tags, 1)
				assert.Nil(t, projects[0].Category)
				assert.Len(t, projects[1].Tasks, 1)
				assert.Empty(t, projects[1].Tags)
			},
		},
		{
			name: "delete cascades to tasks and associations",
			check: func(t *testing.T, b *Backend) {
				p := saveProject(t, b, "doomed")
				other := saveProject(t, b, "other")
				tag := types.NewTag("shared", "")
				require.NoError(t, b.Tasks().Save(&types.Task{Title: "a", ProjectID: p.ID}))
				require.NoError(t, b.Tasks().Save(&types.Task{Title: "b", ProjectID: other.ID}))
				require.NoError(t, b.Tags().SaveAssociation(tag, p.ID))
				require.NoError(t, b.Tags().SaveAssociation(tag, other.ID))

				require.NoError(t, b.Projects().Delete(p))

				tasks, err := b.Tasks().ListByProject(p.ID)
				require.NoError(t, err)
				assert.Empty(t, tasks)
				tags, err := b.Tags().ListByProject(p.ID)
				require.NoError(t, err)
				assert.Empty(t, tags)

				// Tag survives; the other project is untouched.
				_, found, err := b.Tags().Get(tag.ID)
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, 1, countRows(t, b, "tasks"))
				assert.Equal(t, 1, countRows(t, b, "project_tags"))
			},
		},
		{
			name: "delete is all or nothing",
			check: func(t *testing.T, b *Backend) {
				p := saveProject(t, b, "p")
				require.NoError(t, b.Tasks().Save(&types.Task{Title: "a", ProjectID: p.ID}))
				require.NoError(t, b.Tags().SaveAssociation(types.NewTag("x", ""), p.ID))

				// Fail the second step of the cascade.
				require.NoError(t, b.WithWriteLock(func(tx *sql.Tx) error {
					_, err := tx.Exec(`CREATE TRIGGER block_link_delete BEFORE DELETE ON project_tags
BEGIN SELECT RAISE(ABORT, 'boom'); END`)
					return err
				}))

				err := b.Projects().Delete(p)
				require.Error(t, err)
				assert.ErrorIs(t, err, types.ErrPersistence)

				assert.Equal(t, 1, countRows(t, b, "projects"))
				assert.Equal(t, 1, countRows(t, b, "tasks"), "task delete must roll back")
				assert.Equal(t, 1, countRows(t, b, "project_tags"))
			},
		},
		{
			name: "delete of unsaved project is a no-op",
			check: func(t *testing.T, b *Backend) {
				require.NoError(t, b.Projects().Delete(&types.Project{Name: "new"}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, newTestBackend(t))
		})
	}
}
