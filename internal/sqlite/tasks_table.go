// This file implements the task repository for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

var _ types.TaskRepository = (*tasksTable)(nil)

type tasksTable struct {
	backend *Backend
}

const taskColumns = "id, title, is_completed, project_id"

// List returns every task ordered by identity.
func (tt *tasksTable) List() ([]*types.Task, error) {
	var out []*types.Task
	err := tt.backend.read("list", "task", func(q queryer) error {
		var err error
		out, err = queryTasks(q, "SELECT "+taskColumns+" FROM tasks ORDER BY id")
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByProject returns the tasks of the project ordered by identity.
func (tt *tasksTable) ListByProject(projectID int64) ([]*types.Task, error) {
	var out []*types.Task
	err := tt.backend.read("list", "task", func(q queryer) error {
		var err error
		out, err = tasksForProject(q, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the task with the given identity.
func (tt *tasksTable) Get(id int64) (*types.Task, bool, error) {
	task := &types.Task{}
	found := false
	err := tt.backend.read("get", "task", func(q queryer) error {
		var err error
		task, found, err = getTask(q, id)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return task, found, nil
}

// Save inserts the task when its identity is 0, otherwise updates it. A
// reattached task keeps its identity; only project_id changes.
func (tt *tasksTable) Save(t *types.Task) error {
	if err := tt.backend.validate("task", t); err != nil {
		return err
	}
	return withIdentity(&t.ID, func() error {
		return tt.backend.write("save", "task", func(tx *sql.Tx) error {
			return saveTask(tx, t)
		})
	})
}

// Delete removes the task.
func (tt *tasksTable) Delete(t *types.Task) error {
	if t == nil || t.ID == 0 {
		return nil
	}
	return tt.backend.write("delete", "task", func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM tasks WHERE id = ?", t.ID); err != nil {
			return fmt.Errorf("deleting task %d: %w", t.ID, err)
		}
		return nil
	})
}

// DeleteCompleted removes every completed task and returns how many rows went.
func (tt *tasksTable) DeleteCompleted() (int, error) {
	var n int64
	err := tt.backend.write("delete", "task", func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM tasks WHERE is_completed = 1")
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func saveTask(q queryer, t *types.Task) error {
	if t.ID == 0 {
		id, err := insertID(q,
			"INSERT INTO tasks (title, is_completed, project_id) VALUES (?, ?, ?)",
			t.Title, t.IsCompleted, nullID(t.ProjectID),
		)
		if err != nil {
			return err
		}
		t.ID = id
		return nil
	}
	return updateOne(q, t.ID,
		"UPDATE tasks SET title = ?, is_completed = ?, project_id = ? WHERE id = ?",
		t.Title, t.IsCompleted, nullID(t.ProjectID), t.ID,
	)
}

func getTask(q queryer, id int64) (*types.Task, bool, error) {
	task, err := hydrateTask(q.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return &types.Task{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return task, true, nil
}

func tasksForProject(q queryer, projectID int64) ([]*types.Task, error) {
	return queryTasks(q, "SELECT "+taskColumns+" FROM tasks WHERE project_id = ? ORDER BY id", projectID)
}

func queryTasks(q queryer, query string, args ...any) ([]*types.Task, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*types.Task{}
	for rows.Next() {
		task, err := hydrateTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func hydrateTask(s scanner) (*types.Task, error) {
	task := &types.Task{}
	var projectID sql.NullInt64
	if err := s.Scan(&task.ID, &task.Title, &task.IsCompleted, &projectID); err != nil {
		return nil, err
	}
	task.ProjectID = projectID.Int64
	return task, nil
}
