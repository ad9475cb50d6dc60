package types

// Task is a unit of work inside a project. A task with ProjectID 0 is
// unattached: it may be saved, but it belongs to no project until the caller
// assigns a persisted project identity and saves it again.
type Task struct {
	ID          int64  `json:"id" validate:"gte=0"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
	ProjectID   int64  `json:"project_id" validate:"gte=0"`
}

// Attached reports whether the task references a project.
func (t *Task) Attached() bool { return t.ProjectID != 0 }
