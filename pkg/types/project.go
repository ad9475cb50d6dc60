package types

// Project is the top-level entity. Category, Tasks and Tags are aggregates
// populated by the repository on reads; ProjectRepository.Save persists only
// the scalar columns and CategoryID.
type Project struct {
	ID          int64     `json:"id" validate:"gte=0"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CategoryID  int64     `json:"category_id" validate:"gte=0"`
	Category    *Category `json:"category,omitempty"`
	Tasks       []*Task   `json:"tasks,omitempty"`
	Tags        []*Tag    `json:"tags,omitempty"`
}

// IsNew reports whether the project has not been persisted.
func (p *Project) IsNew() bool { return p.ID == 0 }

// HasCompletedTasks reports whether any task in the aggregate is completed.
func (p *Project) HasCompletedTasks() bool {
	for _, t := range p.Tasks {
		if t.IsCompleted {
			return true
		}
	}
	return false
}

func (p *Project) String() string { return p.Name }
