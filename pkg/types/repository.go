package types

// Lookups return (entity, found, error). On a miss the entity is a zero value
// with identity 0 and found is false; a miss is never an error. Callers that
// need to tell "not found" apart from "new" use found, not the identity.

// CategoryRepository provides CRUD for categories.
type CategoryRepository interface {
	// List returns every category in identity order.
	List() ([]*Category, error)

	// Get returns the category with the given identity.
	Get(id int64) (*Category, bool, error)

	// Save inserts the category when its identity is 0 and assigns the new
	// identity; otherwise it updates every column.
	Save(c *Category) error

	// Delete removes the category. Projects that referenced it keep their
	// row with no category. Deleting an unsaved category is a no-op.
	Delete(c *Category) error

	// TaskCounts returns, for every category in List order, the number of
	// tasks under projects filed in that category.
	TaskCounts() ([]CategoryTaskCount, error)
}

// TagRepository provides CRUD for tags and manages project associations.
type TagRepository interface {
	List() ([]*Tag, error)

	// ListByProject returns the tags associated with a project.
	ListByProject(projectID int64) ([]*Tag, error)

	Get(id int64) (*Tag, bool, error)
	Save(t *Tag) error

	// Delete removes the tag and every association that references it.
	Delete(t *Tag) error

	// SaveAssociation upserts the tag and then links it to the project. The
	// link is created at most once per pair.
	SaveAssociation(t *Tag, projectID int64) error

	// DeleteAssociation removes the single link between the tag and the
	// project. The tag row and its other links are untouched.
	DeleteAssociation(t *Tag, projectID int64) error
}

// TaskRepository provides CRUD for tasks.
type TaskRepository interface {
	List() ([]*Task, error)

	// ListByProject returns the tasks whose ProjectID equals projectID.
	ListByProject(projectID int64) ([]*Task, error)

	Get(id int64) (*Task, bool, error)

	// Save upserts the task. A non-zero ProjectID must reference a saved
	// project; ProjectID 0 records an unattached task.
	Save(t *Task) error

	Delete(t *Task) error

	// DeleteCompleted removes every completed task and returns the count.
	DeleteCompleted() (int, error)
}

// ProjectRepository provides CRUD for projects. Reads populate the Category,
// Tasks and Tags aggregates.
type ProjectRepository interface {
	List() ([]*Project, error)
	Get(id int64) (*Project, bool, error)

	// Save upserts the project row only. Child tasks and tag associations
	// are persisted by the caller through their own repositories once the
	// project identity is known.
	Save(p *Project) error

	// Delete removes the project, its tasks and its tag associations as a
	// single unit.
	Delete(p *Project) error
}

// Store owns the database handle shared by the repositories.
type Store interface {
	// EnsureSchema creates any missing table. Idempotent.
	EnsureSchema() error

	// DropAll drops and recreates every table under the write lock.
	DropAll() error

	// Detach closes the database handle. Idempotent.
	Detach() error
}

// Tracker is a Store together with its repositories.
type Tracker interface {
	Store
	Categories() CategoryRepository
	Tags() TagRepository
	Tasks() TaskRepository
	Projects() ProjectRepository
}
