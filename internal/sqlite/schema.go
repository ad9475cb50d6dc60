package sqlite

// Schema DDL for all tables. Every statement is "create if absent" so the
// schema can be applied on each open.
const (
	createCategories = `CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '#FF0000'
);`

	createTags = `CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '#FF0000'
);`

	createProjects = `CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    icon TEXT NOT NULL DEFAULT '',
    category_id INTEGER,
    FOREIGN KEY (category_id) REFERENCES categories(id)
);`

	// project_id is NULL for an unattached task.
	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL DEFAULT '',
    is_completed INTEGER NOT NULL DEFAULT 0,
    project_id INTEGER,
    FOREIGN KEY (project_id) REFERENCES projects(id)
);`

	createProjectTags = `CREATE TABLE IF NOT EXISTS project_tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    tag_id INTEGER NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(id),
    FOREIGN KEY (tag_id) REFERENCES tags(id)
);`
)

// Index DDL for the fixed access patterns.
const (
	idxProjectsCategory   = `CREATE INDEX IF NOT EXISTS idx_projects_category ON projects(category_id);`
	idxTasksProject       = `CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);`
	idxProjectTagsUnique  = `CREATE UNIQUE INDEX IF NOT EXISTS idx_project_tags_pair ON project_tags(project_id, tag_id);`
	idxProjectTagsByTagID = `CREATE INDEX IF NOT EXISTS idx_project_tags_tag ON project_tags(tag_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createCategories,
	createTags,
	createProjects,
	createTasks,
	createProjectTags,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxProjectsCategory,
	idxTasksProject,
	idxProjectTagsUnique,
	idxProjectTagsByTagID,
}

// dropOrder lists the tables children first so no drop trips a foreign key.
var dropOrder = []string{
	"project_tags",
	"tasks",
	"projects",
	"tags",
	"categories",
}
