package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

// env is an isolated pair of config and data directories.
type env struct {
	configDir string
	dataDir   string
	noSeed    bool
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	return env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// newBareEnv is newEnv with the starter dataset disabled for every command.
func newBareEnv(t *testing.T) env {
	t.Helper()
	e := newEnv(t)
	e.noSeed = true
	return e
}

// run executes one command line and returns stdout, the exit code Execute
// would report and the error.
func (e env) run(t *testing.T, args ...string) (string, int, error) {
	t.Helper()
	opts := &options{}
	root := newRootCmd(opts)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	global := []string{"--config-dir", e.configDir, "--data-dir", e.dataDir}
	if e.noSeed {
		global = append(global, "--no-seed")
	}
	root.SetArgs(append(global, args...))

	err := root.Execute()
	code := exitSuccess
	if err != nil {
		code = exitCode(opts, err)
	}
	return out.String(), code, err
}

// mustRun executes a command line that is expected to succeed.
func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := e.run(t, args...)
	require.NoError(t, err, "taskbook %v", args)
	return out
}

func TestVersion(t *testing.T) {
	out := newEnv(t).mustRun(t, "version")
	assert.Contains(t, out, "taskbook v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "init")
	assert.Contains(t, out, "Taskbook initialized")

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "database_file: taskbook.db")
	assert.Contains(t, string(data), "data_dir: "+e.dataDir)

	_, err = os.Stat(filepath.Join(e.dataDir, types.DefaultDatabaseFile))
	assert.NoError(t, err)

	// Idempotent; the existing config is kept.
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("log_level: debug\n"), 0o644))
	e.mustRun(t, "init")
	data, err = os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "log_level: debug\n", string(data))
}

func TestFirstRunSeeds(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "project", "list")
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "Total: 5 project(s)")

	out = e.mustRun(t, "seed")
	assert.Contains(t, out, "Already seeded")
}

func TestNoSeed(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "--no-seed", "project", "list")
	assert.Contains(t, out, "No projects found.")

	out = e.mustRun(t, "seed")
	assert.Contains(t, out, "Imported 5 project(s)")
}

func TestSeedReset(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "--no-seed", "seed")
	e.mustRun(t, "project", "add", "Extra")

	out := e.mustRun(t, "--json", "project", "list")
	var projects []*types.Project
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	assert.Len(t, projects, 6)

	out = e.mustRun(t, "seed", "--reset")
	assert.Contains(t, out, "Imported 5 project(s)")

	out = e.mustRun(t, "--json", "project", "list")
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	assert.Len(t, projects, 5)
}

func TestSeedFileFromConfig(t *testing.T) {
	e := newEnv(t)
	seed := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`{"Projects":[{"Name":"Only","Tasks":[{"Title":"a"}]}]}`), 0o644))
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("seed_file: "+seed+"\n"), 0o644))

	out := e.mustRun(t, "project", "list")
	assert.Contains(t, out, "Only")
	assert.Contains(t, out, "Total: 1 project(s)")
}

func TestProjectLifecycle(t *testing.T) {
	e := newBareEnv(t)
	e.mustRun(t, "init")

	out := e.mustRun(t, "--json", "category", "add", "Work", "--color", "#0000FF")
	var cat types.Category
	require.NoError(t, json.Unmarshal([]byte(out), &cat))
	require.NotZero(t, cat.ID)

	out = e.mustRun(t, "--json", "project", "add", "Website", "--category", itoa(cat.ID), "--tag", "Urgent", "--tag", "Design")
	var p types.Project
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.NotZero(t, p.ID)
	assert.Equal(t, cat.ID, p.CategoryID)
	assert.Len(t, p.Tags, 2)

	e.mustRun(t, "task", "add", "Design", "--project", itoa(p.ID))
	out = e.mustRun(t, "--json", "task", "add", "Launch", "--project", itoa(p.ID))
	var task types.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))

	out = e.mustRun(t, "task", "done", itoa(task.ID))
	assert.Contains(t, out, "is completed")

	out = e.mustRun(t, "project", "show", itoa(p.ID))
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "Category:    Work")
	assert.Contains(t, out, "Tasks:       2 (1 done)")
	assert.Contains(t, out, "Urgent, Design")

	out = e.mustRun(t, "clean")
	assert.Contains(t, out, "Removed 1 completed task(s)")

	out = e.mustRun(t, "project", "delete", itoa(p.ID))
	assert.Contains(t, out, "Deleted project")

	out = e.mustRun(t, "task", "list")
	assert.Contains(t, out, "No tasks found.")

	// Tags outlive the project.
	out = e.mustRun(t, "tag", "list")
	assert.Contains(t, out, "Urgent")
}

func TestTagAttachDetach(t *testing.T) {
	e := newBareEnv(t)
	e.mustRun(t, "init")
	e.mustRun(t, "project", "add", "p")

	out := e.mustRun(t, "--json", "tag", "add", "Weekend")
	var tag types.Tag
	require.NoError(t, json.Unmarshal([]byte(out), &tag))

	e.mustRun(t, "tag", "attach", itoa(tag.ID), "1")
	e.mustRun(t, "tag", "attach", itoa(tag.ID), "1")

	out = e.mustRun(t, "--json", "tag", "list", "--project", "1")
	var tags []*types.Tag
	require.NoError(t, json.Unmarshal([]byte(out), &tags))
	assert.Len(t, tags, 1)

	e.mustRun(t, "tag", "detach", itoa(tag.ID), "1")
	out = e.mustRun(t, "tag", "list", "--project", "1")
	assert.Contains(t, out, "No tags found.")

	out = e.mustRun(t, "tag", "list")
	assert.Contains(t, out, "Weekend")
}

func TestCategoryDeleteKeepsProjects(t *testing.T) {
	e := newBareEnv(t)
	e.mustRun(t, "init")
	e.mustRun(t, "category", "add", "Home")
	e.mustRun(t, "project", "add", "Garden", "--category", "1")

	e.mustRun(t, "category", "delete", "1")

	out := e.mustRun(t, "--json", "project", "show", "1")
	var p types.Project
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Zero(t, p.CategoryID)
	assert.Nil(t, p.Category)
}

func TestStats(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "--json", "stats")
	var st stats
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 5, st.Projects)
	assert.Equal(t, 13, st.Tasks)
	assert.Equal(t, 4, st.CompletedTasks)
	assert.Equal(t, 4, st.Tags)
	require.Len(t, st.Categories, 3)
	assert.Equal(t, "Work", st.Categories[0].Category.Title)
	assert.Equal(t, 6, st.Categories[0].TaskCount)

	out = e.mustRun(t, "stats")
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Projects: 5")
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown command", []string{"frobnicate"}, exitUserError},
		{"unknown flag", []string{"project", "list", "--bogus"}, exitUserError},
		{"missing argument", []string{"task", "add"}, exitUserError},
		{"bad id", []string{"--no-seed", "project", "show", "abc"}, exitUserError},
		{"missing project", []string{"--no-seed", "project", "show", "99"}, exitUserError},
		{"invalid color", []string{"--no-seed", "category", "add", "x", "--color", "blue"}, exitUserError},
		{"task for missing project", []string{"--no-seed", "task", "add", "x", "--project", "42"}, exitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code, err := newEnv(t).run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestExitCode_SystemError(t *testing.T) {
	e := newEnv(t)
	// A regular file where the data directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(e.dataDir), "data"), []byte("x"), 0o644))

	_, code, err := e.run(t, "project", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStoreInit)
	assert.Equal(t, exitSysError, code)
}

func TestConfigInvalid(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("log_format: xml\n"), 0o644))

	_, code, err := e.run(t, "project", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfigInvalid)
	assert.Equal(t, exitUserError, code)
}
