package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskbook/pkg/sqlite"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

func TestNewBackend(t *testing.T) {
	tracker, err := sqlite.NewBackend(types.Config{DataDir: t.TempDir()}, nil)
	require.NoError(t, err)
	defer tracker.Detach()

	summary, err := sqlite.LoadSeed(tracker, "", nil)
	require.NoError(t, err)

	projects, err := tracker.Projects().List()
	require.NoError(t, err)
	assert.Len(t, projects, summary.Projects)
}

func TestNewBackend_InvalidConfig(t *testing.T) {
	_, err := sqlite.NewBackend(types.Config{LogFormat: "xml"}, nil)
	assert.ErrorIs(t, err, types.ErrConfigInvalid)
}
