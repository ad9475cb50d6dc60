package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskbook/internal/prefs"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

type fakeSeeder struct {
	calls int
	err   error
}

func (f *fakeSeeder) Run() (types.SeedSummary, error) {
	f.calls++
	if f.err != nil {
		return types.SeedSummary{}, f.err
	}
	return types.SeedSummary{Projects: 2, Tasks: 3}, nil
}

func TestLifecycle_EnsureSeeded(t *testing.T) {
	tests := []struct {
		name      string
		preset    bool
		seedErr   error
		wantRan   bool
		wantCalls int
		wantFlag  bool
		wantErr   bool
	}{
		{name: "first run imports and sets flag", wantRan: true, wantCalls: 1, wantFlag: true},
		{name: "already seeded is a no-op", preset: true, wantCalls: 0, wantFlag: true},
		{name: "failed import leaves flag unset", seedErr: errors.New("disk full"), wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := prefs.NewMemoryStore()
			if tt.preset {
				require.NoError(t, flags.Set(SeededKey, "true"))
			}
			seeder := &fakeSeeder{err: tt.seedErr}
			l := NewLifecycle(seeder, flags, nil)

			ran, summary, err := l.EnsureSeeded()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.seedErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRan, ran)
			assert.Equal(t, tt.wantCalls, seeder.calls)
			if tt.wantRan {
				assert.Equal(t, 2, summary.Projects)
			}

			seeded, err := l.IsSeeded()
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlag, seeded)
		})
	}
}

func TestLifecycle_EnsureSeededTwice(t *testing.T) {
	seeder := &fakeSeeder{}
	l := NewLifecycle(seeder, prefs.NewMemoryStore(), nil)

	_, _, err := l.EnsureSeeded()
	require.NoError(t, err)
	ran, _, err := l.EnsureSeeded()
	require.NoError(t, err)

	assert.False(t, ran)
	assert.Equal(t, 1, seeder.calls)
}

func TestLifecycle_Reset(t *testing.T) {
	t.Run("reimports and sets flag", func(t *testing.T) {
		flags := prefs.NewMemoryStore()
		require.NoError(t, flags.Set(SeededKey, "true"))
		seeder := &fakeSeeder{}

		summary, err := NewLifecycle(seeder, flags, nil).Reset()
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Tasks)
		assert.Equal(t, 1, seeder.calls)

		ok, _ := flags.Has(SeededKey)
		assert.True(t, ok)
	})

	t.Run("failure leaves flag cleared", func(t *testing.T) {
		flags := prefs.NewMemoryStore()
		require.NoError(t, flags.Set(SeededKey, "true"))
		seeder := &fakeSeeder{err: errors.New("boom")}

		_, err := NewLifecycle(seeder, flags, nil).Reset()
		require.Error(t, err)

		ok, _ := flags.Has(SeededKey)
		assert.False(t, ok)
	})
}

// failingFlags fails every call with err.
type failingFlags struct{ err error }

func (f failingFlags) Has(string) (bool, error) { return false, f.err }
func (f failingFlags) Set(string, string) error { return f.err }
func (f failingFlags) Remove(string) error      { return f.err }

func TestLifecycle_FlagErrors(t *testing.T) {
	boom := errors.New("prefs unavailable")
	seeder := &fakeSeeder{}
	l := NewLifecycle(seeder, failingFlags{err: boom}, nil)

	_, _, err := l.EnsureSeeded()
	assert.ErrorIs(t, err, boom)

	_, err = l.Reset()
	assert.ErrorIs(t, err, boom)

	assert.Zero(t, seeder.calls)
}
