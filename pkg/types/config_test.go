package types

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "zero config is valid", config: Config{}},
		{name: "full config", config: Config{DataDir: "/tmp/data", DatabaseFile: "x.db", LogLevel: "DEBUG", LogFormat: LogFormatJSON}},
		{name: "database file with slash", config: Config{DatabaseFile: "a/b.db"}, wantErr: ErrDatabaseFileInvalid},
		{name: "database file with backslash", config: Config{DatabaseFile: `a\b.db`}, wantErr: ErrDatabaseFileInvalid},
		{name: "database file dot-dot", config: Config{DatabaseFile: ".."}, wantErr: ErrDatabaseFileInvalid},
		{name: "unknown log format", config: Config{LogFormat: "xml"}, wantErr: ErrLogFormatUnknown},
		{name: "unknown log level", config: Config{LogLevel: "loud"}, wantErr: ErrLogLevelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrConfigInvalid)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{DataDir: "/data"}.WithDefaults()
	assert.Equal(t, DefaultDatabaseFile, c.DatabaseFile)
	assert.Equal(t, DefaultLogLevel, c.LogLevel)
	assert.Equal(t, LogFormatText, c.LogFormat)
	assert.Equal(t, filepath.Join("/data", DefaultDatabaseFile), c.DatabasePath())

	assert.Equal(t, filepath.Join(".", "other.db"), Config{DatabaseFile: "other.db"}.DatabasePath())
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name     string
		err      error
		sentinel error
		wantMsg  string
	}{
		{
			name:     "store init",
			err:      &StoreInitError{Path: "/x/taskbook.db", Err: cause},
			sentinel: ErrStoreInit,
			wantMsg:  "initializing store at /x/taskbook.db: disk on fire",
		},
		{
			name:     "persistence",
			err:      &PersistenceError{Op: "save", Entity: "task", Err: cause},
			sentinel: ErrPersistence,
			wantMsg:  "save task: disk on fire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, tt.err, cause)
			assert.EqualError(t, tt.err, tt.wantMsg)
			assert.NotErrorIs(t, tt.err, ErrInvalidData)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Entity: "tag", Fields: map[string]string{
		"id":    "must be greater than or equal to 0",
		"color": "must be a hex color such as #RRGGBB",
	}}

	assert.ErrorIs(t, err, ErrInvalidData)
	assert.NotErrorIs(t, err, ErrPersistence)
	assert.EqualError(t, err, "invalid tag: color must be a hex color such as #RRGGBB; id must be greater than or equal to 0")
}
