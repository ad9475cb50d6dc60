package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Defaults applied by Config when fields are left empty.
const (
	DefaultDatabaseFile = "taskbook.db"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = LogFormatText
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the parameters for opening a Taskbook store.
type Config struct {
	DataDir      string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	DatabaseFile string `json:"database_file" yaml:"database_file" mapstructure:"database_file"`
	SeedFile     string `json:"seed_file,omitempty" yaml:"seed_file,omitempty" mapstructure:"seed_file"`
	LogLevel     string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogFormat    string `json:"log_format" yaml:"log_format" mapstructure:"log_format"`
}

// Config validation errors. Each wraps ErrConfigInvalid.
var (
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrDatabaseFileInvalid = fmt.Errorf("%w: database file must be a bare file name", ErrConfigInvalid)
	ErrLogFormatUnknown    = fmt.Errorf("%w: unknown log format", ErrConfigInvalid)
	ErrLogLevelUnknown     = fmt.Errorf("%w: unknown log level", ErrConfigInvalid)
)

var knownLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate checks that the Config is well-formed. Empty fields are valid and
// resolve to their defaults.
func (c Config) Validate() error {
	if c.DatabaseFile != "" && (strings.ContainsAny(c.DatabaseFile, `/\`) || c.DatabaseFile == "." || c.DatabaseFile == "..") {
		return ErrDatabaseFileInvalid
	}
	switch c.LogFormat {
	case "", LogFormatText, LogFormatJSON:
	default:
		return ErrLogFormatUnknown
	}
	if c.LogLevel != "" && !knownLogLevels[strings.ToLower(c.LogLevel)] {
		return ErrLogLevelUnknown
	}
	return nil
}

// DatabasePath returns the location of the database file. An empty DataDir
// resolves to the working directory.
func (c Config) DatabasePath() string {
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	name := c.DatabaseFile
	if name == "" {
		name = DefaultDatabaseFile
	}
	return filepath.Join(dir, name)
}

// WithDefaults returns a copy of c with empty fields filled in.
func (c Config) WithDefaults() Config {
	if c.DatabaseFile == "" {
		c.DatabaseFile = DefaultDatabaseFile
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	return c
}
