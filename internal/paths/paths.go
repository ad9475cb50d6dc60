// Package paths resolves where Taskbook keeps its configuration, its database
// and its preferences.
package paths

import (
	"os"
	"path/filepath"
)

// Directory and file names relative to the working directory or the
// resolved directories.
const (
	DefaultConfigDirName = ".taskbook"
	DefaultDataDirName   = ".taskbook-db"
	ConfigFileName       = "config.yaml"
	PrefsDirName         = "prefs"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TASKBOOK_CONFIG_DIR"
	EnvDataDir   = "TASKBOOK_DATA_DIR"
)

// getwd is replaced in tests.
var getwd = os.Getwd

// ResolveConfigDir returns the configuration directory: flag, then
// TASKBOOK_CONFIG_DIR, then $(CWD)/.taskbook. The result is absolute.
func ResolveConfigDir(flag string) (string, error) {
	return firstAbs(DefaultConfigDirName, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory: flag, then the data_dir value
// from config.yaml, then TASKBOOK_DATA_DIR, then $(CWD)/.taskbook-db. The
// result is absolute.
func ResolveDataDir(flag, configValue string) (string, error) {
	return firstAbs(DefaultDataDirName, flag, configValue, os.Getenv(EnvDataDir))
}

// ConfigFile returns the config.yaml path inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// PrefsDir returns the preference database directory inside dataDir.
func PrefsDir(dataDir string) string {
	return filepath.Join(dataDir, PrefsDirName)
}

// firstAbs returns the first non-empty candidate made absolute, or
// fallback joined to the working directory.
func firstAbs(fallback string, candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, fallback), nil
}
