// Config loading and store session setup shared by the data commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/taskbook/internal/app"
	"github.com/mesh-intelligence/taskbook/internal/logging"
	"github.com/mesh-intelligence/taskbook/internal/paths"
	"github.com/mesh-intelligence/taskbook/internal/prefs"
	"github.com/mesh-intelligence/taskbook/internal/sqlite"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

// Config keys in config.yaml.
const (
	cfgKeyDataDir      = "data_dir"
	cfgKeyDatabaseFile = "database_file"
	cfgKeySeedFile     = "seed_file"
	cfgKeyLogLevel     = "log_level"
	cfgKeyLogFormat    = "log_format"
)

// loadConfig reads config.yaml from the resolved config directory and
// resolves the data directory. A missing config.yaml is not an error.
func (o *options) loadConfig() (types.Config, error) {
	var cfg types.Config

	configDir, err := paths.ResolveConfigDir(o.configDir)
	if err != nil {
		return cfg, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDatabaseFile, types.DefaultDatabaseFile)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, types.DefaultLogFormat)
	v.SetDefault(cfgKeySeedFile, "")
	v.SetDefault(cfgKeyDataDir, "")
	_ = v.BindEnv(cfgKeyLogLevel, "TASKBOOK_LOG_LEVEL")
	_ = v.BindEnv(cfgKeyLogFormat, "TASKBOOK_LOG_FORMAT")

	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, userError("read config %s: %v", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, userError("decode config: %v", err)
	}

	cfg.DataDir, err = paths.ResolveDataDir(o.dataDir, cfg.DataDir)
	if err != nil {
		return cfg, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg.WithDefaults(), nil
}

// session is an open store plus the seed lifecycle for one command run.
type session struct {
	config    types.Config
	logger    *slog.Logger
	backend   *sqlite.Backend
	prefs     *prefs.BadgerStore
	loader    *sqlite.SeedLoader
	lifecycle *app.Lifecycle
}

// open loads config, opens the store and the preference database, and
// imports the starter dataset on first use unless seeding is disabled.
func (o *options) open(cmd *cobra.Command, autoSeed bool) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Writer: cmd.ErrOrStderr(),
		Format: cfg.LogFormat,
		Level:  logging.ParseLevel(cfg.LogLevel),
	})

	backend, err := sqlite.NewBackend(cfg, sqlite.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := backend.EnsureSchema(); err != nil {
		return nil, err
	}

	store, err := prefs.OpenBadger(paths.PrefsDir(cfg.DataDir), logger)
	if err != nil {
		backend.Detach()
		return nil, err
	}

	loader := sqlite.NewSeedLoader(backend, logger, sqlite.WithSeedFile(cfg.SeedFile))
	s := &session{
		config:    cfg,
		logger:    logger,
		backend:   backend,
		prefs:     store,
		loader:    loader,
		lifecycle: app.NewLifecycle(loader, store, logger),
	}

	if autoSeed && !o.noSeed {
		if _, _, err := s.lifecycle.EnsureSeeded(); err != nil {
			s.close()
			return nil, err
		}
	}
	return s, nil
}

// close releases the store and the preference database.
func (s *session) close() {
	if err := s.prefs.Close(); err != nil {
		s.logger.Warn("closing preferences", "error", err)
	}
	if err := s.backend.Detach(); err != nil {
		s.logger.Warn("closing database", "error", err)
	}
}

// withSession opens a session, runs fn and closes the session.
func (o *options) withSession(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := o.open(cmd, true)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}
