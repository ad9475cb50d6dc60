package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/taskbook/internal/paths"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize taskbook storage",
		Long: "Create the configuration and data directories, write a default\n" +
			"config.yaml when none exists, create the database and import the\n" +
			"starter dataset unless --no-seed is given.",
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}
}

func runInit(cmd *cobra.Command, opts *options) error {
	configDir, err := paths.ResolveConfigDir(opts.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	// Resolve through any existing config.yaml so init honors its data_dir.
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := writeConfigIfMissing(paths.ConfigFile(configDir), cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	s, err := opts.open(cmd, true)
	if err != nil {
		return err
	}
	defer s.close()

	fmt.Fprintf(cmd.OutOrStdout(), "Taskbook initialized at %s\n", s.backend.Path())
	return nil
}

// writeConfigIfMissing writes cfg to path unless the file already exists.
func writeConfigIfMissing(path string, cfg types.Config) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
