// Package cli implements the taskbook command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// options holds global flag values shared by every subcommand.
type options struct {
	configDir string
	dataDir   string
	jsonMode  bool
	noSeed    bool

	// started is set once flag and argument parsing succeeded.
	started bool
}

// NewRootCmd creates the top-level "taskbook" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskbook",
		Short: "A local task tracker",
		Long: "Taskbook keeps projects, their tasks, categories and tags in a local\n" +
			"SQLite file. The first data command imports a starter dataset.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.started = true
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configDir, "config-dir", "", "configuration directory (default: .taskbook)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "data directory (default: .taskbook-db)")
	pf.BoolVar(&opts.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&opts.noSeed, "no-seed", false, "do not import the starter dataset on first use")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(opts),
		newSeedCmd(opts),
		newStatsCmd(opts),
		newCleanCmd(opts),
		newProjectCmd(opts),
		newTaskCmd(opts),
		newCategoryCmd(opts),
		newTagCmd(opts),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	opts := &options{}
	root := newRootCmd(opts)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return exitCode(opts, err)
}

// cliError carries an explicit exit code.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

// userError reports a problem with the request rather than the system.
func userError(format string, args ...any) error {
	return &cliError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// exitCode maps an error to an exit code. Usage errors, invalid entities and
// invalid configuration are the user's; everything else is the system's.
func exitCode(opts *options, err error) int {
	var ce *cliError
	switch {
	case errors.As(err, &ce):
		return ce.code
	case !opts.started:
		return exitUserError
	case errors.Is(err, types.ErrInvalidData), errors.Is(err, types.ErrConfigInvalid):
		return exitUserError
	default:
		return exitSysError
	}
}
