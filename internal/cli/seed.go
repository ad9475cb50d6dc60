package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

func newSeedCmd(opts *options) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import the starter dataset",
		Long: `Seed imports the starter dataset if it has not been imported yet.

With --reset, every table is cleared and the dataset is imported again.
The seed_file setting in config.yaml replaces the built-in dataset.

Example:
  taskbook seed
  taskbook seed --reset`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.close()

			var (
				summary types.SeedSummary
				ran     = true
			)
			if reset {
				summary, err = s.lifecycle.Reset()
			} else {
				ran, summary, err = s.lifecycle.EnsureSeeded()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonMode {
				return printJSON(out, struct {
					Imported bool              `json:"imported"`
					Summary  types.SeedSummary `json:"summary"`
				}{ran, summary})
			}
			if !ran {
				fmt.Fprintln(out, "Already seeded. Use --reset to import again.")
				return nil
			}
			printSeedSummary(out, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "clear all data and import the dataset again")
	return cmd
}

func printSeedSummary(w io.Writer, s types.SeedSummary) {
	fmt.Fprintf(w, "Imported %d project(s), %d task(s), %d categor(ies), %d tag(s), %d tag link(s)\n",
		s.Projects, s.Tasks, s.Categories, s.Tags, s.Associations)
}
