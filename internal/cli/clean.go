package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete every completed task",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				n, err := s.backend.Tasks().DeleteCompleted()
				if err != nil {
					return err
				}
				if opts.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int{"removed": n})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed task(s)\n", n)
				return nil
			})
		},
	}
}
