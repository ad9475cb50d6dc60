package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

func newCategoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(
		newCategoryListCmd(opts),
		newCategoryAddCmd(opts),
		newCategoryDeleteCmd(opts),
	)
	return cmd
}

func newCategoryListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				cats, err := s.backend.Categories().List()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.jsonMode {
					return printJSON(out, cats)
				}
				if len(cats) == 0 {
					fmt.Fprintln(out, "No categories found.")
					return nil
				}
				rows := make([][]string, 0, len(cats))
				for _, c := range cats {
					rows = append(rows, []string{itoa(c.ID), c.Title, c.Color})
				}
				printTable(out, []string{"ID", "TITLE", "COLOR"}, rows)
				return nil
			})
		},
	}
}

func newCategoryAddCmd(opts *options) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a category",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				c := types.NewCategory(args[0], color)
				if err := s.backend.Categories().Save(c); err != nil {
					return err
				}
				if opts.jsonMode {
					return printJSON(cmd.OutOrStdout(), c)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created category %d: %s\n", c.ID, c.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", types.DefaultColor, "hex color such as #0000FF")
	return cmd
}

func newCategoryDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category; its projects keep no category",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("category", args[0])
			if err != nil {
				return err
			}
			return opts.withSession(cmd, func(s *session) error {
				c, found, err := s.backend.Categories().Get(id)
				if err != nil {
					return err
				}
				if !found {
					return userError("category %d not found", id)
				}
				if err := s.backend.Categories().Delete(c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %d\n", c.ID)
				return nil
			})
		},
	}
}
