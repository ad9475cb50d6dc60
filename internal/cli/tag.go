package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

func newTagCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		Aliases: []string{"tags"},
		Short:   "Manage tags and their project links",
	}
	cmd.AddCommand(
		newTagListCmd(opts),
		newTagAddCmd(opts),
		newTagDeleteCmd(opts),
		newTagLinkCmd(opts, true),
		newTagLinkCmd(opts, false),
	)
	return cmd
}

func newTagListCmd(opts *options) *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				var (
					tags []*types.Tag
					err  error
				)
				if projectID != 0 {
					tags, err = s.backend.Tags().ListByProject(projectID)
				} else {
					tags, err = s.backend.Tags().List()
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if opts.jsonMode {
					return printJSON(out, tags)
				}
				if len(tags) == 0 {
					fmt.Fprintln(out, "No tags found.")
					return nil
				}
				rows := make([][]string, 0, len(tags))
				for _, t := range tags {
					rows = append(rows, []string{itoa(t.ID), t.Title, t.Color})
				}
				printTable(out, []string{"ID", "TITLE", "COLOR"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "only tags linked to this project")
	return cmd
}

func newTagAddCmd(opts *options) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a tag",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				t := types.NewTag(args[0], color)
				if err := s.backend.Tags().Save(t); err != nil {
					return err
				}
				if opts.jsonMode {
					return printJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created tag %d: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", types.DefaultColor, "hex color such as #FF0000")
	return cmd
}

func newTagDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag and unlink it from every project",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("tag", args[0])
			if err != nil {
				return err
			}
			return opts.withSession(cmd, func(s *session) error {
				t, err := getTag(s, id)
				if err != nil {
					return err
				}
				if err := s.backend.Tags().Delete(t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %d\n", t.ID)
				return nil
			})
		},
	}
}

// newTagLinkCmd builds "attach" when attach is true and "detach" otherwise.
func newTagLinkCmd(opts *options, attach bool) *cobra.Command {
	use, short, verb := "detach <tag-id> <project-id>", "Unlink a tag from a project", "Detached"
	if attach {
		use, short, verb = "attach <tag-id> <project-id>", "Link a tag to a project", "Attached"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tagID, err := parseID("tag", args[0])
			if err != nil {
				return err
			}
			projectID, err := parseID("project", args[1])
			if err != nil {
				return err
			}
			return opts.withSession(cmd, func(s *session) error {
				t, err := getTag(s, tagID)
				if err != nil {
					return err
				}
				if _, err := getProject(s, projectID); err != nil {
					return err
				}
				if attach {
					err = s.backend.Tags().SaveAssociation(t, projectID)
				} else {
					err = s.backend.Tags().DeleteAssociation(t, projectID)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s tag %d and project %d\n", verb, tagID, projectID)
				return nil
			})
		},
	}
}

func getTag(s *session, id int64) (*types.Tag, error) {
	t, found, err := s.backend.Tags().Get(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, userError("tag %d not found", id)
	}
	return t, nil
}
