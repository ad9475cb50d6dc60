package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

func newProjectCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectListCmd(opts),
		newProjectShowCmd(opts),
		newProjectAddCmd(opts),
		newProjectDeleteCmd(opts),
	)
	return cmd
}

func newProjectListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects with their category, task and tag counts",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				projects, err := s.backend.Projects().List()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.jsonMode {
					return printJSON(out, projects)
				}
				if len(projects) == 0 {
					fmt.Fprintln(out, "No projects found.")
					return nil
				}

				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, []string{
						itoa(p.ID),
						truncate(p.Name, 40),
						categoryTitle(p),
						fmt.Sprintf("%d/%d", completedCount(p), len(p.Tasks)),
						tagTitles(p.Tags),
					})
				}
				printTable(out, []string{"ID", "NAME", "CATEGORY", "DONE", "TAGS"}, rows)
				fmt.Fprintf(out, "Total: %d project(s)\n", len(projects))
				return nil
			})
		},
	}
}

func newProjectShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project with its tasks and tags",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			return opts.withSession(cmd, func(s *session) error {
				p, err := getProject(s, id)
				if err != nil {
					return err
				}
				if opts.jsonMode {
					return printJSON(cmd.OutOrStdout(), p)
				}
				printProject(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
}

func newProjectAddCmd(opts *options) *cobra.Command {
	var (
		description string
		icon        string
		categoryID  int64
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Long: `Add creates a project. Tags are matched by title and created when missing.

Example:
  taskbook project add "Website" --category 1 --tag Urgent --tag Design`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				p := &types.Project{Name: args[0], Description: description, Icon: icon}
				if categoryID != 0 {
					cat, found, err := s.backend.Categories().Get(categoryID)
					if err != nil {
						return err
					}
					if !found {
						return userError("category %d not found", categoryID)
					}
					p.CategoryID = cat.ID
				}

				if err := s.backend.Projects().Save(p); err != nil {
					return err
				}
				for _, title := range tags {
					tag, err := findOrNewTag(s, title)
					if err != nil {
						return err
					}
					if err := s.backend.Tags().SaveAssociation(tag, p.ID); err != nil {
						return err
					}
				}

				saved, err := getProject(s, p.ID)
				if err != nil {
					return err
				}
				if opts.jsonMode {
					return printJSON(cmd.OutOrStdout(), saved)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %d: %s\n", saved.ID, saved.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&icon, "icon", "", "icon reference")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag title (repeatable)")
	return cmd
}

func newProjectDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project with its tasks and tag links",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			return opts.withSession(cmd, func(s *session) error {
				p, err := getProject(s, id)
				if err != nil {
					return err
				}
				if err := s.backend.Projects().Delete(p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %d and %d task(s)\n", p.ID, len(p.Tasks))
				return nil
			})
		},
	}
}

// getProject loads a project or returns a user error when it does not exist.
func getProject(s *session, id int64) (*types.Project, error) {
	p, found, err := s.backend.Projects().Get(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, userError("project %d not found", id)
	}
	return p, nil
}

// findOrNewTag returns the first tag titled title, or an unsaved one.
func findOrNewTag(s *session, title string) (*types.Tag, error) {
	all, err := s.backend.Tags().List()
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if strings.EqualFold(t.Title, title) {
			return t, nil
		}
	}
	return types.NewTag(title, ""), nil
}

func printProject(w io.Writer, p *types.Project) {
	fmt.Fprintf(w, "Project %d: %s\n", p.ID, p.Name)
	if p.Description != "" {
		fmt.Fprintf(w, "  Description: %s\n", p.Description)
	}
	if p.Icon != "" {
		fmt.Fprintf(w, "  Icon:        %s\n", p.Icon)
	}
	fmt.Fprintf(w, "  Category:    %s\n", categoryTitle(p))
	fmt.Fprintf(w, "  Tags:        %s\n", tagTitles(p.Tags))
	fmt.Fprintf(w, "  Tasks:       %d (%d done)\n", len(p.Tasks), completedCount(p))
	for _, t := range p.Tasks {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(w, "    [%s] %s %s\n", mark, itoa(t.ID), t.Title)
	}
}

func categoryTitle(p *types.Project) string {
	if p.Category == nil {
		return "-"
	}
	return p.Category.Title
}

func tagTitles(tags []*types.Tag) string {
	if len(tags) == 0 {
		return "-"
	}
	titles := make([]string, len(tags))
	for i, t := range tags {
		titles[i] = t.Title
	}
	return strings.Join(titles, ", ")
}

func completedCount(p *types.Project) int {
	n := 0
	for _, t := range p.Tasks {
		if t.IsCompleted {
			n++
		}
	}
	return n
}
