package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

func newTaskCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskListCmd(opts),
		newTaskAddCmd(opts),
		newTaskDoneCmd(opts),
		newTaskDeleteCmd(opts),
	)
	return cmd
}

func newTaskListCmd(opts *options) *cobra.Command {
	var projectID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List shows every task, or the tasks of one project with --project.

Example:
  taskbook task list
  taskbook task list --project 2 --json`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				var (
					tasks []*types.Task
					err   error
				)
				if projectID != 0 {
					tasks, err = s.backend.Tasks().ListByProject(projectID)
				} else {
					tasks, err = s.backend.Tasks().List()
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if opts.jsonMode {
					return printJSON(out, tasks)
				}
				if len(tasks) == 0 {
					fmt.Fprintln(out, "No tasks found.")
					return nil
				}
				rows := make([][]string, 0, len(tasks))
				for _, t := range tasks {
					project := "-"
					if t.Attached() {
						project = itoa(t.ProjectID)
					}
					rows = append(rows, []string{itoa(t.ID), truncate(t.Title, 50), strconv.FormatBool(t.IsCompleted), project})
				}
				printTable(out, []string{"ID", "TITLE", "DONE", "PROJECT"}, rows)
				fmt.Fprintf(out, "Total: %d task(s)\n", len(tasks))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "only tasks of this project")
	return cmd
}

func newTaskAddCmd(opts *options) *cobra.Command {
	var (
		projectID int64
		done      bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				if projectID != 0 {
					if _, err := getProject(s, projectID); err != nil {
						return err
					}
				}
				t := &types.Task{Title: args[0], IsCompleted: done, ProjectID: projectID}
				if err := s.backend.Tasks().Save(t); err != nil {
					return err
				}
				if opts.jsonMode {
					return printJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %d: %s\n", t.ID, t.Title)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "owning project id")
	cmd.Flags().BoolVar(&done, "done", false, "create the task already completed")
	return cmd
}

func newTaskDoneCmd(opts *options) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			return opts.withSession(cmd, func(s *session) error {
				t, err := getTask(s, id)
				if err != nil {
					return err
				}
				t.IsCompleted = !undo
				if err := s.backend.Tasks().Save(t); err != nil {
					return err
				}
				if opts.jsonMode {
					return printJSON(cmd.OutOrStdout(), t)
				}
				state := "completed"
				if undo {
					state = "open"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d is %s\n", t.ID, state)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark the task open again")
	return cmd
}

func newTaskDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			return opts.withSession(cmd, func(s *session) error {
				t, err := getTask(s, id)
				if err != nil {
					return err
				}
				if err := s.backend.Tasks().Delete(t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", t.ID)
				return nil
			})
		},
	}
}

func getTask(s *session, id int64) (*types.Task, error) {
	t, found, err := s.backend.Tasks().Get(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, userError("task %d not found", id)
	}
	return t, nil
}
