package cli

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbook/internal/dispatch"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

// stats is the dashboard summary.
type stats struct {
	Projects       int                       `json:"projects"`
	Tasks          int                       `json:"tasks"`
	CompletedTasks int                       `json:"completed_tasks"`
	Tags           int                       `json:"tags"`
	Categories     []types.CategoryTaskCount `json:"categories"`
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts per category and overall totals",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				st, err := collectStats(s)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.jsonMode {
					return printJSON(out, st)
				}

				rows := make([][]string, 0, len(st.Categories))
				for _, c := range st.Categories {
					rows = append(rows, []string{c.Category.Title, c.Category.Color, strconv.Itoa(c.TaskCount)})
				}
				printTable(out, []string{"CATEGORY", "COLOR", "TASKS"}, rows)
				fmt.Fprintf(out, "Projects: %d  Tasks: %d (%d completed)  Tags: %d\n",
					st.Projects, st.Tasks, st.CompletedTasks, st.Tags)
				return nil
			})
		},
	}
}

// collectStats loads the dashboard figures concurrently. Each job fills its
// own fields; failures are joined into one error.
func collectStats(s *session) (*stats, error) {
	var (
		mu   sync.Mutex
		errs []error
		st   stats
	)
	report := types.ErrorReporterFunc(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	})
	runner := dispatch.NewRunner(report, s.logger)

	runner.Go("category-counts", func() error {
		counts, err := s.backend.Categories().TaskCounts()
		if err != nil {
			return err
		}
		st.Categories = counts
		return nil
	})
	runner.Go("projects", func() error {
		projects, err := s.backend.Projects().List()
		if err != nil {
			return err
		}
		st.Projects = len(projects)
		return nil
	})
	runner.Go("tasks", func() error {
		tasks, err := s.backend.Tasks().List()
		if err != nil {
			return err
		}
		st.Tasks = len(tasks)
		for _, t := range tasks {
			if t.IsCompleted {
				st.CompletedTasks++
			}
		}
		return nil
	})
	runner.Go("tags", func() error {
		tags, err := s.backend.Tags().List()
		if err != nil {
			return err
		}
		st.Tags = len(tags)
		return nil
	})
	runner.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &st, nil
}
