// Package dispatch runs background jobs whose callers do not wait on them.
// Every failure is logged and handed to an error reporter so none is lost.
package dispatch

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/taskbook/internal/logging"
	"github.com/mesh-intelligence/taskbook/pkg/types"
)

// JobError wraps the failure of one background job.
type JobError struct {
	JobID string
	Name  string
	Err   error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %s (%s): %v", e.Name, e.JobID, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }

// Runner launches jobs on goroutines.
type Runner struct {
	reporter types.ErrorReporter
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewRunner returns a Runner that forwards failures to reporter. A nil
// reporter only logs.
func NewRunner(reporter types.ErrorReporter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{reporter: reporter, logger: logger}
}

// Go runs fn in the background and returns its job id. A returned error or a
// panic is reported as a *JobError.
func (r *Runner) Go(name string, fn func() error) string {
	id := newJobID()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.run(fn); err != nil {
			r.fail(&JobError{JobID: id, Name: name, Err: err})
		}
	}()
	return id
}

// Wait blocks until every launched job has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
			r.logger.Debug("recovered job panic", "stack", string(debug.Stack()))
		}
	}()
	return fn()
}

func (r *Runner) fail(err *JobError) {
	r.logger.Error("background job failed", "job_id", err.JobID, "job", err.Name, "error", err.Err)
	if r.reporter != nil {
		r.reporter.Report(err)
	}
}

func newJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
