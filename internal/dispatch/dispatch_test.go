package dispatch

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskbook/pkg/types"
)

// collector records reported errors.
type collector struct {
	mu   sync.Mutex
	errs []error
}

func (c *collector) Report(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func TestRunner(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		fn        func() error
		wantErr   error
		wantPanic bool
	}{
		{name: "success reports nothing", fn: func() error { return nil }},
		{name: "error is reported", fn: func() error { return boom }, wantErr: boom},
		{name: "panic is recovered and reported", fn: func() error { panic("kaboom") }, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			c := &collector{}
			r := NewRunner(c, slog.New(slog.NewTextHandler(&logs, nil)))

			id := r.Go("job", tt.fn)
			r.Wait()

			parsed, err := uuid.Parse(id)
			require.NoError(t, err)
			assert.Equal(t, uuid.Version(7), parsed.Version())

			if tt.wantErr == nil && !tt.wantPanic {
				assert.Empty(t, c.errs)
				assert.Empty(t, logs.String())
				return
			}

			require.Len(t, c.errs, 1)
			var jobErr *JobError
			require.True(t, errors.As(c.errs[0], &jobErr))
			assert.Equal(t, id, jobErr.JobID)
			assert.Equal(t, "job", jobErr.Name)
			if tt.wantErr != nil {
				assert.ErrorIs(t, c.errs[0], tt.wantErr)
			}
			if tt.wantPanic {
				assert.Contains(t, jobErr.Error(), "kaboom")
			}
			assert.Contains(t, logs.String(), "background job failed")
		})
	}
}

func TestRunner_WaitsForAllJobs(t *testing.T) {
	r := NewRunner(nil, nil)

	var done atomic.Int32
	for i := 0; i < 20; i++ {
		r.Go("count", func() error {
			done.Add(1)
			return nil
		})
	}
	r.Wait()

	assert.Equal(t, int32(20), done.Load())
}

func TestRunner_ReporterFunc(t *testing.T) {
	var got error
	r := NewRunner(types.ErrorReporterFunc(func(err error) { got = err }), nil)

	r.Go("fail", func() error { return errors.New("nope") })
	r.Wait()

	require.Error(t, got)
	assert.Contains(t, got.Error(), "nope")
}
