package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
)

// Runner times single interaction trials.
type Runner struct {
	now func() time.Time
}

type RunnerOption func(*Runner)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the interaction once against c and returns the elapsed time as
// a sample with the given index. No timeout is added on top of the task's own.
func (r *Runner) Run(ctx context.Context, in Interaction, c Container, index int) (result.Sample, error) {
	if in.Run == nil {
		return result.Sample{}, &Error{Interaction: in.Name, Kind: KindFailure, Err: errors.New("interaction has no task")}
	}

	start := r.now()
	err := invoke(ctx, in.Run, TaskArgs{Container: c})
	end := r.now()

	if err != nil {
		return result.Sample{}, classify(in.Name, err)
	}

	return result.Sample{
		Index:    index,
		Duration: float64(end.Sub(start)) / float64(time.Millisecond),
	}, nil
}

func invoke(ctx context.Context, task Task, args TaskArgs) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return task(ctx, args)
}

func classify(name string, err error) *Error {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Interaction: name, Kind: KindTimeout, Err: err}
	}
	return &Error{Interaction: name, Kind: KindFailure, Err: err}
}
