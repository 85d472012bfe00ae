package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/interaction"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	renders atomic.Int32
	err     error
}

type fakeContainer struct {
	id     int32
	closed bool
}

func (c *fakeContainer) Close() error {
	c.closed = true
	return nil
}

func (r *fakeRenderer) Render(ctx context.Context, s story.Story) (interaction.Container, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &fakeContainer{id: r.renders.Add(1)}, nil
}

type recordingObserver struct {
	mu       sync.Mutex
	trials   int
	failures int
	outcomes []Outcome
}

func (o *recordingObserver) TrialFinished(_, _ string, _ result.Sample, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.trials++
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) RunFinished(_ string, outcome Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

// fixedClock makes every trial take exactly step.
func fixedClock(step time.Duration) *interaction.Runner {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	return interaction.NewRunner(interaction.WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := t
		t = t.Add(step)
		return now
	}))
}

func noop(ctx context.Context, args interaction.TaskArgs) error { return nil }

func TestExecute_CopiesTimesSamples(t *testing.T) {
	renderer := &fakeRenderer{}
	obs := &recordingObserver{}
	r := New(renderer, WithInteractionRunner(fixedClock(2*time.Millisecond)), WithObserver(obs))

	s := story.Story{
		ID:           "examples--select",
		Name:         "React select",
		Interactions: []interaction.Interaction{{Name: "Display dropdown", Run: noop}},
	}

	sr, err := r.Execute(context.Background(), Request{Story: s, Config: Config{Copies: 2, Samples: 3}, RunID: "run-1"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "run-1", sr.RunID)
	assert.Equal(t, "examples--select", sr.StoryID)
	assert.Equal(t, "React select", sr.StoryName)
	assert.Equal(t, 2, sr.Copies)
	assert.Equal(t, 3, sr.Samples)
	require.Len(t, sr.Interactions, 1)

	ir := sr.Interactions[0]
	require.Len(t, ir.Samples, 6)
	for i, smp := range ir.Samples {
		assert.Equal(t, i, smp.Index)
		assert.Equal(t, 2.0, smp.Duration)
	}
	assert.Equal(t, result.Aggregate{Mean: 2, Min: 2, Max: 2, Total: 12}, ir.Aggregate)

	assert.Equal(t, int32(6), renderer.renders.Load())
	assert.Equal(t, 6, obs.trials)
	assert.Equal(t, []Outcome{OutcomeCompleted}, obs.outcomes)
}

func TestExecute_SampleCountProperty(t *testing.T) {
	for _, cfg := range []Config{{1, 1}, {1, 5}, {3, 1}, {4, 2}} {
		s := story.Story{
			ID: "s",
			Interactions: []interaction.Interaction{
				{Name: "a", Run: noop},
				{Name: "b", Run: noop},
			},
		}
		sr, err := New(&fakeRenderer{}).Execute(context.Background(), Request{Story: s, Config: cfg}, nil)
		require.NoError(t, err)
		require.Len(t, sr.Interactions, 2)
		for _, ir := range sr.Interactions {
			assert.Len(t, ir.Samples, cfg.Copies*cfg.Samples)
		}
	}
}

func TestExecute_OrderAndIsolation(t *testing.T) {
	var (
		mu       sync.Mutex
		order    []string
		inFlight atomic.Int32
		overlap  atomic.Bool
		seen     = map[int32]bool{}
	)

	task := func(name string) interaction.Task {
		return func(ctx context.Context, args interaction.TaskArgs) error {
			if inFlight.Add(1) > 1 {
				overlap.Store(true)
			}
			defer inFlight.Add(-1)

			c := args.Container.(*fakeContainer)
			mu.Lock()
			defer mu.Unlock()
			if seen[c.id] {
				return errors.New("container reused")
			}
			seen[c.id] = true
			order = append(order, name)
			return nil
		}
	}

	s := story.Story{
		ID: "s",
		Interactions: []interaction.Interaction{
			{Name: "first", Run: task("first")},
			{Name: "second", Run: task("second")},
		},
	}

	var kinds []ProgressKind
	sr, err := New(&fakeRenderer{}).Execute(context.Background(), Request{Story: s, Config: Config{Copies: 1, Samples: 2}}, func(p Progress) {
		kinds = append(kinds, p.Kind)
	})
	require.NoError(t, err)

	assert.False(t, overlap.Load())
	assert.Equal(t, []string{"first", "first", "second", "second"}, order)
	assert.Equal(t, []string{"first", "second"}, []string{sr.Interactions[0].Name, sr.Interactions[1].Name})
	assert.Equal(t, []ProgressKind{
		ProgressTrial, ProgressTrial, ProgressInteraction,
		ProgressTrial, ProgressTrial, ProgressInteraction,
	}, kinds)
}

func TestExecute_CancelBetweenTrials(t *testing.T) {
	s := story.Story{
		ID: "s",
		Interactions: []interaction.Interaction{
			{Name: "a", Run: noop},
			{Name: "b", Run: noop},
			{Name: "c", Run: noop},
		},
	}

	// 2 trials per interaction, 6 in total.
	for n := 0; n <= 6; n++ {
		ctx, cancel := context.WithCancel(context.Background())
		obs := &recordingObserver{}
		r := New(&fakeRenderer{}, WithObserver(obs))

		if n == 0 {
			cancel()
		}
		sr, err := r.Execute(ctx, Request{Story: s, Config: Config{Copies: 1, Samples: 2}}, func(p Progress) {
			if p.Kind == ProgressTrial && p.Completed == n {
				cancel()
			}
		})
		cancel()

		if n == 6 {
			require.NoError(t, err, "cancel after the last trial has nothing left to stop")
			assert.Len(t, sr.Interactions, 3)
			continue
		}

		require.ErrorIs(t, err, ErrCancelled, "n=%d", n)
		assert.Len(t, sr.Interactions, n/2, "n=%d", n)
		assert.Equal(t, n, obs.trials, "n=%d", n)
		assert.Equal(t, []Outcome{OutcomeCancelled}, obs.outcomes)
	}
}

func TestExecute_TrialNotAbortedByCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var trialCtxErr error
	s := story.Story{
		ID: "s",
		Interactions: []interaction.Interaction{{
			Name: "slow",
			Run: func(taskCtx context.Context, args interaction.TaskArgs) error {
				cancel()
				trialCtxErr = taskCtx.Err()
				return nil
			},
		}},
	}

	sr, err := New(&fakeRenderer{}).Execute(ctx, Request{Story: s, Config: Config{Copies: 1, Samples: 2}}, nil)
	require.ErrorIs(t, err, ErrCancelled)
	assert.NoError(t, trialCtxErr)
	assert.Empty(t, sr.Interactions)
}

func TestExecute_TrialFailure(t *testing.T) {
	calls := 0
	s := story.Story{
		ID: "s",
		Interactions: []interaction.Interaction{
			{Name: "ok", Run: noop},
			{Name: "flaky", Run: func(ctx context.Context, args interaction.TaskArgs) error {
				calls++
				if calls == 2 {
					return interaction.ErrTimeout
				}
				return nil
			}},
			{Name: "never", Run: noop},
		},
	}
	obs := &recordingObserver{}

	sr, err := New(&fakeRenderer{}, WithObserver(obs)).Execute(context.Background(), Request{Story: s, Config: Config{Copies: 1, Samples: 3}}, nil)
	require.Error(t, err)

	var te *TrialError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "flaky", te.Interaction)
	assert.Equal(t, 0, te.Copy)
	assert.Equal(t, 1, te.Sample)
	assert.True(t, interaction.IsTimeout(err))

	require.Len(t, sr.Interactions, 1)
	assert.Equal(t, "ok", sr.Interactions[0].Name)
	assert.Equal(t, 1, obs.failures)
	assert.Equal(t, []Outcome{OutcomeFailed}, obs.outcomes)
}

func TestExecute_RenderFailure(t *testing.T) {
	s := story.Story{ID: "s", Interactions: []interaction.Interaction{{Name: "a", Run: noop}}}

	_, err := New(&fakeRenderer{err: errors.New("connection refused")}).Execute(context.Background(), Request{Story: s, Config: DefaultConfig()}, nil)
	require.Error(t, err)

	var ie *interaction.Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, interaction.KindFailure, ie.Kind)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestExecute_ReleasesContainers(t *testing.T) {
	var containers []*fakeContainer
	s := story.Story{ID: "s", Interactions: []interaction.Interaction{{
		Name: "a",
		Run: func(ctx context.Context, args interaction.TaskArgs) error {
			containers = append(containers, args.Container.(*fakeContainer))
			return nil
		},
	}}}

	_, err := New(&fakeRenderer{}).Execute(context.Background(), Request{Story: s, Config: Config{Copies: 1, Samples: 2}}, nil)
	require.NoError(t, err)
	require.Len(t, containers, 2)
	for _, c := range containers {
		assert.True(t, c.closed)
	}
}

func TestExecute_NoInteractions(t *testing.T) {
	sr, err := New(&fakeRenderer{}).Execute(context.Background(), Request{Story: story.Story{ID: "empty"}, Config: DefaultConfig()}, nil)
	require.NoError(t, err)
	assert.NotNil(t, sr.Interactions)
	assert.Empty(t, sr.Interactions)
}

func TestExecute_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero copies", Config{Copies: 0, Samples: 1}},
		{"zero samples", Config{Copies: 1, Samples: 0}},
		{"too many trials", Config{Copies: 7, Samples: 4_000_000_000_000}},
		{"overflowing trials", Config{Copies: 1 << 40, Samples: 1 << 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRenderer{}
			_, err := New(r).Execute(context.Background(), Request{
				Story:  story.Story{ID: "s", Interactions: []interaction.Interaction{{Name: "a", Run: func(context.Context, interaction.TaskArgs) error { return nil }}}},
				Config: tt.cfg,
			}, nil)
			assert.Error(t, err)
		})
	}
}
