package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/interaction"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/story"
)

// Renderer produces a freshly rendered container for a story. It is called
// before every trial so each one starts from a clean state.
type Renderer interface {
	Render(ctx context.Context, s story.Story) (interaction.Container, error)
}

const maxPrealloc = 1024

type Request struct {
	Story  story.Story
	Config Config
	RunID  string
}

type Runner struct {
	renderer    Renderer
	interaction *interaction.Runner
	observer    Observer
}

type Option func(*Runner)

func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

func WithInteractionRunner(ir *interaction.Runner) Option {
	return func(r *Runner) {
		r.interaction = ir
	}
}

func New(renderer Renderer, opts ...Option) *Runner {
	r := &Runner{
		renderer:    renderer,
		interaction: interaction.NewRunner(),
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs every interaction of the story copies × samples times, strictly
// one trial at a time. Cancelling ctx is observed between trials only; the
// in-flight trial always runs to completion.
//
// On cancellation or failure the returned result holds the interactions that
// completed before the stop, alongside ErrCancelled or a *TrialError.
func (r *Runner) Execute(ctx context.Context, req Request, onProgress ProgressFunc) (*result.StoryResult, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	started := time.Now()
	sr := &result.StoryResult{
		RunID:        req.RunID,
		StoryID:      req.Story.ID,
		StoryName:    req.Story.Name,
		Copies:       req.Config.Copies,
		Samples:      req.Config.Samples,
		Interactions: []result.InteractionResult{},
	}

	interactions := req.Story.Interactions
	total := len(interactions) * req.Config.Trials()
	completed := 0

	for i, in := range interactions {
		samples := make([]result.Sample, 0, min(req.Config.Trials(), maxPrealloc))

		for c := 0; c < req.Config.Copies; c++ {
			for s := 0; s < req.Config.Samples; s++ {
				if ctx.Err() != nil {
					slog.Info("Run cancelled", "story", req.Story.ID, "interaction", in.Name, "completed_interactions", len(sr.Interactions))
					r.observer.RunFinished(req.Story.ID, OutcomeCancelled, time.Since(started))
					return sr, ErrCancelled
				}

				sample, err := r.trial(ctx, req.Story, in, c*req.Config.Samples+s)
				r.observer.TrialFinished(req.Story.ID, in.Name, sample, err)
				if err != nil {
					slog.Warn("Trial failed", "story", req.Story.ID, "interaction", in.Name, "copy", c, "sample", s, "error", err)
					r.observer.RunFinished(req.Story.ID, OutcomeFailed, time.Since(started))
					return sr, &TrialError{Interaction: in.Name, Copy: c, Sample: s, Err: err}
				}
				samples = append(samples, sample)
				completed++

				onProgress(Progress{
					Kind:             ProgressTrial,
					Interaction:      in.Name,
					InteractionIndex: i,
					InteractionCount: len(interactions),
					Copy:             c,
					Sample:           s,
					Completed:        completed,
					Total:            total,
					Trial:            sample,
				})
			}
		}

		agg, err := result.Summarize(samples)
		if err != nil {
			slog.Error("Aggregation invariant violated", "story", req.Story.ID, "interaction", in.Name, "error", err)
			r.observer.RunFinished(req.Story.ID, OutcomeFailed, time.Since(started))
			return sr, fmt.Errorf("aggregate %q: %w", in.Name, err)
		}

		ir := result.InteractionResult{
			Name:      in.Name,
			Samples:   samples,
			Aggregate: agg,
		}
		sr.Interactions = append(sr.Interactions, ir)

		onProgress(Progress{
			Kind:             ProgressInteraction,
			Interaction:      in.Name,
			InteractionIndex: i,
			InteractionCount: len(interactions),
			Completed:        completed,
			Total:            total,
			Result:           &ir,
		})
	}

	r.observer.RunFinished(req.Story.ID, OutcomeCompleted, time.Since(started))
	return sr, nil
}

func (r *Runner) trial(ctx context.Context, s story.Story, in interaction.Interaction, index int) (result.Sample, error) {
	trialCtx := context.WithoutCancel(ctx)

	container, err := r.renderer.Render(trialCtx, s)
	if err != nil {
		return result.Sample{}, &interaction.Error{
			Interaction: in.Name,
			Kind:        interaction.KindFailure,
			Err:         fmt.Errorf("render story %q: %w", s.ID, err),
		}
	}
	defer release(container)

	return r.interaction.Run(trialCtx, in, container, index)
}

func release(c interaction.Container) {
	closer, ok := c.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil && !errors.Is(err, io.EOF) {
		slog.Debug("Container release failed", "error", err)
	}
}
