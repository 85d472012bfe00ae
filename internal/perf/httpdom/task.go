package httpdom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/interaction"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/suite"
)

var ErrTextNotFound = errors.New("text not found")

// Compile turns a suite interaction into a task run against a *Page. The
// interaction's timeout bounds the whole step sequence.
func Compile(def suite.InteractionDef, poll time.Duration) interaction.Task {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	steps := def.Steps
	timeout := def.Timeout

	return func(ctx context.Context, args interaction.TaskArgs) error {
		page, ok := args.Container.(*Page)
		if !ok {
			return fmt.Errorf("unexpected container %T", args.Container)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		for i, step := range steps {
			if err := runStep(ctx, page, step, poll); err != nil {
				return fmt.Errorf("step %d (%s): %w", i, step.Kind(), err)
			}
		}
		return nil
	}
}

func runStep(ctx context.Context, page *Page, step suite.StepDef, poll time.Duration) error {
	switch {
	case step.Request != nil:
		req := step.Request
		return page.Do(ctx, req.Method, req.Path, req.Body)
	case step.ExpectText != "":
		if !page.Contains(step.ExpectText) {
			return fmt.Errorf("%q: %w", step.ExpectText, ErrTextNotFound)
		}
		return nil
	case step.WaitForText != "":
		return waitForText(ctx, page, step.WaitForText, poll)
	default:
		return fmt.Errorf("empty step")
	}
}

func waitForText(ctx context.Context, page *Page, text string, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for !page.Contains(text) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", text, interaction.ErrTimeout)
		case <-ticker.C:
		}
		if err := page.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("waiting for %q: %w", text, interaction.ErrTimeout)
			}
			return err
		}
	}
	return nil
}
