package runner

import (
	"time"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
)

type ProgressKind string

const (
	ProgressTrial       ProgressKind = "trial"
	ProgressInteraction ProgressKind = "interaction"
)

// Progress is informational; a run is correct whether or not anyone listens.
type Progress struct {
	Kind             ProgressKind
	Interaction      string
	InteractionIndex int
	InteractionCount int
	Copy             int
	Sample           int
	Completed        int
	Total            int
	Trial            result.Sample
	Result           *result.InteractionResult
}

type ProgressFunc func(Progress)

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Observer is notified about every trial and run; used for metrics.
type Observer interface {
	TrialFinished(storyID, interaction string, sample result.Sample, err error)
	RunFinished(storyID string, outcome Outcome, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) TrialFinished(string, string, result.Sample, error) {}
func (nopObserver) RunFinished(string, Outcome, time.Duration)          {}
