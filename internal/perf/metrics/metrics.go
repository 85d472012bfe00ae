package metrics

import (
	"errors"
	"time"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/interaction"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exports trial and run metrics. It implements runner.Observer.
type Recorder struct {
	trialDuration *prometheus.HistogramVec
	trialsTotal   *prometheus.CounterVec
	runsTotal     *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		trialDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storyperf_trial_duration_milliseconds",
			Help:    "Duration of successful interaction trials in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1ms to ~8s
		}, []string{"story", "interaction"}),

		trialsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storyperf_trials_total",
			Help: "Interaction trials by result",
		}, []string{"story", "interaction", "result"}),

		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storyperf_runs_total",
			Help: "Benchmark runs by outcome",
		}, []string{"story", "outcome"}),

		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storyperf_run_duration_seconds",
			Help:    "Wall-clock duration of benchmark runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"story", "outcome"}),
	}
}

func (r *Recorder) TrialFinished(storyID, name string, sample result.Sample, err error) {
	r.trialsTotal.WithLabelValues(storyID, name, trialResult(err)).Inc()
	if err == nil {
		r.trialDuration.WithLabelValues(storyID, name).Observe(sample.Duration)
	}
}

func (r *Recorder) RunFinished(storyID string, outcome runner.Outcome, elapsed time.Duration) {
	r.runsTotal.WithLabelValues(storyID, string(outcome)).Inc()
	r.runDuration.WithLabelValues(storyID, string(outcome)).Observe(elapsed.Seconds())
}

func trialResult(err error) string {
	var ie *interaction.Error
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ie):
		return string(ie.Kind)
	default:
		return "error"
	}
}
