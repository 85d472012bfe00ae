package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/interaction"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.TrialFinished("s", "open", result.Sample{Duration: 12}, nil)
	r.TrialFinished("s", "open", result.Sample{Duration: 8}, nil)
	r.TrialFinished("s", "open", result.Sample{}, &interaction.Error{Interaction: "open", Kind: interaction.KindTimeout, Err: interaction.ErrTimeout})
	r.TrialFinished("s", "open", result.Sample{}, errors.New("render failed"))
	r.RunFinished("s", runner.OutcomeFailed, 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.trialsTotal.WithLabelValues("s", "open", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.trialsTotal.WithLabelValues("s", "open", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.trialsTotal.WithLabelValues("s", "open", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("s", "failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.trialDuration))
}
