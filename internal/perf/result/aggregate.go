package result

import "errors"

var ErrEmptySampleSet = errors.New("empty sample set")

type Aggregate struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Total float64 `json:"total"`
}

// Summarize reduces an ordered sample sequence to its aggregate.
func Summarize(samples []Sample) (Aggregate, error) {
	if len(samples) == 0 {
		return Aggregate{}, ErrEmptySampleSet
	}

	agg := Aggregate{
		Min: samples[0].Duration,
		Max: samples[0].Duration,
	}
	for _, s := range samples {
		agg.Total += s.Duration
		if s.Duration < agg.Min {
			agg.Min = s.Duration
		}
		if s.Duration > agg.Max {
			agg.Max = s.Duration
		}
	}
	agg.Mean = agg.Total / float64(len(samples))

	return agg, nil
}

// Samples builds an indexed sample sequence from raw durations.
func Samples(durations ...float64) []Sample {
	out := make([]Sample, len(durations))
	for i, d := range durations {
		out[i] = Sample{Index: i, Duration: d}
	}
	return out
}
