package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
)

const FormatVersion = 1

var ErrMalformedPayload = errors.New("malformed payload")

// Payload is what a saved file carries: the current result and, when a
// baseline was pinned at save time, that baseline too.
type Payload struct {
	Current result.StoryResult
	Pinned  *result.StoryResult
}

func Encode(p Payload) ([]byte, error) {
	doc := fileDoc{
		Version:   FormatVersion,
		resultDoc: toDoc(p.Current),
	}
	if p.Pinned != nil {
		pinned := toDoc(*p.Pinned)
		doc.Pinned = &pinned
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result file: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (*Payload, error) {
	var doc rawFileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if doc.Version != nil && *doc.Version > FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedPayload, *doc.Version)
	}

	current, err := fromDoc(doc.rawResultDoc)
	if err != nil {
		return nil, err
	}

	p := &Payload{Current: *current}
	if doc.Pinned != nil {
		pinned, err := fromDoc(*doc.Pinned)
		if err != nil {
			return nil, fmt.Errorf("pinned: %w", err)
		}
		p.Pinned = pinned
	}
	return p, nil
}

func toDoc(r result.StoryResult) resultDoc {
	doc := resultDoc{
		RunID:        r.RunID,
		StoryID:      r.StoryID,
		StoryName:    r.StoryName,
		Copies:       r.Copies,
		Samples:      r.Samples,
		Interactions: make([]interactionDoc, 0, len(r.Interactions)),
	}
	for _, ir := range r.Interactions {
		doc.Interactions = append(doc.Interactions, interactionDoc{
			Name:    ir.Name,
			Samples: ir.Durations(),
			Aggregate: aggregateDoc{
				Mean:  ir.Aggregate.Mean,
				Min:   ir.Aggregate.Min,
				Max:   ir.Aggregate.Max,
				Total: ir.Aggregate.Total,
			},
		})
	}
	return doc
}

func fromDoc(doc rawResultDoc) (*result.StoryResult, error) {
	if doc.StoryName == nil || *doc.StoryName == "" {
		return nil, malformed("missing storyName")
	}
	if doc.Interactions == nil {
		return nil, malformed("missing interactions")
	}
	if doc.Copies == nil || *doc.Copies < 1 {
		return nil, malformed("copies must be a positive integer")
	}
	if doc.Samples == nil || *doc.Samples < 1 {
		return nil, malformed("samples must be a positive integer")
	}
	if !result.TrialsWithin(*doc.Copies, *doc.Samples) {
		return nil, malformed(fmt.Sprintf("copies × samples exceeds %d trials", result.MaxTrials))
	}

	r := &result.StoryResult{
		StoryName:    *doc.StoryName,
		Copies:       *doc.Copies,
		Samples:      *doc.Samples,
		Interactions: make([]result.InteractionResult, 0, len(*doc.Interactions)),
	}
	if doc.RunID != nil {
		r.RunID = *doc.RunID
	}
	if doc.StoryID != nil {
		r.StoryID = *doc.StoryID
	}

	trials := r.TrialCount()
	for i, in := range *doc.Interactions {
		if in.Name == nil || *in.Name == "" {
			return nil, malformed(fmt.Sprintf("interaction %d has no name", i))
		}
		if in.Samples == nil {
			return nil, malformed(fmt.Sprintf("interaction %q has no samples", *in.Name))
		}
		if len(*in.Samples) != trials {
			return nil, malformed(fmt.Sprintf("interaction %q has %d samples, expected %d", *in.Name, len(*in.Samples), trials))
		}
		if in.Aggregate == nil {
			return nil, malformed(fmt.Sprintf("interaction %q has no aggregate", *in.Name))
		}
		agg, err := in.Aggregate.toAggregate()
		if err != nil {
			return nil, malformed(fmt.Sprintf("interaction %q: %v", *in.Name, err))
		}

		samples := make([]result.Sample, len(*in.Samples))
		for j, d := range *in.Samples {
			if d == nil {
				return nil, malformed(fmt.Sprintf("interaction %q sample %d is null", *in.Name, j))
			}
			if *d < 0 {
				return nil, malformed(fmt.Sprintf("interaction %q sample %d is negative", *in.Name, j))
			}
			samples[j] = result.Sample{Index: j, Duration: *d}
		}
		if err := checkAggregate(samples, agg); err != nil {
			return nil, malformed(fmt.Sprintf("interaction %q: %v", *in.Name, err))
		}

		r.Interactions = append(r.Interactions, result.InteractionResult{
			Name:      *in.Name,
			Samples:   samples,
			Aggregate: agg,
		})
	}
	return r, nil
}

// checkAggregate requires the stored aggregate to match the samples it summarises.
func checkAggregate(samples []result.Sample, stored result.Aggregate) error {
	want, err := result.Summarize(samples)
	if err != nil {
		return err
	}
	fields := []struct {
		name      string
		got, want float64
	}{
		{"mean", stored.Mean, want.Mean},
		{"min", stored.Min, want.Min},
		{"max", stored.Max, want.Max},
		{"total", stored.Total, want.Total},
	}
	for _, f := range fields {
		if !approxEqual(f.got, f.want) {
			return fmt.Errorf("aggregate %s is %v, samples give %v", f.name, f.got, f.want)
		}
	}
	return nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, reason)
}
