package codec

import (
	"encoding/json"
	"testing"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(name string, durations ...float64) result.StoryResult {
	samples := result.Samples(durations...)
	agg, _ := result.Summarize(samples)
	return result.StoryResult{
		RunID:     "8f0c9c3e-4b7f-4a52-9d59-3c1f2f7c1a11",
		StoryID:   "examples--select",
		StoryName: name,
		Copies:    1,
		Samples:   len(durations),
		Interactions: []result.InteractionResult{
			{Name: "Display dropdown", Samples: samples, Aggregate: agg},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	pinned := sampleResult("React select", 10.25, 11.5, 9.75)

	tests := []struct {
		name    string
		payload Payload
	}{
		{name: "current only", payload: Payload{Current: sampleResult("React select", 12.3, 0.1, 7.000001)}},
		{name: "with pinned", payload: Payload{Current: sampleResult("React select", 1, 2, 3), Pinned: &pinned}},
		{name: "no interactions", payload: Payload{Current: result.StoryResult{
			StoryName:    "No interactions",
			Copies:       2,
			Samples:      5,
			Interactions: []result.InteractionResult{},
		}}},
		{name: "multiple copies", payload: Payload{Current: func() result.StoryResult {
			r := sampleResult("React select", 1.1, 2.2, 3.3, 4.4)
			r.Copies, r.Samples = 2, 2
			return r
		}()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.payload)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, *decoded)
		})
	}
}

func TestEncode_Format(t *testing.T) {
	pinned := sampleResult("React select", 4)
	data, err := Encode(Payload{Current: sampleResult("React select", 5, 7), Pinned: &pinned})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.EqualValues(t, FormatVersion, doc["version"])
	assert.Equal(t, "React select", doc["storyName"])
	assert.Equal(t, "examples--select", doc["storyId"])
	assert.EqualValues(t, 1, doc["copies"])
	assert.EqualValues(t, 2, doc["samples"])

	interactions := doc["interactions"].([]any)
	require.Len(t, interactions, 1)
	first := interactions[0].(map[string]any)
	assert.Equal(t, "Display dropdown", first["name"])
	assert.Equal(t, []any{5.0, 7.0}, first["samples"])
	assert.Equal(t, map[string]any{"mean": 6.0, "min": 5.0, "max": 7.0, "total": 12.0}, first["aggregate"])

	p := doc["pinned"].(map[string]any)
	assert.Equal(t, "React select", p["storyName"])
	assert.NotContains(t, p, "pinned")
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "not json", doc: `not json`},
		{name: "wrong shape", doc: `{"storyName": 5, "copies": 1, "samples": 1, "interactions": []}`},
		{name: "missing storyName", doc: `{"copies": 1, "samples": 1, "interactions": []}`, want: "storyName"},
		{name: "empty storyName", doc: `{"storyName": "", "copies": 1, "samples": 1, "interactions": []}`, want: "storyName"},
		{name: "missing interactions", doc: `{"storyName": "S", "copies": 1, "samples": 1}`, want: "interactions"},
		{name: "null interactions", doc: `{"storyName": "S", "copies": 1, "samples": 1, "interactions": null}`, want: "interactions"},
		{name: "missing copies", doc: `{"storyName": "S", "samples": 1, "interactions": []}`, want: "copies"},
		{name: "zero samples", doc: `{"storyName": "S", "copies": 1, "samples": 0, "interactions": []}`, want: "samples"},
		{name: "interaction without name", doc: `{"storyName": "S", "copies": 1, "samples": 1,
			"interactions": [{"samples": [1], "aggregate": {"mean": 1, "min": 1, "max": 1, "total": 1}}]}`, want: "no name"},
		{name: "interaction without samples", doc: `{"storyName": "S", "copies": 1, "samples": 1,
			"interactions": [{"name": "a", "aggregate": {"mean": 1, "min": 1, "max": 1, "total": 1}}]}`, want: "no samples"},
		{name: "sample count mismatch", doc: `{"storyName": "S", "copies": 2, "samples": 1,
			"interactions": [{"name": "a", "samples": [1], "aggregate": {"mean": 1, "min": 1, "max": 1, "total": 1}}]}`, want: "expected 2"},
		{name: "missing aggregate", doc: `{"storyName": "S", "copies": 1, "samples": 1,
			"interactions": [{"name": "a", "samples": [1]}]}`, want: "no aggregate"},
		{name: "partial aggregate", doc: `{"storyName": "S", "copies": 1, "samples": 1,
			"interactions": [{"name": "a", "samples": [1], "aggregate": {"mean": 1}}]}`, want: "aggregate requires"},
		{name: "negative sample", doc: `{"storyName": "S", "copies": 1, "samples": 1,
			"interactions": [{"name": "a", "samples": [-1], "aggregate": {"mean": 1, "min": 1, "max": 1, "total": 1}}]}`, want: "negative"},
		{name: "null sample", doc: `{"storyName": "S", "copies": 1, "samples": 2,
			"interactions": [{"name": "a", "samples": [null, null], "aggregate": {"mean": 5, "min": 5, "max": 5, "total": 10}}]}`, want: "is null"},
		{name: "aggregate disagrees with samples", doc: `{"storyName": "S", "copies": 1, "samples": 2,
			"interactions": [{"name": "a", "samples": [1, 3], "aggregate": {"mean": 5, "min": 1, "max": 3, "total": 10}}]}`, want: "aggregate mean"},
		{name: "trial count overflow", doc: `{"storyName": "S", "copies": 7, "samples": 4000000000000, "interactions": []}`, want: "exceeds"},
		{name: "trailing data", doc: `{"storyName": "S", "copies": 1, "samples": 1, "interactions": []} not json`},
		{name: "future version", doc: `{"version": 99, "storyName": "S", "copies": 1, "samples": 1, "interactions": []}`, want: "version"},
		{name: "malformed pinned", doc: `{"storyName": "S", "copies": 1, "samples": 1, "interactions": [],
			"pinned": {"copies": 1, "samples": 1, "interactions": []}}`, want: "pinned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestDecode_MinimalDocument(t *testing.T) {
	doc := `{
  "storyName": "React select",
  "copies": 1,
  "samples": 2,
  "interactions": [
    {"name": "Display dropdown", "samples": [3, 5], "aggregate": {"mean": 4, "min": 3, "max": 5, "total": 8}}
  ]
}`
	p, err := Decode([]byte(doc))
	require.NoError(t, err)
	assert.Nil(t, p.Pinned)
	assert.Empty(t, p.Current.StoryID)
	require.Len(t, p.Current.Interactions, 1)
	assert.Equal(t, []result.Sample{{Index: 0, Duration: 3}, {Index: 1, Duration: 5}}, p.Current.Interactions[0].Samples)
	assert.Equal(t, result.Aggregate{Mean: 4, Min: 3, Max: 5, Total: 8}, p.Current.Interactions[0].Aggregate)
}
