package codec

import (
	"errors"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
)

type fileDoc struct {
	Version int `json:"version"`
	resultDoc
	Pinned *resultDoc `json:"pinned,omitempty"`
}

type resultDoc struct {
	RunID        string           `json:"runId,omitempty"`
	StoryID      string           `json:"storyId,omitempty"`
	StoryName    string           `json:"storyName"`
	Copies       int              `json:"copies"`
	Samples      int              `json:"samples"`
	Interactions []interactionDoc `json:"interactions"`
}

type interactionDoc struct {
	Name      string       `json:"name"`
	Samples   []float64    `json:"samples"`
	Aggregate aggregateDoc `json:"aggregate"`
}

type aggregateDoc struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Total float64 `json:"total"`
}

// The raw variants use pointers so absent fields can be told apart from zero values.

type rawFileDoc struct {
	Version *int `json:"version"`
	rawResultDoc
	Pinned *rawResultDoc `json:"pinned"`
}

type rawResultDoc struct {
	RunID        *string              `json:"runId"`
	StoryID      *string              `json:"storyId"`
	StoryName    *string              `json:"storyName"`
	Copies       *int                 `json:"copies"`
	Samples      *int                 `json:"samples"`
	Interactions *[]rawInteractionDoc `json:"interactions"`
}

type rawInteractionDoc struct {
	Name      *string          `json:"name"`
	Samples   *[]*float64      `json:"samples"`
	Aggregate *rawAggregateDoc `json:"aggregate"`
}

type rawAggregateDoc struct {
	Mean  *float64 `json:"mean"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Total *float64 `json:"total"`
}

func (a rawAggregateDoc) toAggregate() (result.Aggregate, error) {
	if a.Mean == nil || a.Min == nil || a.Max == nil || a.Total == nil {
		return result.Aggregate{}, errors.New("aggregate requires mean, min, max and total")
	}
	return result.Aggregate{Mean: *a.Mean, Min: *a.Min, Max: *a.Max, Total: *a.Total}, nil
}
