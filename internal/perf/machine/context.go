package machine

import (
	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
)

// Values holds the configuration for the next run and the last completed
// result, which may have been produced with a different configuration.
type Values struct {
	Copies  int                 `json:"copies"`
	Samples int                 `json:"samples"`
	Results *result.StoryResult `json:"results"`
}

type RunContext struct {
	Current Values              `json:"current"`
	Pinned  *result.StoryResult `json:"pinned"`
	Sizes   []int               `json:"sizes"`
	Message string              `json:"message"`
}

func (c RunContext) clone() RunContext {
	out := c
	out.Current.Results = c.Current.Results.Clone()
	out.Pinned = c.Pinned.Clone()
	out.Sizes = append([]int(nil), c.Sizes...)
	return out
}

type StoryInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Interactions []string `json:"interactions"`
}

// Snapshot is a read-only copy of the machine for rendering.
type Snapshot struct {
	State      State          `json:"state"`
	Story      StoryInfo      `json:"story"`
	Context    RunContext     `json:"context"`
	NextEvents []EventType    `json:"nextEvents"`
	Comparison []result.Delta `json:"comparison,omitempty"`
}

// Can reports whether the machine would react to t right now.
func (s Snapshot) Can(t EventType) bool {
	for _, e := range s.NextEvents {
		if e == t {
			return true
		}
	}
	return false
}
