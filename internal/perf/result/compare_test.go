package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storyWith(means map[string]float64, order ...string) *StoryResult {
	r := &StoryResult{StoryID: "s", StoryName: "S", Copies: 1, Samples: 1}
	for _, name := range order {
		r.Interactions = append(r.Interactions, InteractionResult{
			Name:      name,
			Samples:   Samples(means[name]),
			Aggregate: Aggregate{Mean: means[name], Min: means[name], Max: means[name], Total: means[name]},
		})
	}
	return r
}

func TestCompare(t *testing.T) {
	t.Run("both nil", func(t *testing.T) {
		assert.Nil(t, Compare(nil, nil))
	})

	t.Run("current only", func(t *testing.T) {
		deltas := Compare(storyWith(map[string]float64{"open": 10}, "open"), nil)
		require.Len(t, deltas, 1)
		assert.True(t, deltas[0].HasCurrent)
		assert.False(t, deltas[0].HasPinned)
		assert.Zero(t, deltas[0].Diff)
	})

	t.Run("matched and unmatched interactions", func(t *testing.T) {
		current := storyWith(map[string]float64{"open": 15, "close": 4}, "open", "close")
		pinned := storyWith(map[string]float64{"open": 10, "scroll": 7}, "open", "scroll")

		deltas := Compare(current, pinned)
		require.Len(t, deltas, 3)

		assert.Equal(t, "open", deltas[0].Interaction)
		assert.Equal(t, 5.0, deltas[0].Diff)
		assert.Equal(t, 50.0, deltas[0].Percent)

		assert.Equal(t, "close", deltas[1].Interaction)
		assert.False(t, deltas[1].HasPinned)

		assert.Equal(t, "scroll", deltas[2].Interaction)
		assert.False(t, deltas[2].HasCurrent)
		assert.Equal(t, 7.0, deltas[2].Pinned)
	})

	t.Run("zero baseline has no percentage", func(t *testing.T) {
		deltas := Compare(
			storyWith(map[string]float64{"open": 3}, "open"),
			storyWith(map[string]float64{"open": 0}, "open"),
		)
		require.Len(t, deltas, 1)
		assert.Equal(t, 3.0, deltas[0].Diff)
		assert.Zero(t, deltas[0].Percent)
	})
}

func TestStoryResult_Clone(t *testing.T) {
	orig := storyWith(map[string]float64{"open": 10}, "open")
	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Interactions[0].Samples[0].Duration = 99
	assert.Equal(t, 10.0, orig.Interactions[0].Samples[0].Duration)

	var nilResult *StoryResult
	assert.Nil(t, nilResult.Clone())
}
