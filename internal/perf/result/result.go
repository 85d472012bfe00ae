package result

// Sample is a single timed trial. Duration is in milliseconds.
type Sample struct {
	Index    int     `json:"index"`
	Duration float64 `json:"duration"`
}

type InteractionResult struct {
	Name      string    `json:"name"`
	Samples   []Sample  `json:"samples"`
	Aggregate Aggregate `json:"aggregate"`
}

// StoryResult is the outcome of one completed run. Copies and Samples are the
// configuration in effect when the run started.
type StoryResult struct {
	RunID        string              `json:"runId,omitempty"`
	StoryID      string              `json:"storyId"`
	StoryName    string              `json:"storyName"`
	Copies       int                 `json:"copies"`
	Samples      int                 `json:"samples"`
	Interactions []InteractionResult `json:"interactions"`
}

// TrialCount is the number of samples every interaction of the result holds.
// MaxTrials bounds copies × samples for a single interaction.
const MaxTrials = 1 << 20

// TrialsWithin reports whether copies × samples is positive and at most MaxTrials.
func TrialsWithin(copies, samples int) bool {
	if copies < 1 || samples < 1 {
		return false
	}
	return copies <= MaxTrials/samples
}

func (r *StoryResult) TrialCount() int {
	return r.Copies * r.Samples
}

// Interaction returns the result recorded for the named interaction.
func (r *StoryResult) Interaction(name string) (InteractionResult, bool) {
	for _, ir := range r.Interactions {
		if ir.Name == name {
			return ir, true
		}
	}
	return InteractionResult{}, false
}

// Clone returns a deep copy so pinned baselines never share slices with live results.
func (r *StoryResult) Clone() *StoryResult {
	if r == nil {
		return nil
	}
	c := *r
	if r.Interactions == nil {
		return &c
	}
	c.Interactions = make([]InteractionResult, len(r.Interactions))
	for i, ir := range r.Interactions {
		c.Interactions[i] = ir
		if ir.Samples != nil {
			c.Interactions[i].Samples = append(make([]Sample, 0, len(ir.Samples)), ir.Samples...)
		}
	}
	return &c
}

// Durations returns the raw sample durations in trial order.
func (ir InteractionResult) Durations() []float64 {
	out := make([]float64, len(ir.Samples))
	for i, s := range ir.Samples {
		out[i] = s.Duration
	}
	return out
}
