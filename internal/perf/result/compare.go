package result

// Delta compares the mean of one interaction between the current run and the
// pinned baseline. Missing sides are reported through HasCurrent/HasPinned.
type Delta struct {
	Interaction string  `json:"interaction"`
	Current     float64 `json:"current"`
	Pinned      float64 `json:"pinned"`
	Diff        float64 `json:"diff"`
	Percent     float64 `json:"percent"`
	HasCurrent  bool    `json:"hasCurrent"`
	HasPinned   bool    `json:"hasPinned"`
}

// Compare lines up current and pinned results by interaction name. Interactions
// keep the current run's order, followed by any found only in the baseline.
func Compare(current, pinned *StoryResult) []Delta {
	if current == nil && pinned == nil {
		return nil
	}

	var deltas []Delta
	seen := make(map[string]bool)

	if current != nil {
		for _, ir := range current.Interactions {
			seen[ir.Name] = true
			d := Delta{
				Interaction: ir.Name,
				Current:     ir.Aggregate.Mean,
				HasCurrent:  true,
			}
			if pinned != nil {
				if p, ok := pinned.Interaction(ir.Name); ok {
					d.Pinned = p.Aggregate.Mean
					d.HasPinned = true
					d.Diff = d.Current - d.Pinned
					if d.Pinned != 0 {
						d.Percent = d.Diff / d.Pinned * 100
					}
				}
			}
			deltas = append(deltas, d)
		}
	}

	if pinned != nil {
		for _, p := range pinned.Interactions {
			if seen[p.Name] {
				continue
			}
			deltas = append(deltas, Delta{
				Interaction: p.Name,
				Pinned:      p.Aggregate.Mean,
				HasPinned:   true,
			})
		}
	}

	return deltas
}
