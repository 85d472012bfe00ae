package httpdom

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/interaction"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/story"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/suite"
)

// BuildCatalog compiles every story of the suite and returns it together with
// the renderer that serves them.
func BuildCatalog(s *suite.Suite, poll time.Duration, opts ...Option) (*story.Catalog, *Renderer, error) {
	catalog := story.NewCatalog()
	for _, def := range s.Stories {
		st := story.Story{
			ID:           def.ID,
			Name:         def.Name,
			Interactions: make([]interaction.Interaction, 0, len(def.Interactions)),
		}
		for _, in := range def.Interactions {
			st.Interactions = append(st.Interactions, interaction.Interaction{
				Name: in.Name,
				Run:  Compile(in, poll),
			})
		}
		if err := catalog.Add(st); err != nil {
			return nil, nil, fmt.Errorf("add story %q: %w", def.ID, err)
		}
	}
	return catalog, NewRenderer(s.BaseURL, s.RenderPath, opts...), nil
}
