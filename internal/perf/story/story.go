package story

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/interaction"
)

var ErrNotFound = errors.New("story not found")

// Story is a renderable scenario with zero or more scripted interactions.
type Story struct {
	ID           string
	Name         string
	Interactions []interaction.Interaction
}

// InteractionNames lists the interaction names in run order.
func (s Story) InteractionNames() []string {
	names := make([]string, len(s.Interactions))
	for i, in := range s.Interactions {
		names[i] = in.Name
	}
	return names
}

type Provider interface {
	Story(id string) (Story, error)
	Stories() []Story
}

// Catalog is an in-memory Provider keyed by story ID.
type Catalog struct {
	mu      sync.RWMutex
	stories map[string]Story
}

func NewCatalog(stories ...Story) *Catalog {
	c := &Catalog{stories: make(map[string]Story, len(stories))}
	for _, s := range stories {
		c.stories[s.ID] = s
	}
	return c
}

func (c *Catalog) Add(s Story) error {
	if s.ID == "" {
		return fmt.Errorf("story %q has no id", s.Name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.stories[s.ID]; ok {
		return fmt.Errorf("duplicate story id %q", s.ID)
	}
	c.stories[s.ID] = s
	return nil
}

func (c *Catalog) Story(id string) (Story, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.stories[id]
	if !ok {
		return Story{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s, nil
}

// Stories returns all stories ordered by ID.
func (c *Catalog) Stories() []Story {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Story, 0, len(c.stories))
	for _, s := range c.stories {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
