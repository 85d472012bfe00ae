package httpdom

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/interaction"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/story"
)

const DefaultPollInterval = 50 * time.Millisecond

// Renderer loads a story's render page into a fresh Page for every trial.
type Renderer struct {
	baseURL    string
	renderPath string
	client     *http.Client
}

type Option func(*Renderer)

func WithHTTPClient(c *http.Client) Option {
	return func(r *Renderer) {
		if c != nil {
			r.client = c
		}
	}
}

func NewRenderer(baseURL, renderPath string, opts ...Option) *Renderer {
	r := &Renderer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		renderPath: renderPath,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderPath returns the path that renders the given story.
func (r *Renderer) RenderPath(storyID string) string {
	return strings.ReplaceAll(r.renderPath, "{id}", url.QueryEscape(storyID))
}

func (r *Renderer) Render(ctx context.Context, s story.Story) (interaction.Container, error) {
	page := newPage(r.client, r.baseURL)
	if err := page.Do(ctx, http.MethodGet, r.RenderPath(s.ID), ""); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return page, nil
}
