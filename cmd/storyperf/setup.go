package main

import (
	"fmt"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/httpdom"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/machine"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/metrics"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/runner"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/story"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/suite"
	"github.com/prometheus/client_golang/prometheus"
)

type bench struct {
	catalog *story.Catalog
	runner  *runner.Runner
}

func newBench(reg prometheus.Registerer) (*bench, error) {
	s, err := suite.LoadFromFile(cfg.SuitePath)
	if err != nil {
		return nil, err
	}
	catalog, renderer, err := httpdom.BuildCatalog(s, httpdom.DefaultPollInterval)
	if err != nil {
		return nil, err
	}

	var opts []runner.Option
	if reg != nil {
		opts = append(opts, runner.WithObserver(metrics.NewRecorder(reg)))
	}
	return &bench{catalog: catalog, runner: runner.New(renderer, opts...)}, nil
}

func (b *bench) machine(storyID string, downloader machine.Downloader) (*machine.Machine, error) {
	if storyID == "" {
		stories := b.catalog.Stories()
		if len(stories) == 0 {
			return nil, fmt.Errorf("suite %s has no stories", cfg.SuitePath)
		}
		storyID = stories[0].ID
	}
	return machine.New(b.catalog, b.runner, downloader, storyID,
		machine.WithSizes(cfg.Sizes...),
		machine.WithValues(cfg.DefaultCopies, cfg.DefaultSamples),
	)
}
