package runner

import (
	"fmt"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/result"
)

var DefaultSizes = []int{1, 2, 3, 5, 10, 20, 50, 100}

const (
	DefaultCopies  = 1
	DefaultSamples = 3
)

// Config is the copies × samples shape of a run.
type Config struct {
	Copies  int `json:"copies"`
	Samples int `json:"samples"`
}

func DefaultConfig() Config {
	return Config{
		Copies:  DefaultCopies,
		Samples: DefaultSamples,
	}
}

func (c Config) Validate() error {
	if c.Copies < 1 {
		return fmt.Errorf("copies must be at least 1, got %d", c.Copies)
	}
	if c.Samples < 1 {
		return fmt.Errorf("samples must be at least 1, got %d", c.Samples)
	}
	if !result.TrialsWithin(c.Copies, c.Samples) {
		return fmt.Errorf("copies × samples must not exceed %d trials", result.MaxTrials)
	}
	return nil
}

// Trials is the number of timed trials per interaction.
func (c Config) Trials() int {
	return c.Copies * c.Samples
}
