package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/runner"
	"github.com/DjordjeVuckovic/story-perf/pkg/config/env"
)

type appConfig struct {
	SuitePath      string
	OutputDir      string
	DefaultCopies  int
	DefaultSamples int
	Sizes          []int
	LogLevel       slog.Level
}

func loadAppConfig() (*appConfig, error) {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), ".env"); err != nil {
		slog.Debug("Skipping .env ...", "error", err)
	}

	copies, err := env.Int("DEFAULT_COPIES", runner.DefaultCopies)
	if err != nil {
		return nil, err
	}
	samples, err := env.Int("DEFAULT_SAMPLES", runner.DefaultSamples)
	if err != nil {
		return nil, err
	}
	sizes, err := env.IntList("SIZES", runner.DefaultSizes)
	if err != nil {
		return nil, err
	}
	for _, s := range sizes {
		if s < 1 {
			return nil, fmt.Errorf("SIZES must be positive, got %d", s)
		}
	}
	level, err := parseLogLevel(env.String("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	return &appConfig{
		SuitePath:      env.String("SUITE_PATH", "configs/stories.yaml"),
		OutputDir:      env.String("OUTPUT_DIR", "results"),
		DefaultCopies:  copies,
		DefaultSamples: samples,
		Sizes:          sizes,
		LogLevel:       level,
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown LOG_LEVEL %q", s)
	}
}
