package main

import (
	"fmt"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/codec"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/download"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/report"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare CURRENT BASELINE",
	Short: "Compare two saved result files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := decodeFile(args[0])
		if err != nil {
			return err
		}
		baseline, err := decodeFile(args[1])
		if err != nil {
			return err
		}
		if current.Current.StoryName != baseline.Current.StoryName {
			return fmt.Errorf("%s holds %q but %s holds %q",
				args[0], current.Current.StoryName, args[1], baseline.Current.StoryName)
		}

		report.WriteTable(cmd.OutOrStdout(), &current.Current, &baseline.Current)
		return nil
	},
}

func decodeFile(path string) (*codec.Payload, error) {
	data, err := download.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
