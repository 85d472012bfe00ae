// Package main Story Perf API
// @title Story Perf API
// @version 1.0
// @description Benchmarks scripted interactions of UI stories and compares runs against a pinned baseline
// @BasePath /
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg       *appConfig
	suitePath string

	rootCmd = &cobra.Command{
		Use:           "storyperf",
		Short:         "Interaction benchmarks for UI stories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadAppConfig()
			if err != nil {
				return err
			}
			if suitePath != "" {
				c.SuitePath = suitePath
			}
			slog.SetLogLoggerLevel(c.LogLevel)
			cfg = c
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&suitePath, "suite", "", "story suite YAML (default $SUITE_PATH or configs/stories.yaml)")
	rootCmd.AddCommand(serveCmd, runCmd, compareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
