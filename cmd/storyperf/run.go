package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/DjordjeVuckovic/story-perf/internal/perf/download"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/machine"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/report"
	"github.com/spf13/cobra"
)

var (
	runStory    string
	runCopies   int
	runSamples  int
	runBaseline string
	runOutput   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every interaction of a story once and print the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runOutput == "" {
			runOutput = cfg.OutputDir
		}

		b, err := newBench(nil)
		if err != nil {
			return err
		}
		dir, err := download.NewDir(runOutput)
		if err != nil {
			return err
		}
		m, err := b.machine(runStory, dir)
		if err != nil {
			return err
		}

		loopCtx, stopLoop := context.WithCancel(context.Background())
		defer stopLoop()
		go func() { _ = m.Run(loopCtx) }()

		sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := prepare(sigCtx, m); err != nil {
			return err
		}

		snap, err := m.Dispatch(sigCtx, machine.StartAll{})
		if err != nil {
			return err
		}
		if snap.State != machine.StateRunning {
			return fmt.Errorf("run did not start: %s", snap.Context.Message)
		}

		snap, err = awaitRun(sigCtx, m)
		if err != nil {
			return err
		}

		res := snap.Context.Current.Results
		if res == nil {
			return errors.New(snap.Context.Message)
		}
		report.WriteTable(cmd.OutOrStdout(), res, snap.Context.Pinned)

		snap, err = m.Dispatch(context.Background(), machine.Save{})
		if err != nil {
			return err
		}
		slog.Info(snap.Context.Message, "path", filepath.Join(runOutput, machine.Filename(snap.Story.Name)))
		return nil
	},
}

// prepare loads the baseline, which fixes copies and samples, or applies the
// requested values.
func prepare(ctx context.Context, m *machine.Machine) error {
	if runBaseline != "" {
		data, err := download.ReadFile(runBaseline)
		if err != nil {
			return err
		}
		snap, err := m.Dispatch(ctx, machine.LoadFromFile{Data: data, FileName: filepath.Base(runBaseline)})
		if err != nil {
			return err
		}
		if snap.Context.Pinned == nil {
			return errors.New(snap.Context.Message)
		}
		if runCopies > 0 || runSamples > 0 {
			slog.Warn("Baseline fixes copies and samples, ignoring flags",
				"copies", snap.Context.Current.Copies, "samples", snap.Context.Current.Samples)
		}
		return nil
	}

	if runCopies == 0 && runSamples == 0 {
		return nil
	}
	cur := m.Snapshot().Context.Current
	values := machine.SetValues{Copies: cur.Copies, Samples: cur.Samples}
	if runCopies > 0 {
		values.Copies = runCopies
	}
	if runSamples > 0 {
		values.Samples = runSamples
	}
	snap, err := m.Dispatch(ctx, values)
	if err != nil {
		return err
	}
	if snap.Context.Current.Copies != values.Copies || snap.Context.Current.Samples != values.Samples {
		slog.Warn("Values clamped to allowed sizes",
			"copies", snap.Context.Current.Copies, "samples", snap.Context.Current.Samples, "sizes", snap.Context.Sizes)
	}
	return nil
}

// awaitRun waits for the machine to go idle. An interrupt cancels the run at
// the next trial boundary.
func awaitRun(ctx context.Context, m *machine.Machine) (machine.Snapshot, error) {
	idle := func(s machine.Snapshot) bool { return s.State == machine.StateIdle }

	snap, err := m.Await(ctx, idle)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, context.Canceled) {
		return machine.Snapshot{}, err
	}

	slog.Info("Interrupted, cancelling after the current trial")
	if _, err := m.Dispatch(context.Background(), machine.Cancel{}); err != nil {
		return machine.Snapshot{}, err
	}
	snap, err = m.Await(context.Background(), idle)
	if err != nil {
		return machine.Snapshot{}, err
	}
	return snap, fmt.Errorf("run cancelled: %s", snap.Context.Message)
}

func init() {
	runCmd.Flags().StringVar(&runStory, "story", "", "story id (default: first story by id)")
	runCmd.Flags().IntVar(&runCopies, "copies", 0, "copies per interaction (default $DEFAULT_COPIES)")
	runCmd.Flags().IntVar(&runSamples, "samples", 0, "samples per copy (default $DEFAULT_SAMPLES)")
	runCmd.Flags().StringVar(&runBaseline, "baseline", "", "saved result file to compare against")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "directory for the saved result (default $OUTPUT_DIR)")
}
