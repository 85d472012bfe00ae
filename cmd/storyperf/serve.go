package main

import (
	"log/slog"

	_ "github.com/DjordjeVuckovic/story-perf/docs"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/api"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/download"
	"github.com/DjordjeVuckovic/story-perf/internal/server"
	pkgserver "github.com/DjordjeVuckovic/story-perf/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveStory string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the benchmark controller over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		sCfg, err := server.LoadConfig()
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		b, err := newBench(reg)
		if err != nil {
			return err
		}

		dir, err := download.NewDir(cfg.OutputDir)
		if err != nil {
			return err
		}
		downloads := download.NewMemory()

		m, err := b.machine(serveStory, download.Tee{downloads, dir})
		if err != nil {
			return err
		}

		s := server.New(sCfg, pkgserver.AllHealthy{m}).
			SetupMiddlewares().
			SetupErrorHandler().
			SetupHealthChecks("/health").
			SetupOpenApi("/swagger/*").
			SetupMetrics("/metrics", reg)

		s.Echo.GET("/", func(c echo.Context) error {
			return c.String(200, "Story Perf is running")
		})

		api.NewBenchRouter(s.Echo, m, b.catalog, downloads).Bind()

		// Interrupting the server cancels s.Context(), which stops the machine
		// and any run in flight at its next trial boundary.
		go func() {
			if err := m.Run(s.Context()); err != nil {
				slog.Error("Benchmark machine failed", "error", err)
			}
		}()

		return s.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveStory, "story", "", "story active at startup (default: first story by id)")
}
