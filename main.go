/*
Package main implements marketmap, a generator for state market maps.

It reads a list of markets (CSV or JSON), projects them onto a drawing surface
fitted to the markets or to a state's extent, moves overlapping pins apart with
the layout resolver, groups nearby pins into clusters and writes an SVG.

Commands:

	marketmap render --input texas.csv [--state TX] [--top 10] [--watch]
	marketmap batch texas.csv florida.json --parallel 4
	marketmap resolve --input markers.json --width 500 --height 300
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketmap/internal/config"
	"marketmap/internal/logging"
	"marketmap/internal/metrics"
	"marketmap/internal/pipeline"
)

// app holds state shared by all commands of one invocation.
type app struct {
	configPath  string
	debug       bool
	metricsFile string

	cfg     config.Config
	log     *zap.Logger
	sync    func()
	metrics *metrics.Registry
}

func (a *app) builder() *pipeline.Builder {
	return pipeline.NewBuilder(a.log, a.metrics)
}

// newRootCmd builds the command tree. Each call returns fresh commands and
// state so tests can execute them repeatedly.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "marketmap",
		Short: "Generate SVG maps of lending markets with non-overlapping pins",
		Long: `marketmap draws the markets of a state as pins on an SVG map.

Pins that would overlap after projection are moved apart until every pair is
at least layout.min_distance apart and inside the padded surface. Pins that
cannot be separated are drawn smaller and reported in the log.

If no config file is specified, default settings are used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			a.cfg = cfg

			a.log, a.sync = logging.New(logging.Options{
				Level:      cfg.Logging.Level,
				Debug:      a.debug,
				Format:     cfg.Logging.Format,
				File:       cfg.Logging.File,
				MaxSizeMB:  cfg.Logging.MaxSizeMB,
				MaxBackups: cfg.Logging.MaxBackups,
				MaxAgeDays: cfg.Logging.MaxAgeDays,
				Output:     cmd.ErrOrStderr(),
			})
			a.metrics = metrics.NewRegistry()
			if a.metricsFile == "" {
				a.metricsFile = cfg.Metrics.File
			}
			a.log.Debug("configuration loaded",
				zap.String("config", a.configPath),
				zap.Float64("min_distance", cfg.Layout.MinDistance),
				zap.Float64("padding", cfg.Layout.Padding))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer a.sync()
			if a.metricsFile == "" {
				return nil
			}
			if err := a.metrics.WriteTextfile(a.metricsFile); err != nil {
				return err
			}
			a.log.Debug("metrics written", zap.String("path", a.metricsFile))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file (optional)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug mode for verbose output")
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	root.AddCommand(newRenderCmd(a), newBatchCmd(a), newResolveCmd(a))
	return root
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		input, output, state, title string
		highlight                   []string
		top                         int
		watchFiles, dryRun          bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one market file to SVG",
		Long: `Render reads a market file and writes an SVG map.

The file must have name, lat and lng columns (CSV) or fields (JSON); rank,
population and state are optional. If no output file is specified, the input
filename with an .svg extension is used.

Example:
  marketmap render --input texas.csv --state TX --output texas.svg
  marketmap render --input colorado.csv --state CO --highlight Denver`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := func(cfg *config.Config) {
				if cmd.Flags().Changed("state") {
					cfg.Canvas.State = state
				}
				if cmd.Flags().Changed("top") {
					cfg.Canvas.Top = top
				}
			}
			cfg := a.cfg
			overrides(&cfg)
			req := pipeline.Request{
				Input:     input,
				Output:    output,
				Config:    cfg,
				Title:     title,
				DryRun:    dryRun,
				Highlight: highlight,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b := a.builder()
			out, err := b.Build(ctx, req)
			if err != nil {
				return err
			}
			report(cmd, out)
			if !watchFiles {
				return nil
			}
			return watchAndRebuild(ctx, cmd, a, b, req, overrides)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Market file, .csv or .json (required)")
	cmd.Flags().StringVar(&output, "output", "", "Output SVG filename (optional)")
	cmd.Flags().StringVar(&state, "state", "", "Fit the map to this state (abbreviation or slug)")
	cmd.Flags().IntVar(&top, "top", 0, "Draw only the N best-ranked markets (0 = all)")
	cmd.Flags().StringVar(&title, "title", "", "SVG title")
	cmd.Flags().StringSliceVar(&highlight, "highlight", nil, "Emphasize the clusters of these markets (repeatable)")
	cmd.Flags().BoolVar(&watchFiles, "watch", false, "Re-render when the input or config file changes")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build the map without writing it")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		parallel  int
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Render several market files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := make([]pipeline.Request, len(args))
			for i, in := range args {
				reqs[i] = pipeline.Request{Input: in, OutputDir: outputDir, Config: a.cfg}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			outs, err := a.builder().BuildAll(ctx, reqs, parallel)
			for _, out := range outs {
				if out.Path != "" {
					report(cmd, out)
				}
			}
			return err
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 4, "Maximum maps rendered at once (0 = unbounded)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the generated SVG files")
	return cmd
}

func report(cmd *cobra.Command, out pipeline.Output) {
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d markets, %d unresolved\n", len(out.Markets), out.Result.Unresolved.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "Market map SVG generated successfully: %s\n", out.Path)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
