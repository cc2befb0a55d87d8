// Package main provides the CLI entry point for kernbench, a comparative
// micro-benchmark harness for compute kernels.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/weiihann/kernbench/config"
	"github.com/weiihann/kernbench/harness"
	"github.com/weiihann/kernbench/metrics"
	"github.com/weiihann/kernbench/report"
	"github.com/weiihann/kernbench/suite"
)

func main() {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("kernbench failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "kernbench",
		Short: "Comparative micro-benchmark harness for compute kernels",
		Long: `Kernbench runs each compute kernel through several interchangeable
backends, times repeated trials of each, reduces them to a median cost and
reports how much faster the accelerated backends are than the serial baseline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newListCmd())
	root.AddCommand(newImgDiffCmd())

	return root
}

type runOptions struct {
	configPath  string
	scale       float64
	trials      map[string]int
	count       int
	outDir      string
	noImages    bool
	check       bool
	outputJSON  bool
	chartPath   string
	metricsPath string
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [benchmark...]",
		Short: "Run benchmarks across every backend",
		Long: `Run the named benchmarks, or all of them, timing every backend and
printing per-trial costs, medians and speedups over the baseline.`,
		ValidArgs: suite.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}

			return runBenchmarks(cmd.Context(), logger, cfg, opts, args)
		},
	}

	opts.bind(cmd.Flags())

	return cmd
}

func (o *runOptions) bind(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "",
		"Path to a YAML configuration file")
	flags.Float64Var(&o.scale, "scale", 1,
		"Multiplier for every image and grid dimension")
	flags.StringToIntVar(&o.trials, "trials", nil,
		"Per-backend trial counts for every benchmark (e.g. serial=1,tiled=5)")
	flags.IntVar(&o.count, "count", 0,
		"Number of options priced by the options benchmarks")
	flags.StringVar(&o.outDir, "out-dir", ".",
		"Directory for PPM image files")
	flags.BoolVar(&o.noImages, "no-images", false,
		"Skip writing PPM image files")
	flags.BoolVar(&o.check, "check", false,
		"Compare every backend's output against the baseline")
	flags.BoolVar(&o.outputJSON, "json", false,
		"Output results as JSON instead of table")
	flags.StringVar(&o.chartPath, "chart", "",
		"Write an HTML bar chart of the results to this file")
	flags.StringVar(&o.metricsPath, "metrics-file", "",
		"Write Prometheus text-format metrics to this file")
}

// loadConfig layers flags the user set over the configuration file, or
// over the defaults when there is none.
func loadConfig(flags *pflag.FlagSet, opts runOptions) (*config.Config, error) {
	cfg := config.Default()

	if opts.configPath != "" {
		var err error

		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	if flags.Changed("scale") {
		cfg.Scale = opts.scale
	}
	if flags.Changed("count") {
		cfg.Options.Count = opts.count
	}
	if flags.Changed("out-dir") {
		cfg.OutDir = opts.outDir
	}
	if flags.Changed("no-images") {
		cfg.Images = !opts.noImages
	}
	if flags.Changed("check") {
		cfg.Check = opts.check
	}

	cfg.SetTrials(opts.trials)

	return cfg.Resolve()
}

func runBenchmarks(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	opts runOptions,
	names []string,
) error {
	plan, err := suite.Build(cfg, names)
	if err != nil {
		return err
	}

	if cfg.Images {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	run := report.NewRun(time.Now())
	recorder := metrics.NewRecorder()

	// Progress lines would corrupt the JSON document on stdout.
	observers := harness.Observers{recorder}
	if !opts.outputJSON {
		observers = append(harness.Observers{report.NewConsole(os.Stdout)}, observers...)
	}

	runner := harness.NewRunner(harness.RunConfig{
		OutDir: cfg.OutDir,
		Images: cfg.Images,
		Check:  cfg.Check,
	}, observers, logger)

	logger.InfoContext(ctx, "starting benchmarks",
		slog.String("run_id", run.ID.String()),
		slog.Int("benchmarks", len(plan)),
		slog.Int("gomaxprocs", run.Host.GOMAXPROCS),
		slog.Any("cpu_features", run.Host.Features),
		slog.Bool("images", cfg.Images),
		slog.Bool("check", cfg.Check),
	)

	for _, p := range plan {
		cmp, err := p.Benchmark.Run(ctx, runner, p.Trials)
		if err != nil {
			return fmt.Errorf("run %s: %w", p.Benchmark.Name(), err)
		}

		run.Comparisons = append(run.Comparisons, cmp)
	}

	if opts.outputJSON {
		if err := report.GenerateJSON(os.Stdout, run); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		fmt.Println()

		if err := report.Generate(os.Stdout, run.Comparisons); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	if opts.chartPath != "" {
		if err := report.WriteChart(opts.chartPath, run.Comparisons); err != nil {
			return err
		}

		logger.InfoContext(ctx, "chart written", slog.String("path", opts.chartPath))
	}

	if opts.metricsPath != "" {
		if err := recorder.WriteTextfile(opts.metricsPath); err != nil {
			return err
		}

		logger.InfoContext(ctx, "metrics written", slog.String("path", opts.metricsPath))
	}

	logger.InfoContext(ctx, "benchmarks complete")

	return nil
}
