package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/abikoushi/stan/internal/config"
	"github.com/abikoushi/stan/internal/gradcheck"
	"github.com/abikoushi/stan/internal/model"
)

// errChecksFailed is returned when at least one case exceeded tolerance.
var errChecksFailed = errors.New("gradient checks failed")

type checkFlags struct {
	config      string
	cases       []string
	samples     int
	seed        uint64
	workers     int
	logLevel    string
	metricsFile string
	list        bool
}

func newCheckCmd() *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare gradients against finite differences",
		Long: `check evaluates every registered case at random points and compares the
reverse-mode gradient with a central finite difference. It exits non-zero
if any case exceeds the configured tolerance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.list {
				for _, name := range gradcheck.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			return runCheck(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.config, "config", "", "path to a YAML config file")
	flags.StringSliceVar(&f.cases, "case", nil, "case to run (repeatable); default all")
	flags.IntVar(&f.samples, "samples", 0, "random points per case")
	flags.Uint64Var(&f.seed, "seed", 0, "seed of the point generator")
	flags.IntVar(&f.workers, "workers", 0, "worker goroutines; 1 runs sequentially")
	flags.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	flags.BoolVar(&f.list, "list", false, "list the registered cases and exit")
	return cmd
}

// loadConfig merges flags that were set on the command line over the
// loaded configuration.
func loadConfig(cmd *cobra.Command, f checkFlags) (config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("case") {
		cfg.Check.Cases = f.cases
	}
	if flags.Changed("samples") {
		cfg.Check.Samples = f.samples
	}
	if flags.Changed("seed") {
		cfg.Check.Seed = f.seed
	}
	if flags.Changed("workers") {
		cfg.Parallel.NumWorkers = f.workers
		cfg.Parallel.Enabled = f.workers != 1
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, f checkFlags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	logger := cfg.Log.Logger(cmd.ErrOrStderr())

	cases, err := gradcheck.Lookup(cfg.Check.Cases...)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	evalOpts := []model.Option{
		model.WithMetrics(model.NewMetrics(reg)),
		model.WithCapacity(cfg.Tape.Capacity),
	}
	if cfg.Tape.MaxNodes > 0 {
		evalOpts = append(evalOpts, model.WithMaxNodes(cfg.Tape.MaxNodes))
	}

	logger.Info("running gradient checks",
		slog.Int("cases", len(cases)),
		slog.Int("samples", cfg.Check.Samples),
		slog.Uint64("seed", cfg.Check.Seed),
		slog.Int("workers", cfg.Parallel.Workers(len(cases)*cfg.Check.Samples)))

	reports, err := gradcheck.Run(cmd.Context(), cases, gradcheck.Options{
		Samples:   cfg.Check.Samples,
		Seed:      cfg.Check.Seed,
		Step:      cfg.Check.Step,
		Tolerance: cfg.Check.Tolerance,
		Parallel:  cfg.Parallel,
		Logger:    logger,
		Evaluator: evalOpts,
	})
	if err != nil {
		return err
	}

	failed := printReports(cmd.OutOrStdout(), reports)

	if f.metricsFile != "" {
		if err := prometheus.WriteToTextfile(f.metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if failed > 0 {
		logger.Error("gradient checks failed", slog.Int("failed", failed), slog.Int("cases", len(reports)))
		return fmt.Errorf("%w: %d of %d cases", errChecksFailed, failed, len(reports))
	}
	logger.Info("gradient checks passed", slog.Int("cases", len(reports)))
	return nil
}

// printReports writes one row per case and returns the number of failed
// cases.
func printReports(w io.Writer, reports []gradcheck.Report) int {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tSAMPLES\tFAILURES\tMAX ERROR\tSTATUS")
	failed := 0
	for _, r := range reports {
		status := "ok"
		if !r.Passed() {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.3g\t%s\n", r.Case, r.Samples, r.Failures, r.MaxError, status)
	}
	tw.Flush()
	return failed
}
