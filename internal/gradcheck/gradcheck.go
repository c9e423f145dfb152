// Package gradcheck compares reverse-mode gradients against central
// finite differences at random points.
//
// Each check evaluates a Case through a model.Evaluator twice: once
// recorded on the tape for the analytic gradient, and once per
// perturbation on constants for the numeric one. Points are drawn from a
// generator seeded by (seed, item), so a run is reproducible regardless of
// how items are scheduled over workers.
package gradcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/abikoushi/stan/internal/model"
	"github.com/abikoushi/stan/internal/parallel"
)

// Options configures Run.
type Options struct {
	Samples   int     // Random points per case
	Seed      uint64  // Seed of the point generator
	Step      float64 // Central-difference step
	Tolerance float64 // Largest accepted relative error

	Parallel  parallel.Config
	Logger    *slog.Logger   // Defaults to slog.Default()
	Evaluator []model.Option // Passed to every evaluator
}

// Report summarizes the checks of one case.
type Report struct {
	Case     string
	Samples  int
	Failures int

	// MaxError is the largest relative error seen and Worst the point
	// where it occurred.
	MaxError float64
	Worst    []float64

	// Err is the first evaluation error, if any. Failed evaluations count
	// as failures.
	Err error
}

// Passed reports whether every sample of the case was within tolerance.
func (r Report) Passed() bool {
	return r.Failures == 0
}

type sample struct {
	x   []float64
	err float64 // Relative error; NaN if the evaluation failed
	e   error
}

// Run checks every case at opts.Samples random points and returns one
// report per case, in input order. Only cancellation aborts a run; failing
// checks are reported, not returned.
func Run(ctx context.Context, cases []Case, opts Options) ([]Report, error) {
	if opts.Samples <= 0 {
		return nil, fmt.Errorf("gradcheck: samples must be positive, got %d", opts.Samples)
	}
	if opts.Step <= 0 || opts.Tolerance <= 0 {
		return nil, fmt.Errorf("gradcheck: step and tolerance must be positive")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	samples := make([]sample, len(cases)*opts.Samples)
	settings := &fd.Settings{Formula: fd.Central, Step: opts.Step}

	// Evaluators are created lazily, one per case per worker.
	newState := func() map[string]*model.Evaluator {
		return make(map[string]*model.Evaluator)
	}
	err := parallel.ForEach(ctx, len(samples), opts.Parallel, newState, func(_ context.Context, evals map[string]*model.Evaluator, i int) error {
		c := cases[i/opts.Samples]
		e, ok := evals[c.Name]
		if !ok {
			e = model.NewEvaluator(c.F, append([]model.Option{model.WithLogger(logger)}, opts.Evaluator...)...)
			evals[c.Name] = e
		}
		samples[i] = check(e, c, point(c, opts.Seed, i), settings)
		return nil
	})
	if err != nil {
		return nil, err
	}

	reports := make([]Report, len(cases))
	for k, c := range cases {
		r := Report{Case: c.Name, Samples: opts.Samples}
		for _, s := range samples[k*opts.Samples : (k+1)*opts.Samples] {
			switch {
			case s.e != nil:
				r.Failures++
				if r.Err == nil {
					r.Err = s.e
				}
			case s.err > opts.Tolerance:
				r.Failures++
			}
			if s.e == nil && (r.Worst == nil || s.err > r.MaxError) {
				r.MaxError = s.err
				r.Worst = s.x
			}
		}
		reports[k] = r

		if r.Passed() {
			logger.Debug("gradient check passed",
				slog.String("case", r.Case),
				slog.Int("samples", r.Samples),
				slog.Float64("max_error", r.MaxError))
		} else {
			attrs := []any{
				slog.String("case", r.Case),
				slog.Int("failures", r.Failures),
				slog.Int("samples", r.Samples),
				slog.Float64("max_error", r.MaxError),
			}
			if r.Err != nil {
				attrs = append(attrs, slog.String("error", r.Err.Error()))
			}
			logger.Warn("gradient check failed", attrs...)
		}
	}
	return reports, nil
}

// point draws the item-th point of c uniformly from its box.
func point(c Case, seed uint64, item int) []float64 {
	u := distuv.Uniform{Min: c.Lo, Max: c.Hi, Src: rand.NewPCG(seed, uint64(item))}
	x := make([]float64, c.Dim)
	for i := range x {
		x[i] = u.Rand()
	}
	return x
}

func check(e *model.Evaluator, c Case, x []float64, settings *fd.Settings) sample {
	_, analytic, err := e.Gradient(x)
	if err != nil {
		return sample{x: x, err: math.NaN(), e: fmt.Errorf("%s: %w", c.Name, err)}
	}

	var evalErr error
	numeric := fd.Gradient(nil, func(y []float64) float64 {
		lp, err := e.LogDensity(y)
		if err != nil {
			evalErr = errors.Join(evalErr, err)
		}
		return lp
	}, x, settings)
	if evalErr != nil {
		return sample{x: x, err: math.NaN(), e: fmt.Errorf("%s: finite difference: %w", c.Name, evalErr)}
	}

	return sample{x: x, err: relativeError(analytic, numeric)}
}

// relativeError returns max_i |a_i - n_i| / max(1, |n_i|).
func relativeError(analytic, numeric []float64) float64 {
	worst := 0.0
	for i := range analytic {
		d := math.Abs(analytic[i]-numeric[i]) / math.Max(1, math.Abs(numeric[i]))
		if math.IsNaN(d) {
			return math.Inf(1)
		}
		worst = max(worst, d)
	}
	return worst
}
