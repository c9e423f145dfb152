package model

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/abikoushi/stan/internal/agrad"
)

// ErrNonFinite is returned when the log density evaluates to NaN or ±Inf.
// Samplers treat it as a rejected proposal.
var ErrNonFinite = errors.New("non-finite log density")

// LogDensity computes the log density of a model at theta. It is called
// with fresh variables on every gradient evaluation and with constants on
// plain evaluations, so it must not keep handles between calls.
type LogDensity func(theta []agrad.Var) (agrad.Var, error)

// VectorFunction maps inputs to a vector of outputs for Jacobian.
type VectorFunction func(x []agrad.Var) ([]agrad.Var, error)

// Evaluator owns one tape and evaluates a model on plain float64 slices.
// Every call starts a new tape generation, and only float64 values leave
// the evaluator.
//
// An Evaluator is not safe for concurrent use; give every goroutine its
// own (see GradientBatch).
type Evaluator struct {
	fn      LogDensity
	tape    *agrad.Tape
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures an Evaluator.
type Option func(*evaluatorOptions)

type evaluatorOptions struct {
	logger   *slog.Logger
	metrics  *Metrics
	maxNodes int
	capacity int
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *evaluatorOptions) {
		o.logger = logger
	}
}

// WithMetrics records evaluations on m.
func WithMetrics(m *Metrics) Option {
	return func(o *evaluatorOptions) {
		o.metrics = m
	}
}

// WithMaxNodes bounds the tape. An evaluation that needs more nodes fails
// with an error wrapping agrad.ErrTapeExhausted.
func WithMaxNodes(n int) Option {
	return func(o *evaluatorOptions) {
		o.maxNodes = n
	}
}

// WithCapacity pre-allocates room for n nodes.
func WithCapacity(n int) Option {
	return func(o *evaluatorOptions) {
		o.capacity = n
	}
}

// NewEvaluator creates an evaluator for fn.
func NewEvaluator(fn LogDensity, opts ...Option) *Evaluator {
	options := &evaluatorOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	var tapeOpts []agrad.TapeOption
	if options.capacity > 0 {
		tapeOpts = append(tapeOpts, agrad.WithCapacity(options.capacity))
	}
	if options.maxNodes > 0 {
		tapeOpts = append(tapeOpts, agrad.WithMaxNodes(options.maxNodes))
	}

	return &Evaluator{
		fn:      fn,
		tape:    agrad.NewTape(tapeOpts...),
		logger:  options.logger,
		metrics: options.metrics,
	}
}

// Tape returns the evaluator's tape for callers driving agrad directly.
// It is reset at the start and end of every evaluation.
func (e *Evaluator) Tape() *agrad.Tape {
	return e.tape
}

// LogDensity evaluates the model at theta without recording anything:
// theta enters as constants, so no node is ever allocated.
func (e *Evaluator) LogDensity(theta []float64) (float64, error) {
	lp, err := e.fn(agrad.Consts(theta))
	if err == nil {
		err = checkFinite(lp.Value())
	}
	e.metrics.observeEvaluation(kindLogDensity, err)
	if err != nil {
		e.logger.Warn("log density evaluation aborted",
			slog.Int("params", len(theta)),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("log density: %w", err)
	}
	return lp.Value(), nil
}

// Gradient evaluates the model at theta and returns the log density and
// its gradient with respect to every element of theta.
func (e *Evaluator) Gradient(theta []float64) (float64, []float64, error) {
	start := time.Now()
	e.tape.Reset()
	defer e.tape.Reset()

	var lp float64
	var grad []float64
	err := agrad.Run(func() error {
		params := e.tape.NewVars(theta)
		out, err := e.fn(params)
		if err != nil {
			return err
		}
		lp = out.Value()
		if err := checkFinite(lp); err != nil {
			return err
		}
		grad, err = e.tape.Grad(out, params)
		return err
	})

	nodes := e.tape.NumNodes()
	duration := time.Since(start)
	e.metrics.observeEvaluation(kindGradient, err)
	e.metrics.observeTape(nodes)
	if err != nil {
		e.logger.Warn("gradient evaluation aborted",
			slog.Int("params", len(theta)),
			slog.Int("nodes", nodes),
			slog.String("error", err.Error()))
		return 0, nil, fmt.Errorf("gradient: %w", err)
	}
	e.metrics.observeGradient(duration)
	e.logger.Debug("gradient evaluated",
		slog.Int("params", len(theta)),
		slog.Int("nodes", nodes),
		slog.Float64("lp", lp),
		slog.Duration("duration", duration))
	return lp, grad, nil
}

// Jacobian evaluates fn at x and returns its values and the Jacobian
// matrix, one row per output. The forward graph is built once and swept
// backwards once per output.
func (e *Evaluator) Jacobian(fn VectorFunction, x []float64) ([]float64, [][]float64, error) {
	e.tape.Reset()
	defer e.tape.Reset()

	var vals []float64
	var jac [][]float64
	err := agrad.Run(func() error {
		in := e.tape.NewVars(x)
		outs, err := fn(in)
		if err != nil {
			return err
		}
		vals = agrad.Values(outs)
		jac, err = e.tape.Jacobian(outs, in)
		return err
	})

	nodes := e.tape.NumNodes()
	e.metrics.observeEvaluation(kindJacobian, err)
	e.metrics.observeTape(nodes)
	if err != nil {
		e.logger.Warn("jacobian evaluation aborted",
			slog.Int("inputs", len(x)),
			slog.Int("nodes", nodes),
			slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("jacobian: %w", err)
	}
	e.logger.Debug("jacobian evaluated",
		slog.Int("inputs", len(x)),
		slog.Int("outputs", len(vals)),
		slog.Int("nodes", nodes))
	return vals, jac, nil
}

func checkFinite(lp float64) error {
	if math.IsNaN(lp) || math.IsInf(lp, 0) {
		return fmt.Errorf("%w: %v", ErrNonFinite, lp)
	}
	return nil
}
