// Package optim implements first-order optimizers for point estimation
// (maximum a posteriori or maximum likelihood) on top of model.Evaluator.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Gradient descent with momentum
//   - Adam: Adaptive Moment Estimation
//   - Maximize: drives an optimizer uphill on a log density
//
// Optimizers minimize. Maximize hands them the negated gradient of the log
// density.
//
// Example usage:
//
//	eval := model.NewEvaluator(logDensity)
//	res, err := optim.Maximize(eval, theta0, optim.NewAdam(optim.AdamConfig{LR: 0.05}), optim.MaximizeConfig{})
package optim

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/abikoushi/stan/internal/model"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply one update to params in place
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies one update to params given the gradient of the
	// objective being minimized. len(grad) must equal len(params).
	Step(params, grad []float64)

	// GetLR returns the current learning rate.
	GetLR() float64
}

// ErrMaxIterations is returned by Maximize when the gradient tolerance was
// not reached within the iteration limit.
var ErrMaxIterations = errors.New("optim: iteration limit reached")

// MaximizeConfig controls Maximize.
type MaximizeConfig struct {
	MaxIter int          // Iteration limit; 0 or negative means 1000
	GradTol float64      // Stop once the gradient norm falls below this (default: 1e-6)
	Logger  *slog.Logger // Defaults to slog.Default()
}

// Result is the outcome of Maximize.
type Result struct {
	Theta      []float64 // Final parameters
	LogDensity float64   // Log density at Theta
	Iterations int
	GradNorm   float64 // Euclidean norm of the gradient at Theta
}

// Maximize moves theta uphill on the evaluator's log density until the
// gradient norm drops below cfg.GradTol. theta is not modified.
//
// If the limit is reached first, the last iterate is returned along with
// ErrMaxIterations. An evaluation error stops the run; Result then holds
// the iterate that failed.
func Maximize(e *model.Evaluator, theta []float64, opt Optimizer, cfg MaximizeConfig) (Result, error) {
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 1000
	}
	if cfg.GradTol == 0 {
		cfg.GradTol = 1e-6
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	res := Result{Theta: append([]float64(nil), theta...)}
	step := make([]float64, len(theta))
	for res.Iterations = 0; ; res.Iterations++ {
		lp, grad, err := e.Gradient(res.Theta)
		if err != nil {
			return res, fmt.Errorf("optim: iteration %d: %w", res.Iterations, err)
		}
		res.LogDensity = lp
		res.GradNorm = floats.Norm(grad, 2)
		if res.GradNorm < cfg.GradTol {
			logger.Debug("optimization converged",
				slog.Int("iterations", res.Iterations),
				slog.Float64("lp", lp),
				slog.Float64("grad_norm", res.GradNorm))
			return res, nil
		}
		if res.Iterations == cfg.MaxIter {
			logger.Warn("optimization stopped at iteration limit",
				slog.Int("iterations", res.Iterations),
				slog.Float64("lp", lp),
				slog.Float64("grad_norm", res.GradNorm))
			return res, ErrMaxIterations
		}

		floats.ScaleTo(step, -1, grad)
		opt.Step(res.Theta, step)
	}
}
