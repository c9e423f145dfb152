package model

import (
	"context"
	"fmt"

	"github.com/abikoushi/stan/internal/parallel"
)

// Result is one gradient evaluation from GradientBatch.
type Result struct {
	LogDensity float64
	Gradient   []float64
}

// GradientBatch evaluates the gradient of fn at every point in thetas,
// typically the current positions of independent chains. Each worker owns
// an Evaluator built with opts. Results are in input order.
//
// The first failing point cancels the batch and its error is returned.
func GradientBatch(ctx context.Context, fn LogDensity, thetas [][]float64, cfg parallel.Config, opts ...Option) ([]Result, error) {
	results := make([]Result, len(thetas))
	err := parallel.ForEach(ctx, len(thetas), cfg, func() *Evaluator {
		return NewEvaluator(fn, opts...)
	}, func(_ context.Context, e *Evaluator, i int) error {
		lp, grad, err := e.Gradient(thetas[i])
		if err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
		results[i] = Result{LogDensity: lp, Gradient: grad}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
