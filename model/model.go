// Copyright 2025 The agrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model evaluates log densities and their gradients on plain
// float64 parameters, for use by gradient-based samplers.
//
// Example:
//
//	eval := model.NewEvaluator(func(theta []agrad.Var) (agrad.Var, error) {
//		return prob.NormalLog(agrad.Vector(theta), agrad.ConstScalar(0), agrad.ConstScalar(1), true)
//	})
//	lp, grad, err := eval.Gradient([]float64{0.5, -1})
package model

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abikoushi/stan/internal/model"
	"github.com/abikoushi/stan/internal/parallel"
)

// LogDensity computes a model's log density from its parameters.
type LogDensity = model.LogDensity

// VectorFunction maps inputs to a vector of outputs.
type VectorFunction = model.VectorFunction

// Evaluator owns a tape and evaluates one model. It is not safe for
// concurrent use.
type Evaluator = model.Evaluator

// Option configures an Evaluator.
type Option = model.Option

// Metrics holds an evaluator's Prometheus collectors.
type Metrics = model.Metrics

// Result is one evaluation of GradientBatch.
type Result = model.Result

// ParallelConfig controls how GradientBatch spreads work over goroutines.
type ParallelConfig = parallel.Config

// ErrNonFinite is returned when the log density is NaN or ±Inf.
var ErrNonFinite = model.ErrNonFinite

// NewEvaluator creates an evaluator for fn.
func NewEvaluator(fn LogDensity, opts ...Option) *Evaluator {
	return model.NewEvaluator(fn, opts...)
}

// WithLogger sets the evaluator's logger.
func WithLogger(logger *slog.Logger) Option {
	return model.WithLogger(logger)
}

// WithMetrics records evaluations on m.
func WithMetrics(m *Metrics) Option {
	return model.WithMetrics(m)
}

// WithMaxNodes bounds the evaluator's tape.
func WithMaxNodes(n int) Option {
	return model.WithMaxNodes(n)
}

// WithCapacity pre-allocates room for n nodes.
func WithCapacity(n int) Option {
	return model.WithCapacity(n)
}

// NewMetrics creates evaluator metrics registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return model.NewMetrics(reg)
}

// DefaultParallelConfig returns a configuration using every CPU.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// GradientBatch evaluates the gradient of fn at every point in thetas with
// one evaluator per worker.
func GradientBatch(ctx context.Context, fn LogDensity, thetas [][]float64, cfg ParallelConfig, opts ...Option) ([]Result, error) {
	return model.GradientBatch(ctx, fn, thetas, cfg, opts...)
}
