// Copyright 2025 The agrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides first-order optimizers for point estimates of
// models evaluated with package model.
//
// Available optimizers:
//   - SGD: gradient descent with optional momentum
//   - Adam: adaptive moment estimation
//
// Example:
//
//	eval := model.NewEvaluator(logDensity)
//	res, err := optim.Maximize(eval, []float64{0, 0}, optim.NewAdam(optim.AdamConfig{LR: 0.05}), optim.MaximizeConfig{})
//	fmt.Println(res.Theta, res.LogDensity)
package optim

import (
	"github.com/abikoushi/stan/internal/optim"
	"github.com/abikoushi/stan/model"
)

// Optimizer is the interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD is gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig holds SGD hyperparameters.
type SGDConfig = optim.SGDConfig

// Adam is the Adam optimizer.
type Adam = optim.Adam

// AdamConfig holds Adam hyperparameters.
type AdamConfig = optim.AdamConfig

// MaximizeConfig controls Maximize.
type MaximizeConfig = optim.MaximizeConfig

// Result is the outcome of Maximize.
type Result = optim.Result

// ErrMaxIterations is returned when Maximize hits its iteration limit.
var ErrMaxIterations = optim.ErrMaxIterations

// NewSGD creates an SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}

// NewAdam creates an Adam optimizer.
func NewAdam(config AdamConfig) *Adam {
	return optim.NewAdam(config)
}

// Maximize moves theta uphill on the evaluator's log density.
func Maximize(e *model.Evaluator, theta []float64, opt Optimizer, cfg MaximizeConfig) (Result, error) {
	return optim.Maximize(e, theta, opt, cfg)
}
