// Copyright 2025 The agrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package prob provides log densities built on agrad.OperandsAndPartials.
//
// Every argument may be a scalar or a vector, constant or variable. A call
// records at most one node whatever the number of observations.
//
// Example:
//
//	lp, err := prob.NormalLog(agrad.ConstVector(y), agrad.Scalar(mu), agrad.Scalar(sigma), true)
package prob

import (
	"github.com/abikoushi/stan/agrad"
	"github.com/abikoushi/stan/internal/prob"
)

// ErrDomain is returned for arguments outside a density's support.
var ErrDomain = prob.ErrDomain

// NormalLog returns Σ log N(y | mu, sigma). With propto set, terms that
// are constant for the given operands are dropped.
func NormalLog(y, mu, sigma agrad.Operand, propto bool) (agrad.Var, error) {
	return prob.NormalLog(y, mu, sigma, propto)
}

// DoubleExponentialLog returns Σ log DoubleExponential(y | mu, sigma).
// With propto set, terms that are constant for the given operands are
// dropped.
func DoubleExponentialLog(y, mu, sigma agrad.Operand, propto bool) (agrad.Var, error) {
	return prob.DoubleExponentialLog(y, mu, sigma, propto)
}

// DoubleExponentialCDF returns the double exponential CDF at y.
func DoubleExponentialCDF(y, mu, sigma agrad.Var) (agrad.Var, error) {
	return prob.DoubleExponentialCDF(y, mu, sigma)
}
