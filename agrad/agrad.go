// Copyright 2025 The agrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package agrad provides reverse-mode automatic differentiation over
// float64 scalars.
//
// The package defines:
//   - Tape: arena recording one evaluation, reset in bulk between evaluations
//   - Var: copyable handle to a recorded value; a Var without a tape is a constant
//   - Grad/Jacobian: reverse sweeps over the tape
//   - OperandsAndPartials: builds a single node for a vectorized density
//
// Example:
//
//	tape := agrad.NewTape()
//	x := tape.NewVar(2)
//	y := tape.NewVar(3)
//	f := x.Mul(y).Add(agrad.Sin(x)) // f = x*y + sin(x)
//
//	grad, err := tape.Grad(f, []agrad.Var{x, y})
//	tape.Reset()
package agrad

import (
	"github.com/abikoushi/stan/internal/agrad"
)

// Tape is the node arena of one evaluation. It is not safe for concurrent
// use.
type Tape = agrad.Tape

// TapeOption configures a Tape.
type TapeOption = agrad.TapeOption

// Var is a handle to a value recorded on a tape, or a constant.
type Var = agrad.Var

// Rule is the backward rule of a node with several outputs.
type Rule = agrad.Rule

// Operand is a scalar or vector argument of a density function.
type Operand = agrad.Operand

// OperandsAndPartials accumulates the partials of a density with respect to
// its operands and records them as one node.
type OperandsAndPartials = agrad.OperandsAndPartials

// Partials is the partial-derivative slot of one operand.
type Partials = agrad.Partials

// ExhaustedError is the panic value of a tape that ran out of capacity.
type ExhaustedError = agrad.ExhaustedError

// Errors returned (or raised) by the engine.
var (
	ErrDimensionMismatch   = agrad.ErrDimensionMismatch
	ErrNotSquare           = agrad.ErrNotSquare
	ErrZeroSize            = agrad.ErrZeroSize
	ErrIndexRange          = agrad.ErrIndexRange
	ErrNotSymmetric        = agrad.ErrNotSymmetric
	ErrNotPositiveDefinite = agrad.ErrNotPositiveDefinite
	ErrComplexEigenvalues  = agrad.ErrComplexEigenvalues
	ErrNoConvergence       = agrad.ErrNoConvergence
	ErrStaleVar            = agrad.ErrStaleVar
	ErrForeignVar          = agrad.ErrForeignVar
	ErrTapeExhausted       = agrad.ErrTapeExhausted
)

// NewTape creates an empty tape.
//
// Example:
//
//	tape := agrad.NewTape(agrad.WithCapacity(4096))
func NewTape(opts ...TapeOption) *Tape {
	return agrad.NewTape(opts...)
}

// WithCapacity pre-allocates room for n nodes.
func WithCapacity(n int) TapeOption {
	return agrad.WithCapacity(n)
}

// WithMaxNodes fixes the tape capacity. Exceeding it panics with an
// *ExhaustedError; see Run.
func WithMaxNodes(n int) TapeOption {
	return agrad.WithMaxNodes(n)
}

// Run calls fn and turns a tape-exhaustion panic into an error.
func Run(fn func() error) error {
	return agrad.Run(fn)
}

// Const returns a constant.
func Const(value float64) Var {
	return agrad.Const(value)
}

// Consts returns constants for values.
func Consts(values []float64) []Var {
	return agrad.Consts(values)
}

// Values returns the values of vars.
func Values(vars []Var) []float64 {
	return agrad.Values(vars)
}

// Sum returns the sum of vars as a single node.
func Sum(vars ...Var) Var {
	return agrad.Sum(vars...)
}

// Fma returns a*b + c as a single node.
func Fma(a, b, c Var) Var {
	return agrad.Fma(a, b, c)
}

// NewNary records a node with precomputed partials, one per operand.
func NewNary(value float64, operands []Var, partials []float64) Var {
	return agrad.NewNary(value, operands, partials)
}

// NewRule records r with one output per value and returns the outputs.
func NewRule(r Rule, operands []Var, values []float64) []Var {
	return agrad.NewRule(r, operands, values)
}

// Scalar wraps a variable as an operand.
func Scalar(v Var) Operand {
	return agrad.Scalar(v)
}

// ConstScalar wraps a constant as an operand.
func ConstScalar(x float64) Operand {
	return agrad.ConstScalar(x)
}

// Vector wraps variables as a vector operand.
func Vector(vs []Var) Operand {
	return agrad.Vector(vs)
}

// ConstVector wraps constants as a vector operand.
func ConstVector(xs []float64) Operand {
	return agrad.ConstVector(xs)
}

// MaxSize returns the largest length among ops.
func MaxSize(ops ...Operand) int {
	return agrad.MaxSize(ops...)
}

// CheckConsistentSizes reports ErrDimensionMismatch if two vector operands
// differ in length.
func CheckConsistentSizes(ops ...Operand) error {
	return agrad.CheckConsistentSizes(ops...)
}

// NewOperandsAndPartials binds an accumulator to args.
func NewOperandsAndPartials(args ...Operand) (*OperandsAndPartials, error) {
	return agrad.NewOperandsAndPartials(args...)
}
