// Copyright 2025 The agrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix provides matrices of agrad variables and closed-form
// matrix-calculus nodes.
//
// Example:
//
//	tape := agrad.NewTape()
//	a := matrix.ToVar(tape, mat.NewDense(2, 2, []float64{2, 3, 5, 7}))
//	det, err := matrix.Determinant(a)
//	grad, err := tape.Grad(det, a.Vars()) // [7 -5 -3 2]
package matrix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/abikoushi/stan/agrad"
	"github.com/abikoushi/stan/internal/agrad/matrix"
)

// Matrix is a row-major matrix of agrad variables.
type Matrix = matrix.Matrix

// Triangle selects the triangle read by a triangular solve.
type Triangle = matrix.Triangle

// Triangles.
const (
	Lower Triangle = matrix.Lower
	Upper Triangle = matrix.Upper
)

// New returns a rows×cols matrix of constant zeros.
func New(rows, cols int) *Matrix {
	return matrix.New(rows, cols)
}

// FromVars wraps vars, laid out row-major, as a rows×cols matrix.
func FromVars(rows, cols int, vars []agrad.Var) (*Matrix, error) {
	return matrix.FromVars(rows, cols, vars)
}

// Vec returns vars as a column vector.
func Vec(vars []agrad.Var) *Matrix {
	return matrix.Vec(vars)
}

// ToVar records every entry of a as an independent variable on t.
func ToVar(t *agrad.Tape, a mat.Matrix) *Matrix {
	return matrix.ToVar(t, a)
}

// Const wraps every entry of a as a constant.
func Const(a mat.Matrix) *Matrix {
	return matrix.Const(a)
}

// Add returns a + b.
func Add(a, b *Matrix) (*Matrix, error) {
	return matrix.Add(a, b)
}

// Subtract returns a - b.
func Subtract(a, b *Matrix) (*Matrix, error) {
	return matrix.Subtract(a, b)
}

// ElemMultiply returns the element-wise product of a and b.
func ElemMultiply(a, b *Matrix) (*Matrix, error) {
	return matrix.ElemMultiply(a, b)
}

// ElemDivide returns the element-wise quotient a ./ b.
func ElemDivide(a, b *Matrix) (*Matrix, error) {
	return matrix.ElemDivide(a, b)
}

// AddScalar returns a + s.
func AddScalar(a *Matrix, s agrad.Var) *Matrix {
	return matrix.AddScalar(a, s)
}

// SubtractScalar returns a - s.
func SubtractScalar(a *Matrix, s agrad.Var) *Matrix {
	return matrix.SubtractScalar(a, s)
}

// Minus returns -a.
func Minus(a *Matrix) *Matrix {
	return matrix.Minus(a)
}

// Scale returns s * a.
func Scale(a *Matrix, s agrad.Var) *Matrix {
	return matrix.Scale(a, s)
}

// Divide returns a / s.
func Divide(a *Matrix, s agrad.Var) *Matrix {
	return matrix.Divide(a, s)
}

// Exp applies agrad.Exp to every entry.
func Exp(a *Matrix) *Matrix {
	return matrix.Exp(a)
}

// Log applies agrad.Log to every entry.
func Log(a *Matrix) *Matrix {
	return matrix.Log(a)
}

// Transpose returns aᵀ without recording nodes.
func Transpose(a *Matrix) *Matrix {
	return matrix.Transpose(a)
}

// DiagMatrix returns the square matrix with the vector v on its diagonal.
func DiagMatrix(v *Matrix) (*Matrix, error) {
	return matrix.DiagMatrix(v)
}

// ColAt returns column j (0-based) of a.
func ColAt(a *Matrix, j int) (*Matrix, error) {
	return matrix.ColAt(a, j)
}

// RowAt returns row i (0-based) of a.
func RowAt(a *Matrix, i int) (*Matrix, error) {
	return matrix.RowAt(a, i)
}

// Sum returns the sum of the entries of a.
func Sum(a *Matrix) agrad.Var {
	return matrix.Sum(a)
}

// Prod returns the product of the entries of a.
func Prod(a *Matrix) agrad.Var {
	return matrix.Prod(a)
}

// Mean returns the sample mean of the entries of a.
func Mean(a *Matrix) (agrad.Var, error) {
	return matrix.Mean(a)
}

// Variance returns the sample variance of the entries of a.
func Variance(a *Matrix) (agrad.Var, error) {
	return matrix.Variance(a)
}

// Sd returns the sample standard deviation of the entries of a.
func Sd(a *Matrix) (agrad.Var, error) {
	return matrix.Sd(a)
}

// Min returns the smallest entry of a, or +Inf if a is empty.
func Min(a *Matrix) agrad.Var {
	return matrix.Min(a)
}

// Max returns the largest entry of a, or -Inf if a is empty.
func Max(a *Matrix) agrad.Var {
	return matrix.Max(a)
}

// Trace returns the sum of the diagonal of a.
func Trace(a *Matrix) agrad.Var {
	return matrix.Trace(a)
}

// SquaredNorm returns the sum of squared entries of a.
func SquaredNorm(a *Matrix) agrad.Var {
	return matrix.SquaredNorm(a)
}

// Norm returns the Euclidean norm of the entries of a.
func Norm(a *Matrix) agrad.Var {
	return matrix.Norm(a)
}

// LpNorm1 returns the sum of absolute entries of a.
func LpNorm1(a *Matrix) agrad.Var {
	return matrix.LpNorm1(a)
}

// LpNormInf returns the largest absolute entry of a.
func LpNormInf(a *Matrix) agrad.Var {
	return matrix.LpNormInf(a)
}

// DotProduct returns the dot product of two vectors.
func DotProduct(a, b *Matrix) (agrad.Var, error) {
	return matrix.DotProduct(a, b)
}

// DotSelf returns vᵀv.
func DotSelf(v *Matrix) (agrad.Var, error) {
	return matrix.DotSelf(v)
}

// ColumnsDotSelf returns the squared norm of every column of a.
func ColumnsDotSelf(a *Matrix) *Matrix {
	return matrix.ColumnsDotSelf(a)
}

// Softmax returns exp(x) / sum(exp(x)) for a vector x.
func Softmax(x *Matrix) (*Matrix, error) {
	return matrix.Softmax(x)
}

// Multiply returns the matrix product a·b.
func Multiply(a, b *Matrix) (*Matrix, error) {
	return matrix.Multiply(a, b)
}

// Crossprod returns aᵀa.
func Crossprod(a *Matrix) *Matrix {
	return matrix.Crossprod(a)
}

// Tcrossprod returns aaᵀ.
func Tcrossprod(a *Matrix) *Matrix {
	return matrix.Tcrossprod(a)
}

// MultiplyLowerTriSelfTranspose returns L·Lᵀ for the lower triangle L of l.
func MultiplyLowerTriSelfTranspose(l *Matrix) *Matrix {
	return matrix.MultiplyLowerTriSelfTranspose(l)
}

// Determinant returns det(a).
func Determinant(a *Matrix) (agrad.Var, error) {
	return matrix.Determinant(a)
}

// Inverse returns a⁻¹. A singular a yields non-finite entries.
func Inverse(a *Matrix) (*Matrix, error) {
	return matrix.Inverse(a)
}

// MdivideLeft returns a⁻¹b.
func MdivideLeft(a, b *Matrix) (*Matrix, error) {
	return matrix.MdivideLeft(a, b)
}

// MdivideRight returns ba⁻¹.
func MdivideRight(b, a *Matrix) (*Matrix, error) {
	return matrix.MdivideRight(b, a)
}

// MdivideLeftTri returns tri⁻¹b reading only the uplo triangle of tri.
func MdivideLeftTri(tri, b *Matrix, uplo Triangle) (*Matrix, error) {
	return matrix.MdivideLeftTri(tri, b, uplo)
}

// CholeskyDecompose returns the lower-triangular L with L·Lᵀ = a.
func CholeskyDecompose(a *Matrix) (*Matrix, error) {
	return matrix.CholeskyDecompose(a)
}

// EigenvaluesSym returns the eigenvalues of a symmetric matrix in ascending order.
func EigenvaluesSym(a *Matrix) (*Matrix, error) {
	return matrix.EigenvaluesSym(a)
}

// Eigenvalues returns the eigenvalues of a general matrix with a real spectrum.
func Eigenvalues(a *Matrix) (*Matrix, error) {
	return matrix.Eigenvalues(a)
}
