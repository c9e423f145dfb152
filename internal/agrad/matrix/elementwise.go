package matrix

import (
	"fmt"

	"github.com/abikoushi/stan/internal/agrad"
)

// apply returns a matrix of the same shape with f applied to every entry.
func apply(a *Matrix, f func(agrad.Var) agrad.Var) *Matrix {
	out := New(a.rows, a.cols)
	for k, v := range a.data {
		out.data[k] = f(v)
	}
	return out
}

// zip applies f entry by entry to two matrices of the same shape.
func zip(op string, a, b *Matrix, f func(x, y agrad.Var) agrad.Var) (*Matrix, error) {
	if err := sameShape(op, a, b); err != nil {
		return nil, err
	}
	out := New(a.rows, a.cols)
	for k := range a.data {
		out.data[k] = f(a.data[k], b.data[k])
	}
	return out, nil
}

// Add returns a + b.
func Add(a, b *Matrix) (*Matrix, error) {
	return zip("Add", a, b, agrad.Var.Add)
}

// Subtract returns a - b.
func Subtract(a, b *Matrix) (*Matrix, error) {
	return zip("Subtract", a, b, agrad.Var.Sub)
}

// ElemMultiply returns the element-wise (Hadamard) product of a and b.
func ElemMultiply(a, b *Matrix) (*Matrix, error) {
	return zip("ElemMultiply", a, b, agrad.Var.Mul)
}

// ElemDivide returns the element-wise quotient a ./ b.
func ElemDivide(a, b *Matrix) (*Matrix, error) {
	return zip("ElemDivide", a, b, agrad.Var.Div)
}

// AddScalar returns a + s, broadcasting s to every entry.
func AddScalar(a *Matrix, s agrad.Var) *Matrix {
	return apply(a, func(v agrad.Var) agrad.Var { return v.Add(s) })
}

// SubtractScalar returns a - s, broadcasting s to every entry.
func SubtractScalar(a *Matrix, s agrad.Var) *Matrix {
	return apply(a, func(v agrad.Var) agrad.Var { return v.Sub(s) })
}

// Minus returns -a.
func Minus(a *Matrix) *Matrix {
	return apply(a, agrad.Var.Neg)
}

// Scale returns s * a.
func Scale(a *Matrix, s agrad.Var) *Matrix {
	return apply(a, func(v agrad.Var) agrad.Var { return v.Mul(s) })
}

// Divide returns a / s.
func Divide(a *Matrix, s agrad.Var) *Matrix {
	return apply(a, func(v agrad.Var) agrad.Var { return v.Div(s) })
}

// Exp applies agrad.Exp to every entry.
func Exp(a *Matrix) *Matrix {
	return apply(a, agrad.Exp)
}

// Log applies agrad.Log to every entry.
func Log(a *Matrix) *Matrix {
	return apply(a, agrad.Log)
}

// Transpose returns aᵀ. No nodes are recorded; the result shares the
// entries of a.
func Transpose(a *Matrix) *Matrix {
	out := New(a.cols, a.rows)
	for i := range a.rows {
		for j := range a.cols {
			out.data[j*a.rows+i] = a.data[i*a.cols+j]
		}
	}
	return out
}

// DiagMatrix returns the square matrix with v on its diagonal and constant
// zeros elsewhere.
func DiagMatrix(v *Matrix) (*Matrix, error) {
	if v.Len() > 0 {
		if err := vector("DiagMatrix", v); err != nil {
			return nil, err
		}
	}
	n := v.Len()
	out := New(n, n)
	for i, x := range v.data {
		out.data[i*n+i] = x
	}
	return out, nil
}

// ColAt returns column j of a as a column vector.
func ColAt(a *Matrix, j int) (*Matrix, error) {
	if j < 0 || j >= a.cols {
		return nil, fmt.Errorf("ColAt: column %d of %dx%d: %w", j, a.rows, a.cols, agrad.ErrIndexRange)
	}
	return Vec(a.Col(j)), nil
}

// RowAt returns row i of a as a row vector.
func RowAt(a *Matrix, i int) (*Matrix, error) {
	if i < 0 || i >= a.rows {
		return nil, fmt.Errorf("RowAt: row %d of %dx%d: %w", i, a.rows, a.cols, agrad.ErrIndexRange)
	}
	return &Matrix{rows: 1, cols: a.cols, data: a.Row(i)}, nil
}
