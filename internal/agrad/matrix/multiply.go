package matrix

import (
	"fmt"

	"github.com/abikoushi/stan/internal/agrad"
)

// Multiply returns the matrix product a·b. Every entry of the result is a
// single dot-product node over a row of a and a column of b.
func Multiply(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("Multiply: %dx%d by %dx%d: %w", a.rows, a.cols, b.rows, b.cols, agrad.ErrDimensionMismatch)
	}
	out := New(a.rows, b.cols)
	for j := range b.cols {
		col := b.Col(j)
		for i := range a.rows {
			out.data[i*b.cols+j] = dot(a.data[i*a.cols:(i+1)*a.cols], col)
		}
	}
	return out, nil
}

// Crossprod returns aᵀa.
func Crossprod(a *Matrix) *Matrix {
	return selfProduct(Transpose(a))
}

// Tcrossprod returns aaᵀ.
func Tcrossprod(a *Matrix) *Matrix {
	return selfProduct(a)
}

// selfProduct returns aaᵀ. It is symmetric, so the upper triangle reuses
// the nodes of the lower one.
func selfProduct(a *Matrix) *Matrix {
	n := a.rows
	out := New(n, n)
	for i := range n {
		ri := a.data[i*a.cols : (i+1)*a.cols]
		for j := 0; j <= i; j++ {
			v := dot(ri, a.data[j*a.cols:(j+1)*a.cols])
			out.data[i*n+j] = v
			out.data[j*n+i] = v
		}
	}
	return out
}

// MultiplyLowerTriSelfTranspose returns L·Lᵀ, reading only the lower
// triangle of l (entries above the diagonal are treated as zero).
//
// Backward: entry (i, j) = Σ_{k≤min(i,j)} L_ik L_jk, so
// ∂/∂L_ik = L_jk and ∂/∂L_jk = L_ik (2 L_ik on the diagonal).
func MultiplyLowerTriSelfTranspose(l *Matrix) *Matrix {
	n := l.rows
	out := New(n, n)
	var (
		operands []agrad.Var
		partials []float64
	)
	for i := range n {
		for j := 0; j <= i; j++ {
			operands, partials = operands[:0], partials[:0]
			value := 0.0
			for k := 0; k <= j && k < l.cols; k++ {
				lik, ljk := l.data[i*l.cols+k], l.data[j*l.cols+k]
				value += lik.Value() * ljk.Value()
				if i == j {
					operands = append(operands, lik)
					partials = append(partials, 2*lik.Value())
					continue
				}
				operands = append(operands, lik, ljk)
				partials = append(partials, ljk.Value(), lik.Value())
			}
			v := agrad.NewNary(value, operands, partials)
			out.data[i*n+j] = v
			out.data[j*n+i] = v
		}
	}
	return out
}
