package matrix

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// Triangle selects which triangle of a matrix a triangular operation reads.
type Triangle = blas.Uplo

const (
	Lower Triangle = blas.Lower
	Upper Triangle = blas.Upper
)

// Helpers over row-major blas64 storage. Callers handle empty operands
// before reaching them: BLAS rejects a zero leading dimension.

func general(rows, cols int, data []float64) blas64.General {
	return blas64.General{Rows: rows, Cols: cols, Data: data, Stride: cols}
}

func zeros(rows, cols int) blas64.General {
	return general(rows, cols, make([]float64, rows*cols))
}

func values(m *Matrix) blas64.General {
	return general(m.rows, m.cols, m.Values())
}

func identity(n int) blas64.General {
	g := zeros(n, n)
	for i := range n {
		g.Data[i*n+i] = 1
	}
	return g
}

// transpose returns a row-major copy of gᵀ.
func transpose(g blas64.General) blas64.General {
	t := zeros(g.Cols, g.Rows)
	for i := range g.Rows {
		for j := range g.Cols {
			t.Data[j*t.Stride+i] = g.Data[i*g.Stride+j]
		}
	}
	return t
}

// mul returns op(a)·op(b).
func mul(tA, tB blas.Transpose, a, b blas64.General) blas64.General {
	m, n := a.Rows, b.Cols
	if tA == blas.Trans {
		m = a.Cols
	}
	if tB == blas.Trans {
		n = b.Rows
	}
	c := zeros(m, n)
	blas64.Gemm(tA, tB, 1, a, b, 0, c)
	return c
}

// lu is an LU factorization with partial pivoting. It is kept even when A
// is singular: solves then produce Inf or NaN, which propagate through
// values and adjoints instead of failing.
type lu struct {
	a    blas64.General
	ipiv []int
}

func factorize(a blas64.General) lu {
	f := lu{a: general(a.Rows, a.Cols, append([]float64(nil), a.Data...)), ipiv: make([]int, a.Rows)}
	lapack64.Getrf(f.a, f.ipiv)
	return f
}

// solve returns op(A)⁻¹·b, leaving b untouched.
func (f lu) solve(trans blas.Transpose, b blas64.General) blas64.General {
	x := general(b.Rows, b.Cols, append([]float64(nil), b.Data...))
	lapack64.Getrs(trans, f.a, x, f.ipiv)
	return x
}

// det returns the determinant from the factorization: the product of the
// diagonal of U with the sign of the row permutation.
func (f lu) det() float64 {
	d := 1.0
	for i := range f.a.Rows {
		d *= f.a.Data[i*f.a.Stride+i]
		if f.ipiv[i] != i {
			d = -d
		}
	}
	return d
}

// triangular views the named triangle of a square matrix.
func triangular(uplo Triangle, a blas64.General) blas64.Triangular {
	return blas64.Triangular{Uplo: uplo, Diag: blas.NonUnit, N: a.Rows, Data: a.Data, Stride: a.Stride}
}

// inTriangle reports whether (i, j) lies in the named triangle.
func inTriangle(uplo Triangle, i, j int) bool {
	if uplo == Lower {
		return j <= i
	}
	return j >= i
}
