package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/abikoushi/stan/internal/agrad"
)

// MdivideLeft returns A⁻¹·B for a square A.
//
// Backward, with X = A⁻¹B:
//
//	B̄ = A⁻ᵀ·X̄
//	Ā = -B̄·Xᵀ
func MdivideLeft(a, b *Matrix) (*Matrix, error) {
	if err := square("MdivideLeft", a); err != nil {
		return nil, err
	}
	if a.rows != b.rows {
		return nil, fmt.Errorf("MdivideLeft: %dx%d \\ %dx%d: %w", a.rows, a.cols, b.rows, b.cols, agrad.ErrDimensionMismatch)
	}
	if b.Len() == 0 {
		return New(b.rows, b.cols), nil
	}
	f := factorize(values(a))
	x := f.solve(blas.NoTrans, values(b))
	r := &mdivideLeftRule{a: clone(a.data), b: clone(b.data), f: f, x: x}
	out := agrad.NewRule(r, append(clone(a.data), b.data...), x.Data)
	return &Matrix{rows: b.rows, cols: b.cols, data: out}, nil
}

type mdivideLeftRule struct {
	a, b []agrad.Var
	f    lu
	x    blas64.General
}

func (r *mdivideLeftRule) Chain(t *agrad.Tape, out []float64) {
	xbar := general(r.x.Rows, r.x.Cols, out)
	bbar := r.f.solve(blas.Trans, xbar)
	abar := mul(blas.NoTrans, blas.Trans, bbar, r.x)
	for k, v := range r.b {
		t.AddAdjoint(v, bbar.Data[k])
	}
	for k, v := range r.a {
		t.AddAdjoint(v, -abar.Data[k])
	}
}

// MdivideRight returns B·A⁻¹ for a square A.
//
// Backward, with X = BA⁻¹:
//
//	B̄ = X̄·A⁻ᵀ
//	Ā = -Xᵀ·B̄
func MdivideRight(b, a *Matrix) (*Matrix, error) {
	if err := square("MdivideRight", a); err != nil {
		return nil, err
	}
	if b.cols != a.rows {
		return nil, fmt.Errorf("MdivideRight: %dx%d / %dx%d: %w", b.rows, b.cols, a.rows, a.cols, agrad.ErrDimensionMismatch)
	}
	if b.Len() == 0 {
		return New(b.rows, b.cols), nil
	}
	f := factorize(values(a))
	x := transpose(f.solve(blas.Trans, transpose(values(b)))) // (A⁻ᵀBᵀ)ᵀ
	r := &mdivideRightRule{a: clone(a.data), b: clone(b.data), f: f, x: x}
	out := agrad.NewRule(r, append(clone(a.data), b.data...), x.Data)
	return &Matrix{rows: b.rows, cols: b.cols, data: out}, nil
}

type mdivideRightRule struct {
	a, b []agrad.Var
	f    lu
	x    blas64.General
}

func (r *mdivideRightRule) Chain(t *agrad.Tape, out []float64) {
	xbar := general(r.x.Rows, r.x.Cols, out)
	bbar := transpose(r.f.solve(blas.NoTrans, transpose(xbar)))
	abar := mul(blas.Trans, blas.NoTrans, r.x, bbar)
	for k, v := range r.b {
		t.AddAdjoint(v, bbar.Data[k])
	}
	for k, v := range r.a {
		t.AddAdjoint(v, -abar.Data[k])
	}
}

// MdivideLeftTri returns T⁻¹·B where T is lower or upper triangular. Only
// the named triangle of T is read, and only it receives adjoints.
//
// Backward, with X = T⁻¹B:
//
//	B̄ = T⁻ᵀ·X̄
//	T̄ = -B̄·Xᵀ restricted to the triangle
func MdivideLeftTri(tri, b *Matrix, uplo Triangle) (*Matrix, error) {
	if err := square("MdivideLeftTri", tri); err != nil {
		return nil, err
	}
	if tri.rows != b.rows {
		return nil, fmt.Errorf("MdivideLeftTri: %dx%d \\ %dx%d: %w", tri.rows, tri.cols, b.rows, b.cols, agrad.ErrDimensionMismatch)
	}
	if b.Len() == 0 {
		return New(b.rows, b.cols), nil
	}
	n := tri.rows
	tv := values(tri)
	x := values(b)
	blas64.Trsm(blas.Left, blas.NoTrans, 1, triangular(uplo, tv), x)

	operands := clone(b.data)
	for i := range n {
		for j := range n {
			if inTriangle(uplo, i, j) {
				operands = append(operands, tri.data[i*n+j])
			}
		}
	}
	r := &triSolveRule{uplo: uplo, tri: clone(tri.data), b: clone(b.data), tv: tv, x: x}
	out := agrad.NewRule(r, operands, x.Data)
	return &Matrix{rows: b.rows, cols: b.cols, data: out}, nil
}

type triSolveRule struct {
	uplo   Triangle
	tri, b []agrad.Var
	tv, x  blas64.General
}

func (r *triSolveRule) Chain(t *agrad.Tape, out []float64) {
	bbar := general(r.x.Rows, r.x.Cols, append([]float64(nil), out...))
	blas64.Trsm(blas.Left, blas.Trans, 1, triangular(r.uplo, r.tv), bbar)
	tbar := mul(blas.NoTrans, blas.Trans, bbar, r.x)
	for k, v := range r.b {
		t.AddAdjoint(v, bbar.Data[k])
	}
	n := r.tv.Rows
	for i := range n {
		for j := range n {
			if inTriangle(r.uplo, i, j) {
				t.AddAdjoint(r.tri[i*n+j], -tbar.Data[i*n+j])
			}
		}
	}
}
