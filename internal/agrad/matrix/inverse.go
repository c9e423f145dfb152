package matrix

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/abikoushi/stan/internal/agrad"
)

// Determinant returns det(A) for a square matrix A as one node.
//
// Backward: ∂det/∂A = det(A)·A⁻ᵀ. A singular A gives a zero determinant
// and non-finite partials.
func Determinant(a *Matrix) (agrad.Var, error) {
	if err := square("Determinant", a); err != nil {
		return agrad.Var{}, err
	}
	n := a.rows
	if n == 0 {
		return agrad.Const(1), nil
	}
	f := factorize(values(a))
	det := f.det()
	if a.IsConstant() {
		return agrad.Const(det), nil
	}
	invT := f.solve(blas.Trans, identity(n)) // A⁻ᵀ
	partials := make([]float64, n*n)
	for k, v := range invT.Data {
		partials[k] = det * v
	}
	return agrad.NewNary(det, a.data, partials), nil
}

// Inverse returns A⁻¹ for a square matrix A.
//
// Backward: Ā = -A⁻ᵀ·C̄·A⁻ᵀ where C̄ holds the adjoints of the outputs,
// i.e. ∂(A⁻¹)_kl/∂A_ij = -(A⁻¹)_ki (A⁻¹)_jl. A singular A is not an
// error: the values and adjoints are non-finite.
func Inverse(a *Matrix) (*Matrix, error) {
	if err := square("Inverse", a); err != nil {
		return nil, err
	}
	n := a.rows
	if n == 0 {
		return New(0, 0), nil
	}
	inv := factorize(values(a)).solve(blas.NoTrans, identity(n))
	out := agrad.NewRule(&inverseRule{a: clone(a.data), inv: inv}, a.data, inv.Data)
	return &Matrix{rows: n, cols: n, data: out}, nil
}

type inverseRule struct {
	a   []agrad.Var
	inv blas64.General
}

func (r *inverseRule) Chain(t *agrad.Tape, out []float64) {
	n := r.inv.Rows
	cbar := general(n, n, out)
	tmp := mul(blas.Trans, blas.NoTrans, r.inv, cbar) // A⁻ᵀ C̄
	abar := mul(blas.NoTrans, blas.Trans, tmp, r.inv) // A⁻ᵀ C̄ A⁻ᵀ
	for k, v := range r.a {
		t.AddAdjoint(v, -abar.Data[k])
	}
}
