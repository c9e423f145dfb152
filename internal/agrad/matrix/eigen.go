package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/abikoushi/stan/internal/agrad"
)

// EigenvaluesSym returns the eigenvalues of a symmetric matrix in
// ascending order, as a column vector.
//
// Backward: ∂λ_k/∂A = v_k v_kᵀ for the unit eigenvector v_k. The matrix is
// treated as a function of its symmetric part, so each pair A_ij, A_ji
// shares the derivative.
func EigenvaluesSym(a *Matrix) (*Matrix, error) {
	if err := square("EigenvaluesSym", a); err != nil {
		return nil, err
	}
	n := a.rows
	if n == 0 {
		return New(0, 1), nil
	}
	av := a.Values()
	sym := mat.NewSymDense(n, nil)
	for i := range n {
		for j := 0; j <= i; j++ {
			if math.Abs(av[i*n+j]-av[j*n+i]) > symmetryTolerance {
				return nil, fmt.Errorf("EigenvaluesSym: A[%d,%d] != A[%d,%d]: %w", i, j, j, i, agrad.ErrNotSymmetric)
			}
			sym.SetSym(i, j, av[i*n+j])
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, fmt.Errorf("EigenvaluesSym: %w", agrad.ErrNoConvergence)
	}
	lambda := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	out := New(n, 1)
	partials := make([]float64, n*n)
	for k := range n {
		for i := range n {
			for j := range n {
				partials[i*n+j] = vecs.At(i, k) * vecs.At(j, k)
			}
		}
		out.data[k] = agrad.NewNary(lambda[k], a.data, partials)
	}
	return out, nil
}

// Eigenvalues returns the eigenvalues of a general square matrix whose
// spectrum is real, in the order LAPACK produces them, as a column vector.
// A complex eigenvalue is an ErrComplexEigenvalues error.
//
// Backward: ∂λ_k/∂A_ij = u_i v_j / (uᵀv) where u and v are the left and
// right eigenvectors of λ_k.
func Eigenvalues(a *Matrix) (*Matrix, error) {
	if err := square("Eigenvalues", a); err != nil {
		return nil, err
	}
	n := a.rows
	if n == 0 {
		return New(0, 1), nil
	}

	var eig mat.Eigen
	if ok := eig.Factorize(a.Dense(), mat.EigenLeft|mat.EigenRight); !ok {
		return nil, fmt.Errorf("Eigenvalues: %w", agrad.ErrNoConvergence)
	}
	lambda := eig.Values(nil)
	for k, l := range lambda {
		if imag(l) != 0 {
			return nil, fmt.Errorf("Eigenvalues: λ_%d = %v: %w", k, l, agrad.ErrComplexEigenvalues)
		}
	}
	var left, right mat.CDense
	eig.LeftVectorsTo(&left)
	eig.VectorsTo(&right)

	out := New(n, 1)
	partials := make([]float64, n*n)
	for k := range n {
		uv := 0.0
		for i := range n {
			uv += real(left.At(i, k)) * real(right.At(i, k))
		}
		for i := range n {
			for j := range n {
				partials[i*n+j] = real(left.At(i, k)) * real(right.At(j, k)) / uv
			}
		}
		out.data[k] = agrad.NewNary(real(lambda[k]), a.data, partials)
	}
	return out, nil
}
