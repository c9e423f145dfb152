package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/abikoushi/stan/internal/agrad"
)

// symmetryTolerance is the largest |A_ij - A_ji| accepted as symmetric.
const symmetryTolerance = 1e-8

// CholeskyDecompose returns the lower-triangular L with L·Lᵀ = A for a
// symmetric positive-definite A. Only the lower triangle of A is read;
// entries of L above the diagonal are constant zeros.
//
// The factorization runs once. Its backward pass is a single reverse
// sweep over the Cholesky-Banachiewicz recurrence
//
//	L_jj = √(A_jj - Σ_{k<j} L_jk²)
//	L_ij = (A_ij - Σ_{k<j} L_ik L_jk) / L_jj,  i > j
//
// visiting entries in the opposite order.
func CholeskyDecompose(a *Matrix) (*Matrix, error) {
	if err := square("CholeskyDecompose", a); err != nil {
		return nil, err
	}
	n := a.rows
	if n == 0 {
		return New(0, 0), nil
	}
	av := a.Values()
	for i := range n {
		for j := range i {
			if d := math.Abs(av[i*n+j] - av[j*n+i]); d > symmetryTolerance {
				return nil, fmt.Errorf("CholeskyDecompose: A[%d,%d]=%g, A[%d,%d]=%g: %w",
					i, j, av[i*n+j], j, i, av[j*n+i], agrad.ErrNotSymmetric)
			}
		}
	}

	sym := mat.NewSymDense(n, nil)
	for i := range n {
		for j := 0; j <= i; j++ {
			sym.SetSym(i, j, av[i*n+j])
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("CholeskyDecompose: %w", agrad.ErrNotPositiveDefinite)
	}
	var l mat.TriDense
	chol.LTo(&l)

	lv := make([]float64, n*n)
	var (
		operands []agrad.Var
		outVals  []float64
	)
	for i := range n {
		for j := 0; j <= i; j++ {
			lv[i*n+j] = l.At(i, j)
			operands = append(operands, a.data[i*n+j])
			outVals = append(outVals, lv[i*n+j])
		}
	}
	out := agrad.NewRule(&choleskyRule{n: n, a: operands, l: lv}, operands, outVals)

	res := New(n, n)
	k := 0
	for i := range n {
		for j := 0; j <= i; j++ {
			res.data[i*n+j] = out[k]
			k++
		}
	}
	return res, nil
}

// choleskyRule holds the lower triangle of A (operands, packed by rows)
// and L (full n×n, row-major).
type choleskyRule struct {
	n int
	a []agrad.Var
	l []float64
}

func (r *choleskyRule) Chain(t *agrad.Tape, out []float64) {
	n, l := r.n, r.l
	adjL := make([]float64, n*n)
	adjA := make([]float64, len(r.a))
	k := 0
	for i := range n {
		for j := 0; j <= i; j++ {
			adjL[i*n+j] = out[k]
			k++
		}
	}

	for i := n - 1; i >= 0; i-- {
		for j := i; j >= 0; j-- {
			var s float64 // adjoint of A_ij minus the accumulated sum
			if i == j {
				s = 0.5 * adjL[i*n+i] / l[i*n+i]
			} else {
				s = adjL[i*n+j] / l[j*n+j]
				adjL[j*n+j] -= adjL[i*n+j] * l[i*n+j] / l[j*n+j]
			}
			for k := j - 1; k >= 0; k-- {
				adjL[i*n+k] -= s * l[j*n+k]
				adjL[j*n+k] -= s * l[i*n+k]
			}
			adjA[i*(i+1)/2+j] = s
		}
	}

	for k, v := range r.a {
		t.AddAdjoint(v, adjA[k])
	}
}
