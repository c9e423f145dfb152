package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abikoushi/stan/internal/agrad"
)

// Sum returns the sum of all entries as one node.
func Sum(a *Matrix) agrad.Var {
	return agrad.Sum(a.data...)
}

// Prod returns the product of all entries. The product of an empty matrix
// is 1.
//
// Backward: ∂/∂x_i = Π_{k≠i} x_k, computed from prefix and suffix products
// so that zero entries are handled exactly.
func Prod(a *Matrix) agrad.Var {
	x := a.Values()
	n := len(x)
	if n == 0 {
		return agrad.Const(1)
	}
	partials := make([]float64, n)
	p := 1.0
	for i := range n {
		partials[i] = p
		p *= x[i]
	}
	s := 1.0
	for i := n - 1; i >= 0; i-- {
		partials[i] *= s
		s *= x[i]
	}
	return agrad.NewNary(floats.Prod(x), a.data, partials)
}

// Mean returns the arithmetic mean of the entries.
func Mean(a *Matrix) (agrad.Var, error) {
	n := a.Len()
	if n == 0 {
		return agrad.Var{}, fmt.Errorf("Mean: %w", agrad.ErrZeroSize)
	}
	partials := make([]float64, n)
	for i := range partials {
		partials[i] = 1 / float64(n)
	}
	return agrad.NewNary(stat.Mean(a.Values(), nil), a.data, partials), nil
}

// Variance returns the sample variance Σ(x_i - x̄)² / (n - 1). A single
// entry has variance 0.
//
// Backward: ∂/∂x_i = 2(x_i - x̄) / (n - 1).
func Variance(a *Matrix) (agrad.Var, error) {
	n := a.Len()
	if n == 0 {
		return agrad.Var{}, fmt.Errorf("Variance: %w", agrad.ErrZeroSize)
	}
	if n == 1 {
		return agrad.Const(0), nil
	}
	x := a.Values()
	mean := stat.Mean(x, nil)
	partials := make([]float64, n)
	for i, v := range x {
		partials[i] = 2 * (v - mean) / float64(n-1)
	}
	return agrad.NewNary(stat.Variance(x, nil), a.data, partials), nil
}

// Sd returns the sample standard deviation. If it is zero every partial
// is taken to be zero.
//
// Backward: ∂/∂x_i = (x_i - x̄) / ((n - 1) sd).
func Sd(a *Matrix) (agrad.Var, error) {
	n := a.Len()
	if n == 0 {
		return agrad.Var{}, fmt.Errorf("Sd: %w", agrad.ErrZeroSize)
	}
	if n == 1 {
		return agrad.Const(0), nil
	}
	x := a.Values()
	mean, variance := stat.MeanVariance(x, nil)
	sd := math.Sqrt(variance)
	partials := make([]float64, n)
	if sd != 0 {
		for i, v := range x {
			partials[i] = (v - mean) / (float64(n-1) * sd)
		}
	}
	return agrad.NewNary(sd, a.data, partials), nil
}

// Min returns the smallest entry, or +Inf for an empty matrix. Ties go to
// the first entry; a NaN entry is returned as soon as it is seen.
func Min(a *Matrix) agrad.Var {
	return pick(a, math.Inf(1), func(x, best float64) bool { return x < best })
}

// Max returns the largest entry, or -Inf for an empty matrix.
func Max(a *Matrix) agrad.Var {
	return pick(a, math.Inf(-1), func(x, best float64) bool { return x > best })
}

// pick returns the selected entry itself, so the gradient flows to it
// alone without recording a node.
func pick(a *Matrix, empty float64, better func(x, best float64) bool) agrad.Var {
	if a.Len() == 0 {
		return agrad.Const(empty)
	}
	best := a.data[0]
	for _, v := range a.data {
		if v.IsNaN() {
			return v
		}
		if better(v.Value(), best.Value()) {
			best = v
		}
	}
	return best
}

// Trace returns the sum of the diagonal entries.
func Trace(a *Matrix) agrad.Var {
	n := min(a.rows, a.cols)
	diag := make([]agrad.Var, n)
	for i := range n {
		diag[i] = a.data[i*a.cols+i]
	}
	return agrad.Sum(diag...)
}

// SquaredNorm returns Σ x_i².
//
// Backward: ∂/∂x_i = 2 x_i.
func SquaredNorm(a *Matrix) agrad.Var {
	x := a.Values()
	partials := make([]float64, len(x))
	for i, v := range x {
		partials[i] = 2 * v
	}
	return agrad.NewNary(floats.Dot(x, x), a.data, partials)
}

// Norm returns the Euclidean norm √(Σ x_i²). At the origin every partial
// is taken to be zero.
//
// Backward: ∂/∂x_i = x_i / ‖x‖.
func Norm(a *Matrix) agrad.Var {
	x := a.Values()
	norm := floats.Norm(x, 2)
	partials := make([]float64, len(x))
	if norm != 0 {
		for i, v := range x {
			partials[i] = v / norm
		}
	}
	return agrad.NewNary(norm, a.data, partials)
}

// LpNorm1 returns Σ |x_i|.
//
// Backward: ∂/∂x_i = sign(x_i), with sign(0) = 0.
func LpNorm1(a *Matrix) agrad.Var {
	x := a.Values()
	partials := make([]float64, len(x))
	for i, v := range x {
		partials[i] = sign(v)
	}
	return agrad.NewNary(floats.Norm(x, 1), a.data, partials)
}

// LpNormInf returns max |x_i|, or 0 for an empty matrix. The partial goes
// to the first entry attaining the maximum. As with Max, the first NaN
// entry is returned as soon as it is seen.
func LpNormInf(a *Matrix) agrad.Var {
	x := a.Values()
	if len(x) == 0 {
		return agrad.Const(0)
	}
	arg := 0
	for i, v := range x {
		if math.IsNaN(v) {
			return a.data[i]
		}
		if math.Abs(v) > math.Abs(x[arg]) {
			arg = i
		}
	}
	partials := make([]float64, len(x))
	partials[arg] = sign(x[arg])
	return agrad.NewNary(math.Abs(x[arg]), a.data, partials)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// DotProduct returns Σ a_i b_i for two vectors of equal length; row and
// column vectors mix freely.
func DotProduct(a, b *Matrix) (agrad.Var, error) {
	if err := vector("DotProduct", a); err != nil {
		return agrad.Var{}, err
	}
	if err := vector("DotProduct", b); err != nil {
		return agrad.Var{}, err
	}
	if a.Len() != b.Len() {
		return agrad.Var{}, fmt.Errorf("DotProduct: lengths %d and %d: %w", a.Len(), b.Len(), agrad.ErrDimensionMismatch)
	}
	return dot(a.data, b.data), nil
}

// dot records Σ a_i b_i as one node with partials b_i and a_i.
func dot(a, b []agrad.Var) agrad.Var {
	n := len(a)
	operands := make([]agrad.Var, 0, 2*n)
	partials := make([]float64, 0, 2*n)
	value := 0.0
	for i := range n {
		x, y := a[i].Value(), b[i].Value()
		value += x * y
		operands = append(operands, a[i], b[i])
		partials = append(partials, y, x)
	}
	return agrad.NewNary(value, operands, partials)
}

// DotSelf returns Σ v_i² for a vector v.
func DotSelf(v *Matrix) (agrad.Var, error) {
	if err := vector("DotSelf", v); err != nil {
		return agrad.Var{}, err
	}
	return SquaredNorm(v), nil
}

// ColumnsDotSelf returns, for every column of a, the dot product of the
// column with itself, as a column vector with one entry per column.
func ColumnsDotSelf(a *Matrix) *Matrix {
	out := New(a.cols, 1)
	for j := range a.cols {
		out.data[j] = SquaredNorm(Vec(a.Col(j)))
	}
	return out
}
