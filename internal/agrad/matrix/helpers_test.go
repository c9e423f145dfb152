package matrix_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/abikoushi/stan/internal/agrad"
	"github.com/abikoushi/stan/internal/agrad/matrix"
)

// vars records a rows×cols matrix of variables on tape.
func vars(tape *agrad.Tape, rows, cols int, values ...float64) *matrix.Matrix {
	return matrix.ToVar(tape, mat.NewDense(rows, cols, values))
}

// consts wraps values as a constant rows×cols matrix.
func consts(rows, cols int, values ...float64) *matrix.Matrix {
	return matrix.Const(mat.NewDense(rows, cols, values))
}

func grad(t *testing.T, out agrad.Var, inputs *matrix.Matrix) []float64 {
	t.Helper()
	tape := out.Tape()
	if tape == nil {
		return make([]float64, inputs.Len())
	}
	g, err := tape.Grad(out, inputs.Vars())
	require.NoError(t, err)
	return g
}

// weighted reduces a matrix-valued result to a scalar with fixed weights
// so that every output entry contributes to the gradient.
func weighted(m *matrix.Matrix) agrad.Var {
	terms := make([]agrad.Var, m.Len())
	for k, v := range m.Vars() {
		terms[k] = v.MulFloat(float64(k%5) - 1.7)
	}
	return agrad.Sum(terms...)
}

// checkFiniteDifference compares the gradient of f at x against a central
// finite difference. f must not fail at x.
func checkFiniteDifference(t *testing.T, rows, cols int, x []float64, tol float64, f func(*matrix.Matrix) (agrad.Var, error)) {
	t.Helper()
	tape := agrad.NewTape()
	in := vars(tape, rows, cols, x...)
	out, err := f(in)
	require.NoError(t, err)
	analytic := grad(t, out, in)

	numeric := fd.Gradient(nil, func(y []float64) float64 {
		v, err := f(consts(rows, cols, y...))
		require.NoError(t, err)
		return v.Value()
	}, x, &fd.Settings{Formula: fd.Central, Step: 1e-6})

	for i := range x {
		assert.InDelta(t, numeric[i], analytic[i], tol*math.Max(1, math.Abs(numeric[i])), "entry %d", i)
	}
}

// randomValues draws n values uniformly from [lo, hi).
func randomValues(rng *rand.Rand, n int, lo, hi float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = lo + (hi-lo)*rng.Float64()
	}
	return x
}

// spd returns a random symmetric positive-definite n×n matrix in
// row-major order.
func spd(rng *rand.Rand, n int) []float64 {
	b := mat.NewDense(n, n, randomValues(rng, n*n, -1, 1))
	var a mat.Dense
	a.Mul(b, b.T())
	for i := range n {
		a.Set(i, i, a.At(i, i)+float64(n))
	}
	return a.RawMatrix().Data
}
