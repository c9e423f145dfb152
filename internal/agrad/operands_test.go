package agrad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abikoushi/stan/internal/agrad"
)

// sumOfProducts computes Σ a[n]*b[n] through the bulk accumulator, the way
// a vectorized density would.
func sumOfProducts(t *testing.T, a, b agrad.Operand) agrad.Var {
	t.Helper()
	op, err := agrad.NewOperandsAndPartials(a, b)
	require.NoError(t, err)

	total := 0.0
	for n := 0; n < agrad.MaxSize(a, b); n++ {
		total += a.At(n) * b.At(n)
		if op.D(0).Live() {
			op.D(0).Add(n, b.At(n))
		}
		op.D(1).Add(n, a.At(n))
	}
	return op.ToVar(total)
}

// TestOperand_VectorView tests scalar broadcasting and sizes.
func TestOperand_VectorView(t *testing.T) {
	tape := agrad.NewTape()
	s := agrad.Scalar(tape.NewVar(2))
	v := agrad.Vector(tape.NewVars([]float64{1, 2, 3}))
	c := agrad.ConstVector([]float64{4, 5, 6})
	k := agrad.ConstScalar(7)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 2.0, s.At(0))
	assert.Equal(t, 2.0, s.At(2))
	assert.Equal(t, 3.0, v.At(2))
	assert.Equal(t, 6.0, c.At(2))
	assert.Equal(t, 7.0, k.At(5))

	assert.True(t, s.IsScalar())
	assert.False(t, v.IsScalar())
	assert.False(t, s.IsConstant())
	assert.True(t, c.IsConstant())
	assert.True(t, k.IsConstant())
	assert.True(t, agrad.Vector(agrad.Consts([]float64{1})).IsConstant())

	assert.Equal(t, 3, agrad.MaxSize(s, v, k))
	assert.Equal(t, 0, agrad.MaxSize(s, agrad.ConstVector(nil)))
}

// TestOperandsAndPartials_SingleNode tests that a vectorized call records
// exactly one node and routes every partial to its operand.
func TestOperandsAndPartials_SingleNode(t *testing.T) {
	tape := agrad.NewTape()
	xs := tape.NewVars([]float64{1, 2, 3})
	w := tape.NewVar(10)
	before := tape.NumNodes()

	out := sumOfProducts(t, agrad.Vector(xs), agrad.Scalar(w))
	assert.Equal(t, before+1, tape.NumNodes())
	assert.Equal(t, 60.0, out.Value())

	inputs := append(append([]agrad.Var{}, xs...), w)
	grad, err := tape.Grad(out, inputs)
	require.NoError(t, err)
	// d/dx_n = w, d/dw = Σ x_n (the scalar slot accumulates every n)
	assert.Equal(t, []float64{10, 10, 10, 6}, grad)
}

// TestOperandsAndPartials_ConstantArgs tests that constant arguments get no
// slots and that an all-constant call never touches the tape.
func TestOperandsAndPartials_ConstantArgs(t *testing.T) {
	tape := agrad.NewTape()
	xs := tape.NewVars([]float64{1, 2})
	before := tape.NumNodes()

	c := agrad.ConstVector([]float64{3, 4})
	out := sumOfProducts(t, c, agrad.ConstScalar(2))
	assert.True(t, out.IsConstant())
	assert.Equal(t, 14.0, out.Value())
	assert.Equal(t, before, tape.NumNodes())

	out = sumOfProducts(t, c, agrad.Vector(xs))
	grad, err := tape.Grad(out, xs)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, grad)
}

// TestOperandsAndPartials_PartiallyConstantVector tests a Var vector mixing
// constants and variables.
func TestOperandsAndPartials_PartiallyConstantVector(t *testing.T) {
	tape := agrad.NewTape()
	x := tape.NewVar(5)
	mixed := []agrad.Var{agrad.Const(1), x, agrad.Const(3)}

	out := sumOfProducts(t, agrad.Vector(mixed), agrad.ConstScalar(2))
	assert.Equal(t, 18.0, out.Value())

	grad, err := tape.Grad(out, []agrad.Var{x})
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, grad)
}

// TestOperandsAndPartials_InterleavedNodes tests that other nodes recorded
// between construction and ToVar do not disturb the reserved slots.
func TestOperandsAndPartials_InterleavedNodes(t *testing.T) {
	tape := agrad.NewTape()
	xs := tape.NewVars([]float64{1, 2})
	y := agrad.Vector(xs)

	op, err := agrad.NewOperandsAndPartials(y)
	require.NoError(t, err)

	other := agrad.Sum(xs...) // uses scratch after our block
	op.D(0).Add(0, 7)
	op.D(0).Add(1, 9)
	assert.Equal(t, 9.0, op.D(0).Get(1))
	out := op.ToVar(0).Add(other)

	grad, err := tape.Grad(out, xs)
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 10}, grad)
}

// TestOperandsAndPartials_Errors tests shape and tape validation.
func TestOperandsAndPartials_Errors(t *testing.T) {
	tape := agrad.NewTape()
	_, err := agrad.NewOperandsAndPartials(
		agrad.Vector(tape.NewVars([]float64{1, 2})),
		agrad.ConstVector([]float64{1, 2, 3}),
	)
	assert.ErrorIs(t, err, agrad.ErrDimensionMismatch)

	other := agrad.NewTape()
	_, err = agrad.NewOperandsAndPartials(agrad.Scalar(tape.NewVar(1)), agrad.Scalar(other.NewVar(1)))
	assert.ErrorIs(t, err, agrad.ErrForeignVar)

	op, err := agrad.NewOperandsAndPartials(agrad.ConstScalar(1))
	require.NoError(t, err)
	assert.False(t, op.D(0).Live())
	op.D(0).Add(0, 1) // no-op
	_ = op.ToVar(1)
	assert.Panics(t, func() { op.ToVar(1) })
}
