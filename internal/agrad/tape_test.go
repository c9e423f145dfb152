package agrad_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abikoushi/stan/internal/agrad"
)

// TestTape_NewVar tests leaf allocation and handle values.
func TestTape_NewVar(t *testing.T) {
	tape := agrad.NewTape()
	assert.Equal(t, 0, tape.NumNodes())

	x := tape.NewVar(2.5)
	assert.Equal(t, 1, tape.NumNodes())
	assert.Equal(t, 2.5, x.Value())
	assert.False(t, x.IsConstant())
	assert.Same(t, tape, x.Tape())

	vars := tape.NewVars([]float64{1, 2, 3})
	assert.Len(t, vars, 3)
	assert.Equal(t, 4, tape.NumNodes())
	assert.Equal(t, []float64{1, 2, 3}, agrad.Values(vars))
}

// TestTape_Reset tests that reset truncates the tape and bumps the generation.
func TestTape_Reset(t *testing.T) {
	tape := agrad.NewTape()
	x := tape.NewVar(1)
	_ = x.Mul(x).Add(x)
	require.Equal(t, 3, tape.NumNodes())

	gen := tape.Generation()
	tape.Reset()

	assert.Equal(t, 0, tape.NumNodes())
	assert.NotEqual(t, gen, tape.Generation())
}

// TestTape_StaleVar tests that handles from an earlier generation are rejected.
func TestTape_StaleVar(t *testing.T) {
	tape := agrad.NewTape()
	x := tape.NewVar(1)
	tape.Reset()

	_, err := tape.Grad(x, []agrad.Var{x})
	require.Error(t, err)
	assert.ErrorIs(t, err, agrad.ErrStaleVar)

	assert.PanicsWithValue(t, agrad.ErrStaleVar, func() {
		_ = x.Add(x)
	})
}

// TestTape_ForeignVar tests that mixing tapes is rejected.
func TestTape_ForeignVar(t *testing.T) {
	t1 := agrad.NewTape()
	t2 := agrad.NewTape()
	x := t1.NewVar(1)
	y := t2.NewVar(2)

	_, err := t1.Grad(y, []agrad.Var{x})
	assert.ErrorIs(t, err, agrad.ErrForeignVar)

	assert.Panics(t, func() {
		_ = x.Mul(y)
	})
}

// TestTape_MaxNodes tests that a fixed-capacity tape aborts the evaluation.
func TestTape_MaxNodes(t *testing.T) {
	tape := agrad.NewTape(agrad.WithMaxNodes(3))

	err := agrad.Run(func() error {
		x := tape.NewVar(1)
		y := x.Add(x)
		z := y.Mul(x)
		_ = z.Add(x) // fourth node
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, agrad.ErrTapeExhausted)

	var ex *agrad.ExhaustedError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, 3, ex.Max)
}

// TestRun_PassesErrors tests that Run returns the function's error untouched.
func TestRun_PassesErrors(t *testing.T) {
	want := errors.New("boom")
	assert.Equal(t, want, agrad.Run(func() error { return want }))
	assert.NoError(t, agrad.Run(func() error { return nil }))
}

// TestRun_RepanicsOthers tests that unrelated panics are not swallowed.
func TestRun_RepanicsOthers(t *testing.T) {
	assert.PanicsWithValue(t, "other", func() {
		_ = agrad.Run(func() error { panic("other") })
	})
}

// TestConstantFastPath tests that constant-only expressions never touch a tape.
func TestConstantFastPath(t *testing.T) {
	tape := agrad.NewTape()
	x := tape.NewVar(0.7)
	before := tape.NumNodes()

	a := agrad.Const(2)
	b := agrad.Const(3)
	c := agrad.Exp(a.Mul(b)).Sub(agrad.Log(b)).Div(agrad.Sqrt(a))
	c = agrad.Pow(c, a).Add(agrad.Lgamma(b)).Add(agrad.Sum(a, b, c))
	c = agrad.Fma(a, b, c)

	assert.True(t, c.IsConstant())
	assert.Equal(t, before, tape.NumNodes())

	// Mixing in a variable records nodes again.
	_ = c.Mul(x)
	assert.Equal(t, before+1, tape.NumNodes())
}

// TestReset_Deterministic tests that replaying an evaluation after reset
// reproduces identical values and gradients.
func TestReset_Deterministic(t *testing.T) {
	tape := agrad.NewTape()
	eval := func() (float64, []float64) {
		x := tape.NewVar(0.3)
		y := tape.NewVar(-1.7)
		f := agrad.Exp(x.Mul(y)).Add(agrad.Atan2(y, x)).Mul(agrad.Log1pExp(y))
		grad, err := tape.Grad(f, []agrad.Var{x, y})
		require.NoError(t, err)
		return f.Value(), grad
	}

	v1, g1 := eval()
	n1 := tape.NumNodes()
	tape.Reset()
	v2, g2 := eval()

	assert.Equal(t, v1, v2)
	assert.Equal(t, g1, g2)
	assert.Equal(t, n1, tape.NumNodes())
}
