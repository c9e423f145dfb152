package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abikoushi/stan/internal/agrad"
	"github.com/abikoushi/stan/internal/agrad/matrix"
)

// TestMatrix_Accessors tests layout, copies and views.
func TestMatrix_Accessors(t *testing.T) {
	tape := agrad.NewTape()
	a := vars(tape, 2, 3, 1, 2, 3, 4, 5, 6)

	r, c := a.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 6, a.Len())
	assert.False(t, a.IsVector())
	assert.Equal(t, 6.0, a.At(1, 2).Value())
	assert.Equal(t, []float64{4, 5, 6}, agrad.Values(a.Row(1)))
	assert.Equal(t, []float64{2, 5}, agrad.Values(a.Col(1)))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, a.Values())
	assert.Equal(t, 5.0, a.Dense().At(1, 1))
	assert.Equal(t, 6, tape.NumNodes())

	a.Set(0, 0, agrad.Const(9))
	assert.Equal(t, 9.0, a.At(0, 0).Value())
	assert.Panics(t, func() { a.At(2, 0) })

	_, err := matrix.FromVars(2, 2, tape.NewVars([]float64{1, 2, 3}))
	assert.ErrorIs(t, err, agrad.ErrDimensionMismatch)

	assert.True(t, consts(1, 2, 1, 2).IsConstant())
	assert.True(t, matrix.New(0, 3).IsConstant())
	assert.Nil(t, matrix.New(0, 3).Dense())
}

// TestElementwise tests the element-wise operators and their shape errors.
func TestElementwise(t *testing.T) {
	tape := agrad.NewTape()
	a := vars(tape, 2, 2, 1, 2, 3, 4)
	b := consts(2, 2, 5, 6, 7, 8)

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 8, 10, 12}, sum.Values())

	diff, err := matrix.Subtract(b, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4, 4, 4}, diff.Values())

	prod, err := matrix.ElemMultiply(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 12, 21, 32}, prod.Values())
	assert.Equal(t, []float64{5, 0, 0, 0}, grad(t, prod.At(0, 0), a))

	quot, err := matrix.ElemDivide(b, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 3, 7.0 / 3, 2}, quot.Values())
	assert.Equal(t, []float64{0, -1.5, 0, 0}, grad(t, quot.At(0, 1), a)) // -6/2²

	assert.Equal(t, []float64{-1, -2, -3, -4}, matrix.Minus(a).Values())
	assert.Equal(t, []float64{2, 4, 6, 8}, matrix.Scale(a, agrad.Const(2)).Values())
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, matrix.Divide(a, agrad.Const(2)).Values())
	assert.Equal(t, []float64{3, 4, 5, 6}, matrix.AddScalar(a, agrad.Const(2)).Values())
	assert.Equal(t, []float64{0, 1, 2, 3}, matrix.SubtractScalar(a, agrad.Const(1)).Values())

	e := matrix.Exp(a)
	assert.InDelta(t, math.Exp(3), e.At(1, 0).Value(), 1e-12)
	l := matrix.Log(a)
	assert.InDelta(t, math.Log(4), l.At(1, 1).Value(), 1e-12)

	n := tape.NumNodes()
	_, err = matrix.Add(a, consts(2, 3, 1, 2, 3, 4, 5, 6))
	assert.ErrorIs(t, err, agrad.ErrDimensionMismatch)
	_, err = matrix.ElemMultiply(a, consts(1, 4, 1, 2, 3, 4))
	assert.ErrorIs(t, err, agrad.ErrDimensionMismatch)
	assert.Equal(t, n, tape.NumNodes(), "failed operations must not record nodes")
}

// TestScale_GradientOfScalar tests that the broadcast scalar collects the
// adjoints of every entry.
func TestScale_GradientOfScalar(t *testing.T) {
	tape := agrad.NewTape()
	a := consts(2, 1, 3, 4)
	s := tape.NewVar(2)

	out := matrix.Sum(matrix.Scale(a, s))
	g, err := tape.Grad(out, []agrad.Var{s})
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, g)
}

// TestTranspose tests shape and that no nodes are recorded.
func TestTranspose(t *testing.T) {
	tape := agrad.NewTape()
	a := vars(tape, 2, 3, 1, 2, 3, 4, 5, 6)
	n := tape.NumNodes()

	at := matrix.Transpose(a)
	assert.Equal(t, 3, at.Rows())
	assert.Equal(t, 2, at.Cols())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, at.Values())
	assert.Equal(t, a.At(0, 2), at.At(2, 0))
	assert.Equal(t, n, tape.NumNodes())
}

// TestDiagMatrix tests construction from vectors.
func TestDiagMatrix(t *testing.T) {
	tape := agrad.NewTape()
	d, err := matrix.DiagMatrix(vars(tape, 3, 1, 1, 4, 9))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 0, 4, 0, 0, 0, 9}, d.Values())
	assert.True(t, d.At(0, 1).IsConstant())

	empty, err := matrix.DiagMatrix(matrix.New(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = matrix.DiagMatrix(consts(2, 2, 1, 2, 3, 4))
	assert.ErrorIs(t, err, agrad.ErrDimensionMismatch)
}

// TestColAtRowAt tests extraction and index validation.
func TestColAtRowAt(t *testing.T) {
	tape := agrad.NewTape()
	a := vars(tape, 2, 3, 1, 2, 3, 4, 5, 6)

	c, err := matrix.ColAt(a, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6}, c.Values())
	assert.Equal(t, 1, c.Cols())

	r, err := matrix.RowAt(a, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, r.Values())
	assert.Equal(t, 1, r.Rows())

	for _, j := range []int{-1, 3} {
		_, err = matrix.ColAt(a, j)
		assert.ErrorIs(t, err, agrad.ErrIndexRange)
	}
	for _, i := range []int{-1, 2} {
		_, err = matrix.RowAt(a, i)
		assert.ErrorIs(t, err, agrad.ErrIndexRange)
	}
}

// TestSumProd tests the sum and product reductions.
func TestSumProd(t *testing.T) {
	tape := agrad.NewTape()
	a := vars(tape, 2, 2, 1, 2, 3, 4)

	s := matrix.Sum(a)
	assert.Equal(t, 10.0, s.Value())
	assert.Equal(t, []float64{1, 1, 1, 1}, grad(t, s, a))

	v := vars(tape, 2, 1, 2, 3)
	p := matrix.Prod(v)
	assert.Equal(t, 6.0, p.Value())
	assert.Equal(t, []float64{3, 2}, grad(t, p, v))

	z := vars(tape, 3, 1, 2, 0, 5)
	p = matrix.Prod(z)
	assert.Equal(t, 0.0, p.Value())
	assert.Equal(t, []float64{0, 10, 0}, grad(t, p, z))

	assert.Equal(t, 1.0, matrix.Prod(matrix.New(0, 1)).Value())
	assert.Equal(t, 0.0, matrix.Sum(matrix.New(0, 1)).Value())
}

// TestMeanVarianceSd tests the moment reductions.
func TestMeanVarianceSd(t *testing.T) {
	tape := agrad.NewTape()

	m, err := matrix.Mean(vars(tape, 3, 1, 100, 0, -3))
	require.NoError(t, err)
	assert.InDelta(t, 97.0/3, m.Value(), 1e-12)

	y := vars(tape, 2, 1, 1, 2)
	m, err = matrix.Mean(y)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, grad(t, m, y))

	x := vars(tape, 6, 1, 1, 2, 3, 4, 5, 6)
	v, err := matrix.Variance(x)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, v.Value(), 1e-12)
	sd, err := matrix.Sd(x)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3.5), sd.Value(), 1e-12)

	one := vars(tape, 1, 1, 12.9)
	v, err = matrix.Variance(one)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Value())
	sd, err = matrix.Sd(one)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sd.Value())

	flat := vars(tape, 3, 1, 2, 2, 2)
	sd, err = matrix.Sd(flat)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, grad(t, sd, flat))

	empty := matrix.New(0, 1)
	n := tape.NumNodes()
	_, err = matrix.Mean(empty)
	assert.ErrorIs(t, err, agrad.ErrZeroSize)
	_, err = matrix.Variance(empty)
	assert.ErrorIs(t, err, agrad.ErrZeroSize)
	_, err = matrix.Sd(empty)
	assert.ErrorIs(t, err, agrad.ErrZeroSize)
	assert.Equal(t, n, tape.NumNodes())
}

// TestVariance_MatchesExpression tests variance and sd against the same
// quantity written with scalar operators.
func TestVariance_MatchesExpression(t *testing.T) {
	for _, name := range []string{"variance", "sd"} {
		t.Run(name, func(t *testing.T) {
			tape := agrad.NewTape()
			y := vars(tape, 3, 1, 0.5, 2, 3.5)
			var f agrad.Var
			var err error
			if name == "variance" {
				f, err = matrix.Variance(y)
			} else {
				f, err = matrix.Sd(y)
			}
			require.NoError(t, err)
			g1 := grad(t, f, y)

			ys := y.Vars()
			mean := agrad.Sum(ys...).MulFloat(1.0 / 3)
			var terms []agrad.Var
			for _, v := range ys {
				terms = append(terms, agrad.Square(v.Sub(mean)))
			}
			f2 := agrad.Sum(terms...).MulFloat(0.5)
			if name == "sd" {
				f2 = agrad.Sqrt(f2)
			}
			g2 := grad(t, f2, y)

			assert.InDelta(t, f2.Value(), f.Value(), 1e-12)
			assert.InDeltaSlice(t, g2, g1, 1e-12)
		})
	}
}

// TestMinMax tests selection, empty conventions and gradient routing.
func TestMinMax(t *testing.T) {
	tape := agrad.NewTape()
	a := vars(tape, 2, 2, 3, -1, 7, 2)
	n := tape.NumNodes()

	lo := matrix.Min(a)
	hi := matrix.Max(a)
	assert.Equal(t, -1.0, lo.Value())
	assert.Equal(t, 7.0, hi.Value())
	assert.Equal(t, n, tape.NumNodes(), "min and max select an entry")
	assert.Equal(t, []float64{0, 1, 0, 0}, grad(t, lo, a))
	assert.Equal(t, []float64{0, 0, 1, 0}, grad(t, hi, a))

	assert.True(t, math.IsInf(matrix.Min(matrix.New(0, 1)).Value(), 1))
	assert.True(t, math.IsInf(matrix.Max(matrix.New(1, 0)).Value(), -1))

	withNaN := vars(tape, 3, 1, 1, math.NaN(), -4)
	assert.True(t, matrix.Min(withNaN).IsNaN())
}

// TestTrace tests the diagonal sum.
func TestTrace(t *testing.T) {
	tape := agrad.NewTape()
	a := vars(tape, 2, 2, -1, 2, 5, 10)

	s := matrix.Trace(a)
	assert.Equal(t, 9.0, s.Value())
	assert.Equal(t, []float64{1, 0, 0, 1}, grad(t, s, a))
}

// TestNorms tests the vector norms, including their subgradients.
func TestNorms(t *testing.T) {
	tape := agrad.NewTape()

	a := vars(tape, 2, 2, -1, 2, 5, 10)
	s := matrix.SquaredNorm(a)
	assert.Equal(t, 130.0, s.Value())
	assert.Equal(t, []float64{-2, 4, 10, 20}, grad(t, s, a))

	b := vars(tape, 2, 1, -3, 4)
	s = matrix.Norm(b)
	assert.Equal(t, 5.0, s.Value())
	assert.InDeltaSlice(t, []float64{-0.6, 0.8}, grad(t, s, b), 1e-15)

	origin := vars(tape, 2, 1, 0, 0)
	assert.Equal(t, []float64{0, 0}, grad(t, matrix.Norm(origin), origin))

	c := vars(tape, 2, 2, -1, 2, 5, 0)
	s = matrix.LpNorm1(c)
	assert.Equal(t, 8.0, s.Value())
	assert.Equal(t, []float64{-1, 1, 1, 0}, grad(t, s, c))

	d := vars(tape, 2, 2, -1, 2, -5, 0)
	s = matrix.LpNormInf(d)
	assert.Equal(t, 5.0, s.Value())
	assert.Equal(t, []float64{0, 0, -1, 0}, grad(t, s, d))

	ties := vars(tape, 3, 1, 2, -2, 1)
	assert.Equal(t, []float64{1, 0, 0}, grad(t, matrix.LpNormInf(ties), ties))

	nan := vars(tape, 3, 1, 7, math.NaN(), -9)
	s = matrix.LpNormInf(nan)
	assert.True(t, math.IsNaN(s.Value()))
	assert.Equal(t, []float64{0, 1, 0}, grad(t, s, nan))
	assert.True(t, math.IsNaN(matrix.Max(nan).Value()))
}

// TestDotProduct tests vector products and their shape checks.
func TestDotProduct(t *testing.T) {
	tape := agrad.NewTape()
	a := vars(tape, 3, 1, 1, 3, -5)
	b := vars(tape, 1, 3, 4, -2, -1)

	d, err := matrix.DotProduct(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3.0, d.Value())
	assert.Equal(t, []float64{4, -2, -1}, grad(t, d, a))
	assert.Equal(t, []float64{1, 3, -5}, grad(t, d, b))

	d, err = matrix.DotProduct(a, consts(3, 1, 1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, -1.0, d.Value())

	_, err = matrix.DotProduct(a, consts(2, 1, 1, 1))
	assert.ErrorIs(t, err, agrad.ErrDimensionMismatch)
	_, err = matrix.DotProduct(consts(2, 2, 1, 2, 3, 4), consts(2, 2, 1, 2, 3, 4))
	assert.ErrorIs(t, err, agrad.ErrDimensionMismatch)
}

// TestDotSelf tests Σ v² for row and column vectors.
func TestDotSelf(t *testing.T) {
	tape := agrad.NewTape()
	v := vars(tape, 3, 1, -1, 0, 3)

	s, err := matrix.DotSelf(v)
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.Value())
	assert.Equal(t, []float64{-2, 0, 6}, grad(t, s, v))

	s, err = matrix.DotSelf(vars(tape, 1, 3, 2, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 29.0, s.Value())

	_, err = matrix.DotSelf(consts(2, 2, 1, 2, 3, 4))
	assert.ErrorIs(t, err, agrad.ErrDimensionMismatch)
}

// TestColumnsDotSelf tests the per-column squared norms.
func TestColumnsDotSelf(t *testing.T) {
	tape := agrad.NewTape()
	a := vars(tape, 2, 2, 2, 3, 4, 5)

	c := matrix.ColumnsDotSelf(a)
	assert.Equal(t, []float64{20, 34}, c.Values())
	assert.Equal(t, []float64{0, 6, 0, 10}, grad(t, c.At(1, 0), a))
}
