package gradcheck

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abikoushi/stan/internal/agrad"
	"github.com/abikoushi/stan/internal/parallel"
)

func testOptions() Options {
	return Options{
		Samples:   4,
		Seed:      7,
		Step:      1e-6,
		Tolerance: 1e-4,
		Parallel:  parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 2},
		Logger:    slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}
}

func TestRun_AllCases(t *testing.T) {
	reports, err := Run(context.Background(), Cases(), testOptions())
	require.NoError(t, err)
	require.Len(t, reports, len(Cases()))
	for _, r := range reports {
		assert.True(t, r.Passed(), "%s: %d failures, max error %g at %v (%v)", r.Case, r.Failures, r.MaxError, r.Worst, r.Err)
		assert.Equal(t, 4, r.Samples)
	}
}

func TestRun_Reproducible(t *testing.T) {
	cases, err := Lookup("pow", "determinant")
	require.NoError(t, err)

	opts := testOptions()
	parallelRun, err := Run(context.Background(), cases, opts)
	require.NoError(t, err)

	opts.Parallel = parallel.Config{Enabled: false}
	sequentialRun, err := Run(context.Background(), cases, opts)
	require.NoError(t, err)

	assert.Equal(t, sequentialRun, parallelRun)
}

func TestRun_DetectsWrongGradient(t *testing.T) {
	var logs bytes.Buffer
	opts := testOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	wrong := Case{Name: "wrong", Dim: 1, Lo: 1, Hi: 2, F: func(x []agrad.Var) (agrad.Var, error) {
		v := x[0].Value()
		return agrad.NewNary(v*v, x[:1], []float64{3 * v}), nil
	}}
	reports, err := Run(context.Background(), []Case{wrong}, opts)
	require.NoError(t, err)
	assert.False(t, reports[0].Passed())
	assert.Equal(t, 4, reports[0].Failures)
	assert.Greater(t, reports[0].MaxError, 0.3)
	require.Len(t, reports[0].Worst, 1)
	assert.NoError(t, reports[0].Err)
	assert.Contains(t, logs.String(), "gradient check failed")
	assert.Contains(t, logs.String(), "case=wrong")
}

func TestRun_EvaluationError(t *testing.T) {
	boom := errors.New("boom")
	failing := Case{Name: "failing", Dim: 2, Lo: 0, Hi: 1, F: func([]agrad.Var) (agrad.Var, error) {
		return agrad.Var{}, boom
	}}

	reports, err := Run(context.Background(), []Case{failing}, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, reports[0].Failures)
	assert.ErrorIs(t, reports[0].Err, boom)
	assert.Nil(t, reports[0].Worst)
}

func TestRun_Errors(t *testing.T) {
	opts := testOptions()
	opts.Samples = 0
	_, err := Run(context.Background(), Cases(), opts)
	assert.Error(t, err)

	opts = testOptions()
	opts.Step = 0
	_, err = Run(context.Background(), Cases(), opts)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, Cases(), testOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookup(t *testing.T) {
	cases, err := Lookup("softmax", "arith")
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "softmax", cases[0].Name)
	assert.Equal(t, "arith", cases[1].Name)

	all, err := Lookup()
	require.NoError(t, err)
	assert.Len(t, all, len(Names()))

	_, err = Lookup("arith", "nope")
	assert.ErrorIs(t, err, ErrUnknownCase)
}

func TestCases_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Cases() {
		assert.False(t, seen[c.Name], "duplicate case %s", c.Name)
		seen[c.Name] = true
		assert.Positive(t, c.Dim)
		assert.Less(t, c.Lo, c.Hi)
	}
}

func TestPoint(t *testing.T) {
	c := Case{Dim: 5, Lo: -1, Hi: 3}
	x := point(c, 3, 11)
	assert.Equal(t, x, point(c, 3, 11))
	assert.NotEqual(t, x, point(c, 3, 12))
	for _, v := range x {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 3.0)
	}
}

func TestRelativeError(t *testing.T) {
	assert.Equal(t, 0.0, relativeError([]float64{1, 2}, []float64{1, 2}))
	assert.InDelta(t, 0.5, relativeError([]float64{0.5}, []float64{0}), 1e-15)
	assert.InDelta(t, 0.1, relativeError([]float64{110}, []float64{100}), 1e-15)
	assert.True(t, math.IsInf(relativeError([]float64{math.NaN()}, []float64{1}), 1))
}
