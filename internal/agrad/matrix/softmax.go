package matrix

import (
	"fmt"
	"math"

	"github.com/abikoushi/stan/internal/agrad"
)

// Softmax returns exp(x) / Σ exp(x) for a non-empty vector x, with the
// same shape as x. The maximum is subtracted before exponentiating.
//
// Backward: x̄_j = y_j (ȳ_j - Σ_k ȳ_k y_k).
func Softmax(x *Matrix) (*Matrix, error) {
	if x.Len() == 0 {
		return nil, fmt.Errorf("Softmax: %w", agrad.ErrZeroSize)
	}
	if err := vector("Softmax", x); err != nil {
		return nil, err
	}
	xv := x.Values()
	hi := math.Inf(-1)
	for _, v := range xv {
		hi = math.Max(hi, v)
	}
	y := make([]float64, len(xv))
	sum := 0.0
	for i, v := range xv {
		y[i] = math.Exp(v - hi)
		sum += y[i]
	}
	for i := range y {
		y[i] /= sum
	}
	out := agrad.NewRule(&softmaxRule{x: clone(x.data), y: y}, x.data, y)
	return &Matrix{rows: x.rows, cols: x.cols, data: out}, nil
}

type softmaxRule struct {
	x []agrad.Var
	y []float64
}

func (r *softmaxRule) Chain(t *agrad.Tape, out []float64) {
	s := 0.0
	for k, a := range out {
		s += a * r.y[k]
	}
	for j, v := range r.x {
		t.AddAdjoint(v, r.y[j]*(out[j]-s))
	}
}
