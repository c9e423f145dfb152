package agrad

import "math"

// Var is a handle to a node on a tape.
//
// Copying a Var never copies the node. A Var with no tape is a constant:
// it takes part in arithmetic like any other Var, but operations whose
// operands are all constants return constants and never touch a tape.
//
// Var handles are only valid until the tape they came from is reset.
type Var struct {
	tape *Tape
	idx  int32
	gen  uint32
	val  float64
}

// Const returns a constant Var.
func Const(value float64) Var {
	return Var{val: value}
}

// Consts wraps each value as a constant.
func Consts(values []float64) []Var {
	vars := make([]Var, len(values))
	for i, v := range values {
		vars[i] = Const(v)
	}
	return vars
}

// Value returns the forward value.
func (v Var) Value() float64 {
	return v.val
}

// IsConstant reports whether v carries no derivative information.
func (v Var) IsConstant() bool {
	return v.tape == nil
}

// Tape returns the tape v lives on, or nil for constants.
func (v Var) Tape() *Tape {
	return v.tape
}

// Values extracts the forward values of vars.
func Values(vars []Var) []float64 {
	out := make([]float64, len(vars))
	for i, v := range vars {
		out[i] = v.val
	}
	return out
}

// unary records f(x) with local partial d. Callers return early on
// constant x so that d is only computed when it is needed.
func unary(x Var, value, d float64) Var {
	x.tape.check(x)
	return x.tape.pushUnary(value, x, d)
}

// binary records f(a, b) with local partials da and db. Constant operands
// get no edge; two constants produce a constant.
func binary(a, b Var, value, da, db float64) Var {
	switch {
	case a.tape == nil && b.tape == nil:
		return Const(value)
	case b.tape == nil:
		return unary(a, value, da)
	case a.tape == nil:
		return unary(b, value, db)
	}
	t := a.tape
	t.check(a)
	t.check(b)
	return t.pushBinary(value, a, da, b, db)
}

// Add returns v + w.
func (v Var) Add(w Var) Var {
	return binary(v, w, v.val+w.val, 1, 1)
}

// Sub returns v - w.
func (v Var) Sub(w Var) Var {
	return binary(v, w, v.val-w.val, 1, -1)
}

// Mul returns v * w.
func (v Var) Mul(w Var) Var {
	return binary(v, w, v.val*w.val, w.val, v.val)
}

// Div returns v / w. Division by zero yields ±Inf or NaN in both the value
// and the partials.
func (v Var) Div(w Var) Var {
	q := v.val / w.val
	return binary(v, w, q, 1/w.val, -q/w.val)
}

// Neg returns -v.
func (v Var) Neg() Var {
	if v.tape == nil {
		return Const(-v.val)
	}
	return unary(v, -v.val, -1)
}

// AddFloat returns v + c.
func (v Var) AddFloat(c float64) Var {
	if v.tape == nil {
		return Const(v.val + c)
	}
	return unary(v, v.val+c, 1)
}

// MulFloat returns v * c.
func (v Var) MulFloat(c float64) Var {
	if v.tape == nil {
		return Const(v.val * c)
	}
	return unary(v, v.val*c, c)
}

// Less reports whether v < w by value. Comparisons never record nodes.
func (v Var) Less(w Var) bool {
	return v.val < w.val
}

// IsNaN reports whether the value of v is NaN.
func (v Var) IsNaN() bool {
	return math.IsNaN(v.val)
}

// Sum returns the sum of vars as a single node.
func Sum(vars ...Var) Var {
	t, err := tapeOf(vars...)
	if err != nil {
		panic(err)
	}
	total := 0.0
	n := 0
	for _, v := range vars {
		total += v.val
		if v.tape != nil {
			n++
		}
	}
	if t == nil {
		return Const(total)
	}
	off := t.reserve(n)
	k := off
	for _, v := range vars {
		if v.tape == nil {
			continue
		}
		t.operands[k] = v.idx
		t.partials[k] = 1
		k++
	}
	return t.pushNaryRange(total, off, n)
}

// Fma returns a*b + c as a single node.
func Fma(a, b, c Var) Var {
	value := math.FMA(a.val, b.val, c.val)
	return NewNary(value, []Var{a, b, c}, []float64{b.val, a.val, 1})
}
