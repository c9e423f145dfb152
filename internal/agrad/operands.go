package agrad

import "fmt"

// Operand is one argument of a vectorized density or CDF: a scalar or a
// vector, differentiable or constant.
//
// Operand is also the vector view of that argument: At(n) returns element
// n of a vector and the single value of a scalar for every n, so callers
// can write one loop over MaxSize elements regardless of argument shapes.
type Operand struct {
	one    Var
	vars   []Var
	consts []float64
	scalar bool
}

// Scalar wraps a single Var.
func Scalar(v Var) Operand {
	return Operand{one: v, scalar: true}
}

// ConstScalar wraps a single constant.
func ConstScalar(x float64) Operand {
	return Operand{one: Const(x), scalar: true}
}

// Vector wraps a vector of Vars.
func Vector(vs []Var) Operand {
	return Operand{vars: vs}
}

// ConstVector wraps a vector of constants. No Var is created for them.
func ConstVector(xs []float64) Operand {
	return Operand{consts: xs}
}

// Len returns 1 for scalars and the element count for vectors.
func (o Operand) Len() int {
	switch {
	case o.scalar:
		return 1
	case o.vars != nil:
		return len(o.vars)
	}
	return len(o.consts)
}

// At returns the value of element n. Scalars repeat for every n.
func (o Operand) At(n int) float64 {
	switch {
	case o.scalar:
		return o.one.val
	case o.vars != nil:
		return o.vars[n].val
	}
	return o.consts[n]
}

// IsScalar reports whether o wraps a single value.
func (o Operand) IsScalar() bool {
	return o.scalar
}

// IsConstant reports whether no element of o is differentiable.
func (o Operand) IsConstant() bool {
	switch {
	case o.scalar:
		return o.one.tape == nil
	case o.vars != nil:
		for _, v := range o.vars {
			if v.tape != nil {
				return false
			}
		}
	}
	return true
}

// elements returns the Var elements of o, or nil for constant vectors.
func (o Operand) elements() []Var {
	if o.scalar {
		return []Var{o.one}
	}
	return o.vars
}

// MaxSize returns the loop bound for a vectorized call: the largest Len of
// ops, or 0 if any of them is an empty vector.
func MaxSize(ops ...Operand) int {
	n := 1
	for _, o := range ops {
		l := o.Len()
		if l == 0 {
			return 0
		}
		n = max(n, l)
	}
	return n
}

// CheckConsistentSizes verifies that every vector argument has the same
// length. Scalars are compatible with any length.
func CheckConsistentSizes(ops ...Operand) error {
	n := -1
	for i, o := range ops {
		if o.scalar {
			continue
		}
		if n < 0 {
			n = o.Len()
			continue
		}
		if o.Len() != n {
			return fmt.Errorf("argument %d has size %d, want %d: %w", i, o.Len(), n, ErrDimensionMismatch)
		}
	}
	return nil
}

// OperandsAndPartials builds at most one node for a density evaluated over
// possibly vectorized, possibly constant arguments.
//
// The density computes its value in one loop and, in the same loop,
// accumulates the partial derivative with respect to every element of every
// differentiable argument through D(k). ToVar then records a single node
// holding all of those partials, or none at all if nothing was
// differentiable.
//
// Example (the partials of a normal log density with respect to y):
//
//	op, err := agrad.NewOperandsAndPartials(y, mu, sigma)
//	for n := 0; n < agrad.MaxSize(y, mu, sigma); n++ {
//	    z := (y.At(n) - mu.At(n)) / sigma.At(n)
//	    logp -= 0.5 * z * z
//	    op.D(0).Add(n, -z/sigma.At(n))
//	}
//	return op.ToVar(logp)
type OperandsAndPartials struct {
	tape  *Tape
	args  []Operand
	offs  []int // scratch offset per argument, -1 if constant
	off   int   // start of the whole scratch block
	total int
	done  bool
}

// NewOperandsAndPartials binds the accumulator to args. Vector arguments
// must have consistent sizes.
func NewOperandsAndPartials(args ...Operand) (*OperandsAndPartials, error) {
	if err := CheckConsistentSizes(args...); err != nil {
		return nil, Errorf("OperandsAndPartials", err)
	}
	op := &OperandsAndPartials{
		args: args,
		offs: make([]int, len(args)),
	}
	for _, a := range args {
		t, err := tapeOf(a.elements()...)
		if err != nil {
			return nil, Errorf("OperandsAndPartials", err)
		}
		if t == nil {
			continue
		}
		if op.tape != nil && op.tape != t {
			return nil, Errorf("OperandsAndPartials", ErrForeignVar)
		}
		op.tape = t
	}
	if op.tape == nil {
		for k := range op.offs {
			op.offs[k] = -1
		}
		return op, nil
	}

	for k, a := range args {
		op.offs[k] = -1
		if !a.IsConstant() {
			op.total += a.Len()
		}
	}
	op.off = op.tape.reserve(op.total)
	next := op.off
	for k, a := range args {
		if a.IsConstant() {
			continue
		}
		op.offs[k] = next
		for _, v := range a.elements() {
			if v.tape != nil {
				op.tape.operands[next] = v.idx
			}
			next++
		}
	}
	return op, nil
}

// D returns the partial-derivative slots of argument k.
func (op *OperandsAndPartials) D(k int) Partials {
	return Partials{
		tape:   op.tape,
		off:    op.offs[k],
		scalar: op.args[k].scalar,
	}
}

// ToVar records the composite node and returns it. If no argument was
// differentiable the value is returned as a constant and the tape is left
// untouched. ToVar must be called once.
func (op *OperandsAndPartials) ToVar(value float64) Var {
	if op.done {
		panic("agrad: OperandsAndPartials.ToVar called twice")
	}
	op.done = true
	if op.tape == nil {
		return Const(value)
	}
	return op.tape.pushNaryRange(value, op.off, op.total)
}

// Partials are the slots of one argument of an OperandsAndPartials.
type Partials struct {
	tape   *Tape
	off    int
	scalar bool
}

// Live reports whether the argument is differentiable. Densities test it to
// skip computing partials nobody will read.
func (p Partials) Live() bool {
	return p.off >= 0
}

// Add accumulates d into the slot of element n. For scalar arguments every
// n maps to the same slot. Add is a no-op for constant arguments.
func (p Partials) Add(n int, d float64) {
	if p.off < 0 {
		return
	}
	if p.scalar {
		n = 0
	}
	p.tape.partials[p.off+n] += d
}

// Get returns the value accumulated so far for element n.
func (p Partials) Get(n int) float64 {
	if p.off < 0 {
		return 0
	}
	if p.scalar {
		n = 0
	}
	return p.tape.partials[p.off+n]
}
