package agrad

// Tape is the arena holding every node created during one model evaluation.
//
// Nodes are appended in creation order and never removed individually.
// Reset truncates the tape to zero length and starts a new generation;
// handles issued before the reset are rejected afterwards.
//
// Usage:
//
//	tape := agrad.NewTape()
//	x := tape.NewVar(2)
//	y := agrad.Exp(x.Mul(x))
//	grad, err := tape.Grad(y, []agrad.Var{x})
//	tape.Reset()
//
// A Tape is not safe for concurrent use. Independent evaluations running
// in parallel must each own a tape.
type Tape struct {
	nodes []node // Recorded nodes (in creation order)

	// Scratch for n-ary nodes. operands and partials grow in lockstep;
	// an n-ary node owns the range [off, off+n) of both.
	operands []int32
	partials []float64

	rules  []Rule    // Backward rules of multi-output nodes
	outAdj []float64 // Reused buffer handed to Rule.Chain
	saved  []float64 // Adjoints kept across a Backward sweep

	gen      uint32
	maxNodes int // 0 means unbounded
}

// TapeOption configures a Tape.
type TapeOption func(*Tape)

// WithCapacity pre-allocates room for n nodes.
func WithCapacity(n int) TapeOption {
	return func(t *Tape) {
		if n > 0 {
			t.nodes = make([]node, 0, n)
		}
	}
}

// WithMaxNodes fixes the tape capacity. Allocating past it panics with an
// *ExhaustedError, aborting the evaluation.
func WithMaxNodes(n int) TapeOption {
	return func(t *Tape) {
		t.maxNodes = n
	}
}

// NewTape creates an empty tape.
func NewTape(opts ...TapeOption) *Tape {
	t := &Tape{
		nodes:    make([]node, 0, 256), // Pre-allocate for common case
		operands: make([]int32, 0, 256),
		partials: make([]float64, 0, 256),
		gen:      1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reset discards every node and scratch value and invalidates all handles
// issued so far. Backing arrays are kept for the next evaluation.
func (t *Tape) Reset() {
	t.nodes = t.nodes[:0]
	t.operands = t.operands[:0]
	t.partials = t.partials[:0]
	clear(t.rules)
	t.rules = t.rules[:0]
	t.gen++
}

// NumNodes returns the number of nodes on the tape.
func (t *Tape) NumNodes() int {
	return len(t.nodes)
}

// Generation identifies the current tape lifetime. It changes on Reset.
func (t *Tape) Generation() uint32 {
	return t.gen
}

// NewVar records an independent variable.
func (t *Tape) NewVar(value float64) Var {
	return t.push(node{val: value, kind: kindLeaf})
}

// NewVars records one independent variable per value.
func (t *Tape) NewVars(values []float64) []Var {
	vars := make([]Var, len(values))
	for i, v := range values {
		vars[i] = t.NewVar(v)
	}
	return vars
}

// push appends n and returns a handle to it.
func (t *Tape) push(n node) Var {
	if t.maxNodes > 0 && len(t.nodes) >= t.maxNodes {
		panic(&ExhaustedError{Max: t.maxNodes})
	}
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return Var{tape: t, idx: idx, gen: t.gen, val: n.val}
}

func (t *Tape) pushUnary(value float64, a Var, da float64) Var {
	return t.push(node{val: value, kind: kindUnary, a: a.idx, da: da})
}

func (t *Tape) pushBinary(value float64, a Var, da float64, b Var, db float64) Var {
	return t.push(node{val: value, kind: kindBinary, a: a.idx, da: da, b: b.idx, db: db})
}

// reserve appends n empty operand/partial slots and returns their offset.
// Unused operand slots stay at -1 and are skipped by the traversal.
func (t *Tape) reserve(n int) int {
	off := len(t.operands)
	for range n {
		t.operands = append(t.operands, -1)
		t.partials = append(t.partials, 0)
	}
	return off
}

// pushNaryRange records a node whose operands and partials are the
// scratch range [off, off+n).
func (t *Tape) pushNaryRange(value float64, off, n int) Var {
	return t.push(node{val: value, kind: kindNary, a: int32(off), b: int32(n)})
}

// check panics if v is not a live variable of t. Constants always pass.
func (t *Tape) check(v Var) {
	if err := t.validate(v); err != nil {
		panic(err)
	}
}

func (t *Tape) validate(v Var) error {
	switch {
	case v.tape == nil:
		return nil
	case v.tape != t:
		return ErrForeignVar
	case v.gen != t.gen:
		return ErrStaleVar
	}
	return nil
}
