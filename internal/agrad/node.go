package agrad

// kind selects the backward rule of a node.
type kind uint8

const (
	kindLeaf   kind = iota // independent variable or constant-derivative node
	kindUnary              // adj[a] += adj * da
	kindBinary             // adj[a] += adj * da; adj[b] += adj * db
	kindNary               // adj[operands[i]] += adj * partials[i] for i in [a, a+b)
	kindRule               // rules[a].Chain over the b output nodes that follow
	kindOutput             // produced by a preceding rule node; no rule of its own
)

// node is one record on the tape.
//
// Operands are indices of nodes created strictly earlier, so reverse
// creation order is a valid reverse-topological order of the graph.
type node struct {
	val float64 // forward value, immutable
	adj float64 // accumulated adjoint

	da, db float64 // local partials for unary/binary nodes
	a, b   int32   // operand indices, or scratch/rule ranges (see kind)
	kind   kind
}

// Rule is the backward rule of a multi-output node such as a matrix
// inverse or a Cholesky factor.
//
// The rule node is recorded before its outputs, so by the time Chain runs
// every consumer of every output has already contributed to out.
type Rule interface {
	// Chain distributes the output adjoints onto the rule's operands
	// with Tape.AddAdjoint. out[i] is the adjoint of the i-th output.
	Chain(t *Tape, out []float64)
}

// NewRule records r together with one output node per value and returns
// the output handles. If none of operands is differentiable, r is dropped
// and the outputs are constants.
func NewRule(r Rule, operands []Var, values []float64) []Var {
	out := make([]Var, len(values))
	t, err := tapeOf(operands...)
	if err != nil {
		panic(err)
	}
	if t == nil {
		for i, v := range values {
			out[i] = Const(v)
		}
		return out
	}
	idx := int32(len(t.rules))
	t.rules = append(t.rules, r)
	t.push(node{kind: kindRule, a: idx, b: int32(len(values))})
	for i, v := range values {
		out[i] = t.push(node{val: v, kind: kindOutput})
	}
	return out
}

// NewNary records a node with precomputed partials, one per operand.
// Constant operands are dropped; if every operand is constant the result
// is a constant and the tape is not touched.
func NewNary(value float64, operands []Var, partials []float64) Var {
	if len(operands) != len(partials) {
		panic(Errorf("NewNary", ErrDimensionMismatch))
	}
	t, err := tapeOf(operands...)
	if err != nil {
		panic(err)
	}
	if t == nil {
		return Const(value)
	}
	n := 0
	for _, v := range operands {
		if v.tape != nil {
			n++
		}
	}
	off := t.reserve(n)
	k := off
	for i, v := range operands {
		if v.tape == nil {
			continue
		}
		t.operands[k] = v.idx
		t.partials[k] = partials[i]
		k++
	}
	return t.pushNaryRange(value, off, n)
}

// AddAdjoint adds d to the adjoint of v. It is a no-op for constants.
// Rules call it from Chain.
func (t *Tape) AddAdjoint(v Var, d float64) {
	if v.tape == nil {
		return
	}
	t.nodes[v.idx].adj += d
}

// Adjoint returns the adjoint of v accumulated by the last traversal.
// Constants have no adjoint and read 0.
func (t *Tape) Adjoint(v Var) float64 {
	if v.tape == nil {
		return 0
	}
	t.check(v)
	return t.nodes[v.idx].adj
}

// tapeOf returns the tape shared by the non-constant vars, or nil if all
// of them are constants.
func tapeOf(vars ...Var) (*Tape, error) {
	var t *Tape
	for _, v := range vars {
		if v.tape == nil {
			continue
		}
		if t == nil {
			t = v.tape
		}
		if err := t.validate(v); err != nil {
			return nil, err
		}
	}
	return t, nil
}
