package agrad

import "errors"

// Grad computes the gradient of out with respect to inputs.
//
// Algorithm:
//  1. Zero every adjoint on the tape
//  2. Seed the adjoint of out with 1
//  3. Walk the nodes in reverse creation order, running each backward rule once
//  4. Read the adjoint of every input
//
// Operands are always created before the nodes that use them, so when a
// node's rule runs all of its consumers have already contributed to its
// adjoint. No graph search is needed.
//
// Constant inputs read 0. A constant out yields a zero gradient.
func (t *Tape) Grad(out Var, inputs []Var) ([]float64, error) {
	if err := t.validateAll(out, inputs); err != nil {
		return nil, Errorf("Grad", err)
	}
	grad := make([]float64, len(inputs))
	t.zeroAdjoints()
	if out.tape == nil {
		return grad, nil
	}
	t.backward(out)
	for i, in := range inputs {
		if in.tape != nil {
			grad[i] = t.nodes[in.idx].adj
		}
	}
	return grad, nil
}

// Jacobian computes one gradient row per output, re-running the reverse
// sweep over the same tape for each row. The forward graph is not rebuilt.
func (t *Tape) Jacobian(outs, inputs []Var) ([][]float64, error) {
	for _, out := range outs {
		if err := t.validateAll(out, inputs); err != nil {
			return nil, Errorf("Jacobian", err)
		}
	}
	jac := make([][]float64, len(outs))
	for k, out := range outs {
		row, err := t.Grad(out, inputs)
		if err != nil {
			return nil, err
		}
		jac[k] = row
	}
	return jac, nil
}

// Backward seeds out with 1 and runs the reverse sweep, adding the result
// to the adjoints left by earlier calls. Two calls on the same output
// leave twice the gradient. Most callers want Grad.
func (t *Tape) Backward(out Var) {
	t.check(out)
	if out.tape == nil {
		return
	}
	t.saved = t.saved[:0]
	for i := range t.nodes {
		t.saved = append(t.saved, t.nodes[i].adj)
	}
	t.zeroAdjoints()
	t.backward(out)
	for i, a := range t.saved {
		t.nodes[i].adj += a
	}
}

func (t *Tape) zeroAdjoints() {
	for i := range t.nodes {
		t.nodes[i].adj = 0
	}
}

// backward runs the reverse sweep from out. Nodes created after out cannot
// contribute to its adjoint, so the sweep starts at out.
func (t *Tape) backward(out Var) {
	t.nodes[out.idx].adj += 1
	for i := int(out.idx); i >= 0; i-- {
		n := &t.nodes[i]
		if n.kind == kindRule {
			t.chainRule(i, n)
			continue
		}
		// Nodes off the path to out keep a zero adjoint; skipping them also
		// keeps an infinite partial there from turning into 0*Inf = NaN.
		if n.adj == 0 {
			continue
		}
		switch n.kind {
		case kindUnary:
			t.nodes[n.a].adj += n.adj * n.da
		case kindBinary:
			t.nodes[n.a].adj += n.adj * n.da
			t.nodes[n.b].adj += n.adj * n.db
		case kindNary:
			end := int(n.a) + int(n.b)
			for k := int(n.a); k < end; k++ {
				if j := t.operands[k]; j >= 0 {
					t.nodes[j].adj += n.adj * t.partials[k]
				}
			}
		}
	}
}

// chainRule hands the adjoints of the outputs following the rule node at
// position i to the rule.
func (t *Tape) chainRule(i int, n *node) {
	cnt := int(n.b)
	t.outAdj = t.outAdj[:0]
	live := false
	for k := i + 1; k <= i+cnt; k++ {
		a := t.nodes[k].adj
		if a != 0 {
			live = true
		}
		t.outAdj = append(t.outAdj, a)
	}
	if !live {
		return
	}
	t.rules[n.a].Chain(t, t.outAdj)
}

func (t *Tape) validateAll(out Var, inputs []Var) error {
	if err := t.validate(out); err != nil {
		return err
	}
	for _, in := range inputs {
		if err := t.validate(in); err != nil {
			return err
		}
	}
	return nil
}

// Run calls fn and converts a tape-exhaustion panic into an error. Any
// other panic is re-raised.
func Run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var ex *ExhaustedError
			if e, ok := r.(error); ok && errors.As(e, &ex) {
				err = ex
				return
			}
			panic(r)
		}
	}()
	return fn()
}
