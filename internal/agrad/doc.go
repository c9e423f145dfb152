// Package agrad implements reverse-mode automatic differentiation over
// scalar float64 values.
//
// Architecture:
//   - Tape: arena of nodes for one evaluation, reset in bulk
//   - Var: copyable handle to a node; constants are Vars without a tape
//   - Operators: each one records a node with its value and local partials
//   - Grad/Jacobian: one reverse sweep over the tape per output
//   - OperandsAndPartials: fused single-node builder for vectorized densities
//
// Operations whose operands are all constants return constants and never
// touch a tape, so data-only sub-expressions cost nothing beyond the
// arithmetic itself.
//
// Usage:
//
//	tape := agrad.NewTape()
//	x := tape.NewVar(2)
//	y := tape.NewVar(3)
//	f := x.Mul(y).Add(agrad.Sin(x)) // f = x*y + sin(x)
//
//	grad, _ := tape.Grad(f, []agrad.Var{x, y})
//	fmt.Println(grad) // [y + cos(x), x] = [2.5838..., 2]
//
//	tape.Reset() // before the next, independent evaluation
package agrad
