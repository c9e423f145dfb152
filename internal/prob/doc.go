// Package prob implements log densities and distribution functions over
// agrad variables.
//
// The vectorized densities accept scalar or vector arguments through
// agrad.Operand and record at most one node per call, however many
// elements they sum over. With propto set, terms that do not depend on
// any differentiable argument are dropped; a call whose arguments are all
// constant then returns 0 without computing anything.
package prob
