// Package matrix provides dense matrices of agrad variables and the
// matrix-calculus operations used by model densities.
//
// Cheap element-wise operations are built from the scalar operators.
// Reductions and products record one n-ary node per result entry.
// Decompositions and solves (Inverse, CholeskyDecompose, the Mdivide
// family, Softmax) factorize once in the forward pass and register a
// closed-form backward rule with agrad.NewRule; determinants and
// eigenvalues record their exact partials directly.
//
// Shape errors are returned before anything is recorded. Numeric
// degeneracy such as a singular matrix is not an error: Inf and NaN flow
// through values and adjoints.
package matrix
