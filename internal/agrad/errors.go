package agrad

import (
	"errors"
	"fmt"
)

// Shape errors. Operations return these before touching the tape, so a
// failed operation never leaves partial graph state behind.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrNotSquare         = errors.New("matrix is not square")
	ErrZeroSize          = errors.New("zero-size argument")
	ErrIndexRange        = errors.New("index out of range")
)

// Domain errors for decompositions whose factorization does not exist.
var (
	ErrNotSymmetric        = errors.New("matrix is not symmetric")
	ErrNotPositiveDefinite = errors.New("matrix is not positive definite")
	ErrComplexEigenvalues  = errors.New("matrix has complex eigenvalues")
	ErrNoConvergence       = errors.New("decomposition did not converge")
)

// Handle misuse.
var (
	ErrStaleVar   = errors.New("variable belongs to a previous tape generation")
	ErrForeignVar = errors.New("variable belongs to a different tape")
)

// ErrTapeExhausted is wrapped by ExhaustedError.
var ErrTapeExhausted = errors.New("tape capacity exhausted")

// ExhaustedError is raised (as a panic value) when a fixed-capacity tape
// runs out of room. Run converts it into an ordinary error.
type ExhaustedError struct {
	Max int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%v: limit is %d nodes", ErrTapeExhausted, e.Max)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrTapeExhausted
}

// Errorf tags err with the name of the operation that produced it.
func Errorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
