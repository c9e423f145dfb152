package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/abikoushi/stan/internal/agrad"
)

// Matrix is a dense row-major matrix of Vars. Vectors are matrices with
// one column (or one row).
//
// A Matrix only holds handles; its nodes live on the tape of its
// elements. Entries may mix constants and variables.
type Matrix struct {
	rows, cols int
	data       []agrad.Var
}

// New returns a rows×cols matrix of constant zeros.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix: negative dimension %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]agrad.Var, rows*cols)}
}

// FromVars wraps vars, laid out row-major, as a rows×cols matrix. The
// slice is used directly, not copied.
func FromVars(rows, cols int, vars []agrad.Var) (*Matrix, error) {
	if rows < 0 || cols < 0 || len(vars) != rows*cols {
		return nil, fmt.Errorf("FromVars: %d values for %dx%d: %w", len(vars), rows, cols, agrad.ErrDimensionMismatch)
	}
	return &Matrix{rows: rows, cols: cols, data: vars}, nil
}

// Vec returns vars as a column vector.
func Vec(vars []agrad.Var) *Matrix {
	return &Matrix{rows: len(vars), cols: 1, data: vars}
}

// ToVar records every entry of a as an independent variable on t.
func ToVar(t *agrad.Tape, a mat.Matrix) *Matrix {
	r, c := a.Dims()
	m := New(r, c)
	for i := range r {
		for j := range c {
			m.data[i*c+j] = t.NewVar(a.At(i, j))
		}
	}
	return m
}

// Const wraps every entry of a as a constant.
func Const(a mat.Matrix) *Matrix {
	r, c := a.Dims()
	m := New(r, c)
	for i := range r {
		for j := range c {
			m.data[i*c+j] = agrad.Const(a.At(i, j))
		}
	}
	return m
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (int, int) {
	return m.rows, m.cols
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	return m.cols
}

// Len returns the number of entries.
func (m *Matrix) Len() int {
	return len(m.data)
}

// IsVector reports whether m has a single row or a single column.
func (m *Matrix) IsVector() bool {
	return m.rows == 1 || m.cols == 1
}

// At returns entry (i, j). It panics if the index is out of range.
func (m *Matrix) At(i, j int) agrad.Var {
	m.checkIndex(i, j)
	return m.data[i*m.cols+j]
}

// Set replaces entry (i, j).
func (m *Matrix) Set(i, j int, v agrad.Var) {
	m.checkIndex(i, j)
	m.data[i*m.cols+j] = v
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []agrad.Var {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("matrix: row %d out of range for %dx%d", i, m.rows, m.cols))
	}
	return append([]agrad.Var(nil), m.data[i*m.cols:(i+1)*m.cols]...)
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []agrad.Var {
	if j < 0 || j >= m.cols {
		panic(fmt.Sprintf("matrix: column %d out of range for %dx%d", j, m.rows, m.cols))
	}
	col := make([]agrad.Var, m.rows)
	for i := range m.rows {
		col[i] = m.data[i*m.cols+j]
	}
	return col
}

// Vars returns the entries in row-major order. The slice is shared with m.
func (m *Matrix) Vars() []agrad.Var {
	return m.data
}

// Values returns the forward values in row-major order.
func (m *Matrix) Values() []float64 {
	return agrad.Values(m.data)
}

// Dense returns the forward values as a gonum matrix. It returns nil for
// an empty matrix, which gonum cannot represent.
func (m *Matrix) Dense() *mat.Dense {
	if len(m.data) == 0 {
		return nil
	}
	return mat.NewDense(m.rows, m.cols, m.Values())
}

// IsConstant reports whether no entry of m is differentiable.
func (m *Matrix) IsConstant() bool {
	for _, v := range m.data {
		if !v.IsConstant() {
			return false
		}
	}
	return true
}

func (m *Matrix) checkIndex(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d, %d) out of range for %dx%d", i, j, m.rows, m.cols))
	}
}

// sameShape returns an ErrDimensionMismatch naming op if a and b differ in
// shape.
func sameShape(op string, a, b *Matrix) error {
	if a.rows != b.rows || a.cols != b.cols {
		return fmt.Errorf("%s: %dx%d and %dx%d: %w", op, a.rows, a.cols, b.rows, b.cols, agrad.ErrDimensionMismatch)
	}
	return nil
}

func square(op string, a *Matrix) error {
	if a.rows != a.cols {
		return fmt.Errorf("%s: %dx%d: %w", op, a.rows, a.cols, agrad.ErrNotSquare)
	}
	return nil
}

func vector(op string, a *Matrix) error {
	if !a.IsVector() {
		return fmt.Errorf("%s: %dx%d is not a vector: %w", op, a.rows, a.cols, agrad.ErrDimensionMismatch)
	}
	return nil
}

// clone copies handles for rules, which must not see later Set calls.
func clone(vars []agrad.Var) []agrad.Var {
	return append([]agrad.Var(nil), vars...)
}
