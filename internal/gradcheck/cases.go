package gradcheck

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/abikoushi/stan/internal/agrad"
	"github.com/abikoushi/stan/internal/agrad/matrix"
	"github.com/abikoushi/stan/internal/model"
	"github.com/abikoushi/stan/internal/prob"
)

// ErrUnknownCase is returned by Lookup for a name with no registered case.
var ErrUnknownCase = errors.New("unknown case")

// Case is a scalar function of Dim parameters checked on the box [Lo, Hi]^Dim.
type Case struct {
	Name   string
	Dim    int
	Lo, Hi float64
	F      model.LogDensity
}

var registry = []Case{
	{Name: "arith", Dim: 4, Lo: 0.5, Hi: 2, F: arith},
	{Name: "pow", Dim: 2, Lo: 0.5, Hi: 2, F: func(x []agrad.Var) (agrad.Var, error) {
		return agrad.Pow(x[0], x[1]), nil
	}},
	{Name: "hypot_atan2", Dim: 2, Lo: -2, Hi: 2, F: func(x []agrad.Var) (agrad.Var, error) {
		return agrad.Hypot(x[0], x[1]).Add(agrad.Atan2(x[0], x[1].AddFloat(5))), nil
	}},
	{Name: "exp_log", Dim: 3, Lo: 0.5, Hi: 2, F: expLog},
	{Name: "trig", Dim: 3, Lo: 0.1, Hi: 2, F: trig},
	{Name: "hyperbolic", Dim: 3, Lo: 0.1, Hi: 2, F: hyperbolic},
	{Name: "special", Dim: 3, Lo: 0.5, Hi: 2, F: special},
	{Name: "determinant", Dim: 9, Lo: -1, Hi: 1, F: func(x []agrad.Var) (agrad.Var, error) {
		a, err := matrix.FromVars(3, 3, x)
		if err != nil {
			return agrad.Var{}, err
		}
		return matrix.Determinant(a)
	}},
	{Name: "inverse", Dim: 9, Lo: -1, Hi: 1, F: func(x []agrad.Var) (agrad.Var, error) {
		a, err := shifted(3, x)
		if err != nil {
			return agrad.Var{}, err
		}
		inv, err := matrix.Inverse(a)
		if err != nil {
			return agrad.Var{}, err
		}
		return weighted(inv), nil
	}},
	{Name: "mdivide_left", Dim: 12, Lo: -1, Hi: 1, F: func(x []agrad.Var) (agrad.Var, error) {
		a, err := shifted(3, x[:9])
		if err != nil {
			return agrad.Var{}, err
		}
		sol, err := matrix.MdivideLeft(a, matrix.Vec(x[9:]))
		if err != nil {
			return agrad.Var{}, err
		}
		return weighted(sol), nil
	}},
	{Name: "mdivide_left_tri", Dim: 12, Lo: -1, Hi: 1, F: func(x []agrad.Var) (agrad.Var, error) {
		l, err := shifted(3, x[:9])
		if err != nil {
			return agrad.Var{}, err
		}
		sol, err := matrix.MdivideLeftTri(l, matrix.Vec(x[9:]), matrix.Lower)
		if err != nil {
			return agrad.Var{}, err
		}
		return weighted(sol), nil
	}},
	{Name: "cholesky", Dim: 9, Lo: -1, Hi: 1, F: func(x []agrad.Var) (agrad.Var, error) {
		b, err := matrix.FromVars(3, 3, x)
		if err != nil {
			return agrad.Var{}, err
		}
		a, err := matrix.Add(matrix.Tcrossprod(b), diag(3, 3))
		if err != nil {
			return agrad.Var{}, err
		}
		l, err := matrix.CholeskyDecompose(a)
		if err != nil {
			return agrad.Var{}, err
		}
		return weighted(l), nil
	}},
	{Name: "eigenvalues_sym", Dim: 9, Lo: -1, Hi: 1, F: func(x []agrad.Var) (agrad.Var, error) {
		b, err := matrix.FromVars(3, 3, x)
		if err != nil {
			return agrad.Var{}, err
		}
		a, err := matrix.Add(b, matrix.Transpose(b))
		if err != nil {
			return agrad.Var{}, err
		}
		lambda, err := matrix.EigenvaluesSym(a)
		if err != nil {
			return agrad.Var{}, err
		}
		return weighted(lambda), nil
	}},
	{Name: "lower_tri_self_transpose", Dim: 9, Lo: -1, Hi: 1, F: func(x []agrad.Var) (agrad.Var, error) {
		l, err := matrix.FromVars(3, 3, x)
		if err != nil {
			return agrad.Var{}, err
		}
		return weighted(matrix.MultiplyLowerTriSelfTranspose(l)), nil
	}},
	{Name: "softmax", Dim: 4, Lo: -2, Hi: 2, F: func(x []agrad.Var) (agrad.Var, error) {
		s, err := matrix.Softmax(matrix.Vec(x))
		if err != nil {
			return agrad.Var{}, err
		}
		return weighted(s), nil
	}},
	{Name: "variance_sd", Dim: 5, Lo: -2, Hi: 2, F: func(x []agrad.Var) (agrad.Var, error) {
		v, err := matrix.Variance(matrix.Vec(x))
		if err != nil {
			return agrad.Var{}, err
		}
		sd, err := matrix.Sd(matrix.Vec(x))
		if err != nil {
			return agrad.Var{}, err
		}
		return v.Add(sd), nil
	}},
	{Name: "normal_log", Dim: 3, Lo: 0.5, Hi: 2, F: func(x []agrad.Var) (agrad.Var, error) {
		return prob.NormalLog(agrad.Scalar(x[0]), agrad.Scalar(x[1]), agrad.Scalar(x[2]), false)
	}},
	{Name: "double_exponential_log", Dim: 3, Lo: 0.5, Hi: 2, F: func(x []agrad.Var) (agrad.Var, error) {
		return prob.DoubleExponentialLog(agrad.Scalar(x[0]), agrad.Scalar(x[1]), agrad.Scalar(x[2]), false)
	}},
	{Name: "double_exponential_cdf", Dim: 3, Lo: 0.5, Hi: 2, F: func(x []agrad.Var) (agrad.Var, error) {
		return prob.DoubleExponentialCDF(x[0], x[1], x[2])
	}},
}

// Cases returns every registered case in registration order.
func Cases() []Case {
	return slices.Clone(registry)
}

// Names returns the names of every registered case.
func Names() []string {
	names := make([]string, len(registry))
	for i, c := range registry {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the cases with the given names, in the order given. No
// names selects every case.
func Lookup(names ...string) ([]Case, error) {
	if len(names) == 0 {
		return Cases(), nil
	}
	cases := make([]Case, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(registry, func(c Case) bool { return c.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCase, name)
		}
		cases = append(cases, registry[i])
	}
	return cases, nil
}

func arith(x []agrad.Var) (agrad.Var, error) {
	y := x[0].Mul(x[1]).Sub(x[2]).Div(x[3])
	return y.Add(x[0].Neg().MulFloat(0.5)).AddFloat(1), nil
}

func expLog(x []agrad.Var) (agrad.Var, error) {
	return agrad.Sum(
		agrad.Exp(x[0]).Mul(agrad.Log(x[1])),
		agrad.Log1pExp(x[2]),
		agrad.Expm1(x[0].Neg()),
		agrad.Log1p(x[1]),
		agrad.Log2(x[2]).Add(agrad.Log10(x[0])),
		agrad.Exp2(x[1]),
	), nil
}

func trig(x []agrad.Var) (agrad.Var, error) {
	return agrad.Sum(
		agrad.Sin(x[0]).Mul(agrad.Cos(x[1])),
		agrad.Tan(x[2].MulFloat(0.5)),
		agrad.Asin(x[0].MulFloat(0.4)),
		agrad.Acos(x[1].MulFloat(0.4)),
		agrad.Atan(x[2]),
	), nil
}

func hyperbolic(x []agrad.Var) (agrad.Var, error) {
	return agrad.Sum(
		agrad.Sinh(x[0]).Mul(agrad.Cosh(x[1])),
		agrad.Tanh(x[2]),
		agrad.Asinh(x[0]),
		agrad.Acosh(x[1].AddFloat(1)),
		agrad.Atanh(x[2].MulFloat(0.4)),
	), nil
}

func special(x []agrad.Var) (agrad.Var, error) {
	return agrad.Sum(
		agrad.Erf(x[0]).Mul(agrad.Erfc(x[1])),
		agrad.Phi(x[2]),
		agrad.Lgamma(x[0]),
		agrad.Tgamma(x[1]),
		agrad.InvLogit(x[2]),
		agrad.Logit(x[0].MulFloat(0.4)),
		agrad.Sqrt(x[1]).Add(agrad.Cbrt(x[2])),
		agrad.Square(x[0]),
	), nil
}

// weighted reduces m to a scalar with distinct weights so every entry
// contributes to the gradient.
func weighted(m *matrix.Matrix) agrad.Var {
	terms := make([]agrad.Var, m.Len())
	for k, v := range m.Vars() {
		terms[k] = v.MulFloat(0.3*float64(k) - 1)
	}
	return agrad.Sum(terms...)
}

func diag(n int, d float64) *matrix.Matrix {
	v := make([]float64, n)
	for i := range v {
		v[i] = d
	}
	return matrix.Const(mat.NewDiagDense(n, v))
}

// shifted returns the n×n matrix x + nI, which is well conditioned for
// entries in [-1, 1].
func shifted(n int, x []agrad.Var) (*matrix.Matrix, error) {
	a, err := matrix.FromVars(n, n, x)
	if err != nil {
		return nil, err
	}
	return matrix.Add(a, diag(n, float64(n)))
}
