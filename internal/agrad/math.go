package agrad

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// Each function below records one node holding the forward value and the
// local derivative. Constant arguments short-circuit to a constant result.

const (
	sqrtTwo       = math.Sqrt2
	invSqrtTwoPi  = 0.3989422804014327 // 1/sqrt(2π)
	twoOverSqrtPi = 1.1283791670955126 // 2/sqrt(π)
)

// Square returns x².
func Square(x Var) Var {
	if x.tape == nil {
		return Const(x.val * x.val)
	}
	return unary(x, x.val*x.val, 2*x.val)
}

// Sqrt returns √x.
func Sqrt(x Var) Var {
	r := math.Sqrt(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 0.5/r)
}

// Cbrt returns ∛x.
func Cbrt(x Var) Var {
	r := math.Cbrt(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/(3*r*r))
}

// Exp returns eˣ.
func Exp(x Var) Var {
	r := math.Exp(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, r)
}

// Exp2 returns 2ˣ.
func Exp2(x Var) Var {
	r := math.Exp2(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, r*math.Ln2)
}

// Expm1 returns eˣ - 1.
func Expm1(x Var) Var {
	r := math.Expm1(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, r+1)
}

// Log returns the natural logarithm of x.
func Log(x Var) Var {
	r := math.Log(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/x.val)
}

// Log2 returns the binary logarithm of x.
func Log2(x Var) Var {
	r := math.Log2(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/(x.val*math.Ln2))
}

// Log10 returns the decimal logarithm of x.
func Log10(x Var) Var {
	r := math.Log10(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/(x.val*math.Ln10))
}

// Log1p returns log(1 + x).
func Log1p(x Var) Var {
	r := math.Log1p(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/(1+x.val))
}

// Log1pExp returns log(1 + eˣ) without overflow for large x.
func Log1pExp(x Var) Var {
	var r float64
	if x.val > 0 {
		r = x.val + math.Log1p(math.Exp(-x.val))
	} else {
		r = math.Log1p(math.Exp(x.val))
	}
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, invLogit(x.val))
}

// Logit returns log(x / (1 - x)).
func Logit(x Var) Var {
	r := math.Log(x.val / (1 - x.val))
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/(x.val*(1-x.val)))
}

// InvLogit returns 1 / (1 + e⁻ˣ).
func InvLogit(x Var) Var {
	r := invLogit(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, r*(1-r))
}

func invLogit(x float64) float64 {
	if x < 0 {
		e := math.Exp(x)
		return e / (1 + e)
	}
	return 1 / (1 + math.Exp(-x))
}

// Pow returns xʸ. The partial with respect to y is taken as 0 at x = 0.
func Pow(x, y Var) Var {
	r := math.Pow(x.val, y.val)
	if x.tape == nil && y.tape == nil {
		return Const(r)
	}
	dx := y.val * math.Pow(x.val, y.val-1)
	dy := 0.0
	if x.val != 0 {
		dy = r * math.Log(x.val)
	}
	return binary(x, y, r, dx, dy)
}

// Hypot returns √(x² + y²).
func Hypot(x, y Var) Var {
	r := math.Hypot(x.val, y.val)
	return binary(x, y, r, x.val/r, y.val/r)
}

// Abs returns |x|. The derivative at 0 is taken as 0.
func Abs(x Var) Var {
	if x.tape == nil {
		return Const(math.Abs(x.val))
	}
	switch {
	case x.val > 0:
		return x
	case x.val < 0:
		return unary(x, -x.val, -1)
	case x.val == 0:
		return unary(x, 0, 0)
	}
	return unary(x, math.NaN(), math.NaN())
}

// Fmax returns the larger of a and b. If one argument is NaN the other is
// returned; ties go to a.
func Fmax(a, b Var) Var {
	switch {
	case math.IsNaN(a.val):
		return b
	case math.IsNaN(b.val):
		return a
	case b.val > a.val:
		return b
	}
	return a
}

// Fmin returns the smaller of a and b. If one argument is NaN the other is
// returned; ties go to a.
func Fmin(a, b Var) Var {
	switch {
	case math.IsNaN(a.val):
		return b
	case math.IsNaN(b.val):
		return a
	case b.val < a.val:
		return b
	}
	return a
}

// Fdim returns max(a - b, 0).
func Fdim(a, b Var) Var {
	if a.val > b.val {
		return a.Sub(b)
	}
	if math.IsNaN(a.val) || math.IsNaN(b.val) {
		return binary(a, b, math.NaN(), math.NaN(), math.NaN())
	}
	return Const(0)
}

// Floor returns ⌊x⌋. Its derivative is zero wherever it exists, so the
// result is a constant.
func Floor(x Var) Var {
	return Const(math.Floor(x.val))
}

// Ceil returns ⌈x⌉ as a constant.
func Ceil(x Var) Var {
	return Const(math.Ceil(x.val))
}

// Step returns 0 for x < 0 and 1 otherwise, as a constant.
func Step(x Var) Var {
	if x.val < 0 {
		return Const(0)
	}
	return Const(1)
}

// Sin returns sin(x).
func Sin(x Var) Var {
	if x.tape == nil {
		return Const(math.Sin(x.val))
	}
	s, c := math.Sincos(x.val)
	return unary(x, s, c)
}

// Cos returns cos(x).
func Cos(x Var) Var {
	if x.tape == nil {
		return Const(math.Cos(x.val))
	}
	s, c := math.Sincos(x.val)
	return unary(x, c, -s)
}

// Tan returns tan(x).
func Tan(x Var) Var {
	r := math.Tan(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1+r*r)
}

// Asin returns arcsin(x).
func Asin(x Var) Var {
	r := math.Asin(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/math.Sqrt(1-x.val*x.val))
}

// Acos returns arccos(x).
func Acos(x Var) Var {
	r := math.Acos(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, -1/math.Sqrt(1-x.val*x.val))
}

// Atan returns arctan(x).
func Atan(x Var) Var {
	r := math.Atan(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/(1+x.val*x.val))
}

// Atan2 returns the angle of the point (x, y).
func Atan2(y, x Var) Var {
	r := math.Atan2(y.val, x.val)
	d := x.val*x.val + y.val*y.val
	return binary(y, x, r, x.val/d, -y.val/d)
}

// Sinh returns sinh(x).
func Sinh(x Var) Var {
	r := math.Sinh(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, math.Cosh(x.val))
}

// Cosh returns cosh(x).
func Cosh(x Var) Var {
	r := math.Cosh(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, math.Sinh(x.val))
}

// Tanh returns tanh(x).
func Tanh(x Var) Var {
	r := math.Tanh(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1-r*r)
}

// Asinh returns arsinh(x).
func Asinh(x Var) Var {
	r := math.Asinh(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/math.Sqrt(x.val*x.val+1))
}

// Acosh returns arcosh(x).
func Acosh(x Var) Var {
	r := math.Acosh(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/math.Sqrt(x.val*x.val-1))
}

// Atanh returns artanh(x).
func Atanh(x Var) Var {
	r := math.Atanh(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, 1/(1-x.val*x.val))
}

// Erf returns the error function of x.
func Erf(x Var) Var {
	r := math.Erf(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, twoOverSqrtPi*math.Exp(-x.val*x.val))
}

// Erfc returns the complementary error function of x.
func Erfc(x Var) Var {
	r := math.Erfc(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, -twoOverSqrtPi*math.Exp(-x.val*x.val))
}

// Phi returns the standard normal cumulative distribution function.
func Phi(x Var) Var {
	r := 0.5 * math.Erfc(-x.val/sqrtTwo)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, invSqrtTwoPi*math.Exp(-0.5*x.val*x.val))
}

// Lgamma returns log|Γ(x)|.
func Lgamma(x Var) Var {
	r, _ := math.Lgamma(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, mathext.Digamma(x.val))
}

// Tgamma returns Γ(x).
func Tgamma(x Var) Var {
	r := math.Gamma(x.val)
	if x.tape == nil {
		return Const(r)
	}
	return unary(x, r, r*mathext.Digamma(x.val))
}
