// Copyright 2025 The agrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package agrad

import (
	"github.com/abikoushi/stan/internal/agrad"
)

// Scalar operators. Each records one node unless every argument is a
// constant, in which case the result is a constant.

// Square returns x².
func Square(x Var) Var {
	return agrad.Square(x)
}

// Sqrt returns √x.
func Sqrt(x Var) Var {
	return agrad.Sqrt(x)
}

// Cbrt returns ∛x.
func Cbrt(x Var) Var {
	return agrad.Cbrt(x)
}

// Exp returns eˣ.
func Exp(x Var) Var {
	return agrad.Exp(x)
}

// Exp2 returns 2ˣ.
func Exp2(x Var) Var {
	return agrad.Exp2(x)
}

// Expm1 returns eˣ - 1.
func Expm1(x Var) Var {
	return agrad.Expm1(x)
}

// Log returns the natural logarithm of x.
func Log(x Var) Var {
	return agrad.Log(x)
}

// Log2 returns the base-2 logarithm of x.
func Log2(x Var) Var {
	return agrad.Log2(x)
}

// Log10 returns the base-10 logarithm of x.
func Log10(x Var) Var {
	return agrad.Log10(x)
}

// Log1p returns log(1 + x).
func Log1p(x Var) Var {
	return agrad.Log1p(x)
}

// Log1pExp returns log(1 + eˣ).
func Log1pExp(x Var) Var {
	return agrad.Log1pExp(x)
}

// Logit returns log(x / (1 - x)).
func Logit(x Var) Var {
	return agrad.Logit(x)
}

// InvLogit returns 1 / (1 + e⁻ˣ).
func InvLogit(x Var) Var {
	return agrad.InvLogit(x)
}

// Pow returns xʸ.
func Pow(x, y Var) Var {
	return agrad.Pow(x, y)
}

// Hypot returns √(x² + y²).
func Hypot(x, y Var) Var {
	return agrad.Hypot(x, y)
}

// Abs returns |x|, with a zero derivative at 0.
func Abs(x Var) Var {
	return agrad.Abs(x)
}

// Fmax returns the larger of a and b. NaN arguments lose.
func Fmax(a, b Var) Var {
	return agrad.Fmax(a, b)
}

// Fmin returns the smaller of a and b. NaN arguments lose.
func Fmin(a, b Var) Var {
	return agrad.Fmin(a, b)
}

// Fdim returns max(a - b, 0).
func Fdim(a, b Var) Var {
	return agrad.Fdim(a, b)
}

// Floor returns ⌊x⌋ as a constant.
func Floor(x Var) Var {
	return agrad.Floor(x)
}

// Ceil returns ⌈x⌉ as a constant.
func Ceil(x Var) Var {
	return agrad.Ceil(x)
}

// Step returns 0 for x < 0 and 1 otherwise, as a constant.
func Step(x Var) Var {
	return agrad.Step(x)
}

// Sin returns sin x.
func Sin(x Var) Var {
	return agrad.Sin(x)
}

// Cos returns cos x.
func Cos(x Var) Var {
	return agrad.Cos(x)
}

// Tan returns tan x.
func Tan(x Var) Var {
	return agrad.Tan(x)
}

// Asin returns asin x.
func Asin(x Var) Var {
	return agrad.Asin(x)
}

// Acos returns acos x.
func Acos(x Var) Var {
	return agrad.Acos(x)
}

// Atan returns atan x.
func Atan(x Var) Var {
	return agrad.Atan(x)
}

// Atan2 returns atan(y/x) in the correct quadrant.
func Atan2(y, x Var) Var {
	return agrad.Atan2(y, x)
}

// Sinh returns sinh x.
func Sinh(x Var) Var {
	return agrad.Sinh(x)
}

// Cosh returns cosh x.
func Cosh(x Var) Var {
	return agrad.Cosh(x)
}

// Tanh returns tanh x.
func Tanh(x Var) Var {
	return agrad.Tanh(x)
}

// Asinh returns asinh x.
func Asinh(x Var) Var {
	return agrad.Asinh(x)
}

// Acosh returns acosh x.
func Acosh(x Var) Var {
	return agrad.Acosh(x)
}

// Atanh returns atanh x.
func Atanh(x Var) Var {
	return agrad.Atanh(x)
}

// Erf returns the error function of x.
func Erf(x Var) Var {
	return agrad.Erf(x)
}

// Erfc returns the complementary error function of x.
func Erfc(x Var) Var {
	return agrad.Erfc(x)
}

// Phi returns the standard normal CDF at x.
func Phi(x Var) Var {
	return agrad.Phi(x)
}

// Lgamma returns log|Γ(x)|.
func Lgamma(x Var) Var {
	return agrad.Lgamma(x)
}

// Tgamma returns Γ(x).
func Tgamma(x Var) Var {
	return agrad.Tgamma(x)
}
