package prob

import (
	"math"

	"github.com/abikoushi/stan/internal/agrad"
)

// DoubleExponentialLog returns Σ_n log DoubleExponential(y_n | μ_n, σ_n),
// the Laplace log density
//
//	log f(y | μ, σ) = -log 2 - log σ - |y - μ|/σ
//
// Partials:
//
//	∂/∂y = -sign(y - μ)/σ
//	∂/∂μ = sign(y - μ)/σ
//	∂/∂σ = -1/σ + |y - μ|/σ²
//
// At y = μ the partials with respect to y and μ are 0.
func DoubleExponentialLog(y, mu, sigma agrad.Operand, propto bool) (agrad.Var, error) {
	const fn = "DoubleExponentialLog"
	if empty(y, mu, sigma) {
		return agrad.Const(0), nil
	}
	if err := checkLocationScale(fn, y, mu, sigma); err != nil {
		return agrad.Var{}, err
	}
	if propto && allConstant(y, mu, sigma) {
		return agrad.Const(0), nil
	}

	op, err := agrad.NewOperandsAndPartials(y, mu, sigma)
	if err != nil {
		return agrad.Var{}, err
	}
	dy, dmu, dsigma := op.D(0), op.D(1), op.D(2)
	includeLogSigma := !propto || !sigma.IsConstant()

	logp := 0.0
	for n := range agrad.MaxSize(y, mu, sigma) {
		s := sigma.At(n)
		diff := y.At(n) - mu.At(n)
		absDiff := math.Abs(diff)
		invSigma := 1 / s

		if !propto {
			logp -= math.Ln2
		}
		if includeLogSigma {
			logp -= math.Log(s)
		}
		logp -= absDiff * invSigma

		switch {
		case diff > 0:
			dy.Add(n, -invSigma)
			dmu.Add(n, invSigma)
		case diff < 0:
			dy.Add(n, invSigma)
			dmu.Add(n, -invSigma)
		}
		dsigma.Add(n, -invSigma+absDiff*invSigma*invSigma)
	}
	return op.ToVar(logp), nil
}

// DoubleExponentialCDF returns P(Y ≤ y) for Y ~ DoubleExponential(μ, σ):
//
//	exp((y - μ)/σ)/2       if y < μ
//	1 - exp((μ - y)/σ)/2   otherwise
func DoubleExponentialCDF(y, mu, sigma agrad.Var) (agrad.Var, error) {
	const fn = "DoubleExponentialCDF"
	ys, mus, sigmas := agrad.Scalar(y), agrad.Scalar(mu), agrad.Scalar(sigma)
	if err := checkLocationScale(fn, ys, mus, sigmas); err != nil {
		return agrad.Var{}, err
	}
	if y.Less(mu) {
		return agrad.Exp(y.Sub(mu).Div(sigma)).MulFloat(0.5), nil
	}
	return agrad.Exp(mu.Sub(y).Div(sigma)).MulFloat(-0.5).AddFloat(1), nil
}
