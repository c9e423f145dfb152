package prob

import (
	"math"

	"github.com/abikoushi/stan/internal/agrad"
)

// negHalfLogTwoPi is -log(2π)/2.
var negHalfLogTwoPi = -0.5 * math.Log(2*math.Pi)

// NormalLog returns Σ_n log N(y_n | μ_n, σ_n), with
//
//	log N(y | μ, σ) = -log(2π)/2 - log σ - (y - μ)²/(2σ²)
//
// Partials, with z = (y - μ)/σ:
//
//	∂/∂y = -z/σ
//	∂/∂μ = z/σ
//	∂/∂σ = (z² - 1)/σ
func NormalLog(y, mu, sigma agrad.Operand, propto bool) (agrad.Var, error) {
	const fn = "NormalLog"
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
		invSigma := 1 / s
		z := (y.At(n) - mu.At(n)) * invSigma

		if !propto {
			logp += negHalfLogTwoPi
		}
		if includeLogSigma {
			logp -= math.Log(s)
		}
		logp -= 0.5 * z * z

		dy.Add(n, -z*invSigma)
		dmu.Add(n, z*invSigma)
		if dsigma.Live() {
			dsigma.Add(n, (z*z-1)*invSigma)
		}
	}
	return op.ToVar(logp), nil
}
