package prob

import (
	"errors"
	"fmt"
	"math"

	"github.com/abikoushi/stan/internal/agrad"
)

// ErrDomain reports an argument outside the support of a distribution.
var ErrDomain = errors.New("argument out of domain")

// checkFinite rejects NaN and infinite elements of o.
func checkFinite(fn, name string, o agrad.Operand) error {
	for n := range o.Len() {
		if x := o.At(n); math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s: %s[%d] is %v: %w", fn, name, n, x, ErrDomain)
		}
	}
	return nil
}

// checkPositive rejects elements of o that are not strictly positive.
func checkPositive(fn, name string, o agrad.Operand) error {
	for n := range o.Len() {
		if x := o.At(n); !(x > 0) {
			return fmt.Errorf("%s: %s[%d] is %v: %w", fn, name, n, x, ErrDomain)
		}
	}
	return nil
}

// checkLocationScale runs the argument checks shared by location-scale
// families.
func checkLocationScale(fn string, y, mu, sigma agrad.Operand) error {
	if err := checkFinite(fn, "random variable", y); err != nil {
		return err
	}
	if err := checkFinite(fn, "location parameter", mu); err != nil {
		return err
	}
	if err := checkFinite(fn, "scale parameter", sigma); err != nil {
		return err
	}
	if err := checkPositive(fn, "scale parameter", sigma); err != nil {
		return err
	}
	if err := agrad.CheckConsistentSizes(y, mu, sigma); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	return nil
}

// empty reports whether any argument is a zero-length vector. The log
// density of no observations is 0.
func empty(ops ...agrad.Operand) bool {
	return agrad.MaxSize(ops...) == 0
}

// allConstant reports whether no argument is differentiable.
func allConstant(ops ...agrad.Operand) bool {
	for _, o := range ops {
		if !o.IsConstant() {
			return false
		}
	}
	return true
}
