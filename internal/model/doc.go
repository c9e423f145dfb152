// Package model is the sampler-facing side of the AD engine.
//
// A model is a LogDensity written against agrad. An Evaluator runs it on
// plain float64 parameters, resetting its private tape around every
// call, and hands back values and gradients as float64 slices:
//
//	eval := model.NewEvaluator(func(theta []agrad.Var) (agrad.Var, error) {
//		return prob.NormalLog(agrad.Vector(theta), agrad.ConstScalar(0), agrad.ConstScalar(1), true)
//	})
//	lp, grad, err := eval.Gradient([]float64{0.5, -1})
//
// Evaluations that fail, overflow the tape or produce a non-finite log
// density return an error and leave the evaluator ready for the next call.
package model
