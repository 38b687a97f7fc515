// Package exponential implements the closed-form relaxation curve models and
// their analytic first and second derivatives.
//
// Three model families are provided:
//
//   - Decay: I(t) = I0 * exp(-R * t)
//   - Inversion: I(t) = I0 - Iinf * exp(-R * t) (offset decay, inversion recovery)
//   - Saturation: I(t) = Iinf * (1 - exp(-R * t)) (saturation recovery)
//
// Every model can back-calculate its curve, write the derivative of the curve
// with respect to one parameter into one row of a buffer.Gradient, and write
// the second derivative with respect to a parameter pair into one plane of a
// buffer.Hessian. Rows and planes are addressed by buffer.Slot values chosen
// by the caller, so several model instances can share the buffers of one
// global fit.
//
// # Usage
//
//	m := &exponential.Decay{I0: 100, R: 2}
//	curve := make([]float64, len(times))
//	if err := m.Evaluate(times, curve); err != nil {
//	    return err
//	}
//
//	grad, _ := buffer.NewGradient(2, len(times))
//	_ = m.DI0(0, times, grad)
//	_ = m.DR(1, times, grad)
//
// The generic Model interface exposes the same operations keyed by Param, for
// drivers that pick the model once per fit:
//
//	m, err := exponential.NewFromName("inv", []float64{50, 80, 1})
//	err = m.Hessian(exponential.ParamR, exponential.ParamIinf, 2, 1, times, hess)
//
// # Numerical behaviour
//
// A rate of exactly zero takes an explicit branch in which the decay factor is
// 1 and R*t is never formed. Other floating-point extremes follow IEEE
// semantics: large R*t underflows the decay factor to zero and is not an
// error.
//
// Operations never read the buffers they write and never allocate. They are
// safe for concurrent use on disjoint buffers or disjoint slots.
package exponential
