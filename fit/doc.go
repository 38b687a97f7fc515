// Package fit drives the optimisation of relaxation curve models against
// measured series.
//
// Two minimisers are available. MethodLM runs Levenberg-Marquardt on the
// weighted residuals with the analytic Jacobian. MethodNewton runs gonum's
// Newton method on the chi-squared value with the analytic gradient and
// Hessian. Both build on target.Problem, so single-spin fits and global fits
// with shared parameters go through the same code.
//
// # Usage
//
//	data := target.Dataset{Times: times, Values: heights, Errors: errs}
//	x0, err := fit.Guess(exponential.ModelDecay, data)
//	if err != nil {
//	    return err
//	}
//	p, err := target.NewProblem(2, target.Term{
//	    Model: exponential.ModelDecay,
//	    Slots: []buffer.Slot{0, 1},
//	    Data:  data,
//	})
//	if err != nil {
//	    return err
//	}
//	res, err := fit.Run(p, x0, fit.WithMethod(fit.MethodNewton))
//
// Independent spins can be fitted concurrently with Batch.
package fit
