package fit

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/maorshutman/lm"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/internal/options"
	"github.com/arloliu/relaxfit/target"
)

// lmTau scales the initial Levenberg-Marquardt damping.
const lmTau = 1e-3

// Result is the outcome of one minimisation.
type Result struct {
	// Method is the minimiser that produced the result.
	Method Method
	// Params is the optimised global parameter vector.
	Params []float64
	// Chi2 is the chi-squared value at Params.
	Chi2 float64
	// Iterations is the number of accepted major iterations.
	Iterations int
	// Status is the termination status reported by the minimiser.
	Status string
	// Converged is false when the iteration limit was reached.
	Converged bool
}

// String returns a one-line summary of the result.
func (r *Result) String() string {
	return fmt.Sprintf("Result{Method: %s, Params: %.6g, Chi2: %.6g, Iterations: %d, Status: %s}",
		r.Method, r.Params, r.Chi2, r.Iterations, r.Status)
}

// Run minimises the chi-squared value of p starting from x0.
//
// Parameters:
//   - p: the target function
//   - x0: initial global parameter vector, p.NumParams() long
//   - opts: fit options
//
// Returns:
//   - *Result: the optimised parameters
//   - error: ErrParamCount for a wrong x0, ErrFitFailed when the minimiser
//     breaks down or ends on non-finite parameters
func Run(p *target.Problem, x0 []float64, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, fmt.Errorf("fit.Run: %w", err)
	}
	if len(x0) != p.NumParams() {
		return nil, fmt.Errorf("fit.Run: %d initial values for %d parameters: %w", len(x0), p.NumParams(), errs.ErrParamCount)
	}

	log := cfg.Logger.WithFields(logrus.Fields{
		"method": cfg.Method.String(),
		"params": p.NumParams(),
		"points": p.Size(),
	})
	log.Debugf("starting fit from %.6g", x0)

	var (
		res *Result
		err error
	)
	switch cfg.Method {
	case MethodNewton:
		res, err = runNewton(p, x0, &cfg, log)
	default:
		res, err = runLM(p, x0, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("fit.Run: %w", err)
	}

	if slices.ContainsFunc(res.Params, func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }) {
		return nil, fmt.Errorf("fit.Run: parameters %v: %w", res.Params, errors.Join(errs.ErrFitFailed, errs.ErrNonFinite))
	}
	chi2, err := p.Chi2(res.Params)
	if err != nil {
		return nil, fmt.Errorf("fit.Run: %w", err)
	}
	res.Chi2 = chi2

	if !res.Converged {
		log.Warnf("iteration limit %d reached, chi2 %.6g", cfg.MaxIterations, chi2)
	}
	log.WithField("iterations", res.Iterations).Debugf("finished: %.6g chi2 %.6g", res.Params, chi2)

	return res, nil
}

func runLM(p *target.Problem, x0 []float64, cfg *Config) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("levenberg-marquardt: %v: %w", r, errs.ErrFitFailed)
		}
	}()

	var (
		evalErr  error
		jacCalls int
	)
	problem := lm.LMProblem{
		Dim:  p.NumParams(),
		Size: p.Size(),
		Func: func(dst, x []float64) {
			if e := p.Residuals(x, dst); e != nil && evalErr == nil {
				evalErr = e
			}
		},
		Jac: func(dst *mat.Dense, x []float64) {
			jacCalls++
			if e := p.Jacobian(x, dst); e != nil && evalErr == nil {
				evalErr = e
			}
		},
		InitParams: x0,
		Tau:        lmTau,
		Eps1:       cfg.Tolerance,
		Eps2:       cfg.Tolerance,
	}

	out, err := lm.LM(problem, &lm.Settings{Iterations: cfg.MaxIterations, ObjectiveTol: cfg.Tolerance * cfg.Tolerance})
	if err != nil {
		return nil, fmt.Errorf("levenberg-marquardt: %w: %w", err, errs.ErrFitFailed)
	}
	if evalErr != nil {
		return nil, evalErr
	}

	return &Result{
		Method:     MethodLM,
		Params:     slices.Clone(out.X),
		Iterations: max(jacCalls-1, 0),
		Status:     out.Status.String(),
		Converged:  out.Status != optimize.IterationLimit,
	}, nil
}

func runNewton(p *target.Problem, x0 []float64, cfg *Config, log logrus.FieldLogger) (*Result, error) {
	var evalErr error
	record := func(e error) {
		if e != nil && evalErr == nil {
			evalErr = e
		}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v, e := p.Chi2(x)
			record(e)
			return v
		},
		Grad: func(grad, x []float64) {
			record(p.Gradient(x, grad))
		},
		Hess: func(hess *mat.SymDense, x []float64) {
			record(p.Hessian(x, hess))
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: cfg.Tolerance,
		MajorIterations:   cfg.MaxIterations,
	}

	out, err := optimize.Minimize(problem, x0, settings, &optimize.Newton{})
	if evalErr != nil {
		return nil, evalErr
	}
	if out == nil {
		return nil, fmt.Errorf("newton: %w: %w", err, errs.ErrFitFailed)
	}
	if err != nil {
		log.WithError(err).Warnf("newton ended with status %s", out.Status)
	}

	return &Result{
		Method:     MethodNewton,
		Params:     slices.Clone(out.X),
		Iterations: out.Stats.MajorIterations,
		Status:     out.Status.String(),
		Converged:  out.Status != optimize.IterationLimit,
	}, nil
}
