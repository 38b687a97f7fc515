package fit

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/target"
)

// Guess estimates starting parameters for fitting model mt to d, in model
// order.
//
// The estimates come from a log-linear regression:
//   - decay: ln(I) = ln(I0) - R*t
//   - inversion: ln(I0 - I) = ln(Iinf) - R*t, with I0 taken from the latest point
//   - saturation: ln(Iinf - I) = ln(Iinf) - R*t, with Iinf taken from the latest point
//
// When fewer than two points are usable or the regression does not give a
// positive rate, R falls back to 1/mean(t).
//
// Returns:
//   - []float64: the starting parameters
//   - error: ErrUnknownModel or a Dataset validation error
func Guess(mt exponential.ModelType, d target.Dataset) ([]float64, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("fit.Guess: %w", err)
	}

	switch mt {
	case exponential.ModelDecay:
		i0, r := guessDecay(d.Times, d.Values)
		return []float64{i0, r}, nil
	case exponential.ModelInversion:
		plateau, iinf, r := guessRecovery(d.Times, d.Values)
		return []float64{plateau, iinf, r}, nil
	case exponential.ModelSaturation:
		plateau, _, r := guessRecovery(d.Times, d.Values)
		return []float64{plateau, r}, nil
	default:
		return nil, fmt.Errorf("fit.Guess: model type %d: %w", int(mt), errs.ErrUnknownModel)
	}
}

func guessDecay(times, values []float64) (i0, r float64) {
	x := make([]float64, 0, len(times))
	y := make([]float64, 0, len(times))
	for k, v := range values {
		if v > 0 {
			x = append(x, times[k])
			y = append(y, v)
		}
	}

	if a, b, ok := fitLogLinear(x, y); ok && b < 0 {
		return a, -b
	}

	first := slices.Index(times, slices.Min(times))

	return values[first], fallbackRate(times)
}

// guessRecovery estimates a plateau from the latest point and fits the
// distance to it.
func guessRecovery(times, values []float64) (plateau, amplitude, r float64) {
	last := slices.Index(times, slices.Max(times))
	plateau = values[last]

	x := make([]float64, 0, len(times))
	y := make([]float64, 0, len(times))
	for k, v := range values {
		if k != last && plateau-v > 0 {
			x = append(x, times[k])
			y = append(y, plateau-v)
		}
	}

	if a, b, ok := fitLogLinear(x, y); ok && b < 0 {
		return plateau, a, -b
	}

	first := slices.Index(times, slices.Min(times))
	amplitude = plateau - values[first]
	if amplitude == 0 {
		amplitude = plateau
	}

	return plateau, amplitude, fallbackRate(times)
}

// fitLogLinear fits y = a * exp(b*x) by least squares on ln(y). All y must be
// positive.
func fitLogLinear(x, y []float64) (a, b float64, ok bool) {
	if len(x) < 2 {
		return 0, 0, false
	}

	logY := make([]float64, len(y))
	for i, v := range y {
		logY[i] = math.Log(v)
	}

	// constant x leaves the slope undefined and yields NaN or Inf here
	lnA, b := stat.LinearRegression(x, logY, nil, false)
	a = math.Exp(lnA)
	if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return 0, 0, false
	}

	return a, b, true
}

func fallbackRate(times []float64) float64 {
	mean := calculateMean(times)
	if mean <= 0 {
		return 1
	}

	return 1 / mean
}
