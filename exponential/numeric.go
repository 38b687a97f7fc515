package exponential

import "math"

func square(x float64) float64 {
	return x * x
}

// decayFactor returns exp(-r*t). A zero rate yields exactly 1 without forming
// r*t, so infinite time points do not produce NaN.
func decayFactor(r, t float64) float64 {
	if r == 0 {
		return 1
	}

	return math.Exp(-r * t)
}

func fill(dst []float64, v float64) {
	for k := range dst {
		dst[k] = v
	}
}

// weightedDecay writes scale * t^power * exp(-r*t) for power 0, 1 or 2.
func weightedDecay(dst, times []float64, r, scale float64, power int) {
	for k, t := range times[:len(dst)] {
		e := decayFactor(r, t)
		switch power {
		case 0:
			dst[k] = scale * e
		case 1:
			dst[k] = scale * t * e
		default:
			dst[k] = scale * square(t) * e
		}
	}
}
