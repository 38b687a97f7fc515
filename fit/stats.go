package fit

import (
	"fmt"
	"math"

	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/internal/pool"
	"github.com/arloliu/relaxfit/target"
)

// Stats summarises how well a model describes a series.
type Stats struct {
	// RSquared is the coefficient of determination, 1 for a perfect fit.
	RSquared float64
	// RMSE is the root mean square of the unweighted residuals.
	RMSE float64
	// Chi2 is the error-weighted sum of squared residuals.
	Chi2 float64
	// ReducedChi2 is Chi2 divided by the degrees of freedom, or 0 when the
	// series has no more points than the model has parameters.
	ReducedChi2 float64
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("Stats{R²: %.4f, RMSE: %.4g, Chi2: %.4g, ReducedChi2: %.4g}", s.RSquared, s.RMSE, s.Chi2, s.ReducedChi2)
}

// ComputeStats back-calculates m over d and returns the goodness-of-fit
// statistics.
func ComputeStats(m exponential.Model, d target.Dataset) (Stats, error) {
	if err := d.Validate(); err != nil {
		return Stats{}, fmt.Errorf("fit.ComputeStats: %w", err)
	}

	predicted, release := pool.GetFloat64Slice(d.Len())
	defer release()
	if err := m.Evaluate(d.Times, predicted); err != nil {
		return Stats{}, fmt.Errorf("fit.ComputeStats: %w", err)
	}

	var chi2 float64
	for k, v := range d.Values {
		r := (v - predicted[k]) / d.Errors[k]
		chi2 += r * r
	}

	s := Stats{
		RSquared: calculateRSquared(d.Values, predicted),
		RMSE:     calculateRMSE(d.Values, predicted),
		Chi2:     chi2,
	}
	if dof := d.Len() - len(m.Params()); dof > 0 {
		s.ReducedChi2 = chi2 / float64(dof)
	}

	return s, nil
}

// calculateRSquared returns 1 - SS_res/SS_tot, or 0 when the observations are
// constant.
func calculateRSquared(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	mean := calculateMean(observed)
	var ssTot, ssRes float64
	for i := range observed {
		ssTot += (observed[i] - mean) * (observed[i] - mean)
		ssRes += (observed[i] - predicted[i]) * (observed[i] - predicted[i])
	}
	if ssTot == 0 {
		return 0
	}

	return 1 - ssRes/ssTot
}

func calculateRMSE(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	var sumSq float64
	for i := range observed {
		diff := observed[i] - predicted[i]
		sumSq += diff * diff
	}

	return math.Sqrt(sumSq / float64(len(observed)))
}

func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
