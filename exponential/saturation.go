package exponential

import (
	"fmt"

	"github.com/arloliu/relaxfit/buffer"
)

// Saturation implements the saturation recovery growth:
// I(t) = Iinf * (1 - exp(-R * t))
type Saturation struct {
	Iinf float64
	R    float64
}

var _ Model = (*Saturation)(nil)

// Type returns ModelSaturation.
func (s *Saturation) Type() ModelType { return ModelSaturation }

// Params returns [Iinf, R].
func (s *Saturation) Params() []Param { return []Param{ParamIinf, ParamR} }

// Values returns [Iinf, R].
func (s *Saturation) Values() []float64 { return []float64{s.Iinf, s.R} }

// SetValues updates the parameters from [Iinf, R].
func (s *Saturation) SetValues(v []float64) error {
	if err := checkValues(ModelSaturation, v); err != nil {
		return err
	}
	s.Iinf, s.R = v[0], v[1]

	return nil
}

// Formula returns the curve formula with the current parameter values.
func (s *Saturation) Formula() string {
	return fmt.Sprintf("I = %.6g * (1 - exp(-%.6g * t))", s.Iinf, s.R)
}

// Evaluate writes Iinf * (1 - exp(-R * t_k)) into backCalc.
func (s *Saturation) Evaluate(times, backCalc []float64) error {
	if err := buffer.CheckCurve(backCalc, len(times)); err != nil {
		return fmt.Errorf("Saturation.Evaluate: %w", err)
	}
	for k, t := range times {
		backCalc[k] = s.Iinf * (1 - decayFactor(s.R, t))
	}

	return nil
}

// DIinf writes dI/dIinf = 1 - exp(-R * t_k) into row slot.
func (s *Saturation) DIinf(slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	row, err := grad.Row(slot, len(times))
	if err != nil {
		return fmt.Errorf("Saturation.DIinf: %w", err)
	}
	for k, t := range times {
		row[k] = 1 - decayFactor(s.R, t)
	}

	return nil
}

// DR writes dI/dR = Iinf * t_k * exp(-R * t_k) into row slot.
func (s *Saturation) DR(slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	row, err := grad.Row(slot, len(times))
	if err != nil {
		return fmt.Errorf("Saturation.DR: %w", err)
	}
	weightedDecay(row, times, s.R, s.Iinf, 1)

	return nil
}

// DIinf2 writes the zero d2I/dIinf^2 into plane [slot][slot].
func (s *Saturation) DIinf2(slot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	plane, err := hess.Plane(slot, slot, len(times))
	if err != nil {
		return fmt.Errorf("Saturation.DIinf2: %w", err)
	}
	fill(plane, 0)

	return nil
}

// DRDIinf writes d2I/(dR dIinf) = t_k * exp(-R * t_k) into plane [rSlot][iinfSlot].
func (s *Saturation) DRDIinf(rSlot, iinfSlot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	plane, err := hess.Plane(rSlot, iinfSlot, len(times))
	if err != nil {
		return fmt.Errorf("Saturation.DRDIinf: %w", err)
	}
	weightedDecay(plane, times, s.R, 1, 1)

	return nil
}

// DR2 writes d2I/dR^2 = -Iinf * t_k^2 * exp(-R * t_k) into plane [slot][slot].
func (s *Saturation) DR2(slot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	plane, err := hess.Plane(slot, slot, len(times))
	if err != nil {
		return fmt.Errorf("Saturation.DR2: %w", err)
	}
	weightedDecay(plane, times, s.R, -s.Iinf, 2)

	return nil
}

// Gradient dispatches to DIinf or DR.
func (s *Saturation) Gradient(p Param, slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	switch p {
	case ParamIinf:
		return s.DIinf(slot, times, grad)
	case ParamR:
		return s.DR(slot, times, grad)
	default:
		return unknownParam(ModelSaturation, p)
	}
}

// Hessian writes d2I/(dp dq) into plane [ps][qs] of hess.
func (s *Saturation) Hessian(p, q Param, ps, qs buffer.Slot, times []float64, hess *buffer.Hessian) error {
	for _, x := range []Param{p, q} {
		if x != ParamIinf && x != ParamR {
			return unknownParam(ModelSaturation, x)
		}
	}
	plane, err := hess.Plane(ps, qs, len(times))
	if err != nil {
		return fmt.Errorf("Saturation.Hessian: %w", err)
	}

	switch lo, hi := ordered(p, q); {
	case lo == ParamIinf && hi == ParamIinf:
		fill(plane, 0)
	case lo == ParamIinf && hi == ParamR:
		weightedDecay(plane, times, s.R, 1, 1)
	default:
		weightedDecay(plane, times, s.R, -s.Iinf, 2)
	}

	return nil
}
