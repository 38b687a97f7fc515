package exponential

import (
	"fmt"

	"github.com/arloliu/relaxfit/buffer"
)

// Decay implements the two-parameter decay: I(t) = I0 * exp(-R * t)
type Decay struct {
	I0 float64
	R  float64
}

var _ Model = (*Decay)(nil)

// Type returns ModelDecay.
func (d *Decay) Type() ModelType { return ModelDecay }

// Params returns [I0, R].
func (d *Decay) Params() []Param { return []Param{ParamI0, ParamR} }

// Values returns [I0, R].
func (d *Decay) Values() []float64 { return []float64{d.I0, d.R} }

// SetValues updates the parameters from [I0, R].
func (d *Decay) SetValues(v []float64) error {
	if err := checkValues(ModelDecay, v); err != nil {
		return err
	}
	d.I0, d.R = v[0], v[1]

	return nil
}

// Formula returns the curve formula with the current parameter values.
func (d *Decay) Formula() string {
	return fmt.Sprintf("I = %.6g * exp(-%.6g * t)", d.I0, d.R)
}

// Evaluate writes I0 * exp(-R * t_k) into backCalc for every time point.
//
// Parameters:
//   - times: experiment time points, at most buffer.MaxData
//   - backCalc: destination curve, at least len(times) long
//
// Returns:
//   - error: ErrTooManyTimePoints or ErrBufferTooSmall; backCalc is untouched on error
func (d *Decay) Evaluate(times, backCalc []float64) error {
	if err := buffer.CheckCurve(backCalc, len(times)); err != nil {
		return fmt.Errorf("Decay.Evaluate: %w", err)
	}
	weightedDecay(backCalc[:len(times)], times, d.R, d.I0, 0)

	return nil
}

// DI0 writes dI/dI0 = exp(-R * t_k) into row slot of grad.
func (d *Decay) DI0(slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	row, err := grad.Row(slot, len(times))
	if err != nil {
		return fmt.Errorf("Decay.DI0: %w", err)
	}
	weightedDecay(row, times, d.R, 1, 0)

	return nil
}

// DR writes dI/dR = -I0 * t_k * exp(-R * t_k) into row slot of grad.
func (d *Decay) DR(slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	row, err := grad.Row(slot, len(times))
	if err != nil {
		return fmt.Errorf("Decay.DR: %w", err)
	}
	weightedDecay(row, times, d.R, -d.I0, 1)

	return nil
}

// DI02 writes d2I/dI0^2, which is identically zero, into plane [slot][slot].
func (d *Decay) DI02(slot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	plane, err := hess.Plane(slot, slot, len(times))
	if err != nil {
		return fmt.Errorf("Decay.DI02: %w", err)
	}
	fill(plane, 0)

	return nil
}

// DRDI0 writes d2I/(dR dI0) = -t_k * exp(-R * t_k) into plane [rSlot][i0Slot].
func (d *Decay) DRDI0(rSlot, i0Slot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	plane, err := hess.Plane(rSlot, i0Slot, len(times))
	if err != nil {
		return fmt.Errorf("Decay.DRDI0: %w", err)
	}
	weightedDecay(plane, times, d.R, -1, 1)

	return nil
}

// DR2 writes d2I/dR^2 = I0 * t_k^2 * exp(-R * t_k) into plane [slot][slot].
func (d *Decay) DR2(slot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	plane, err := hess.Plane(slot, slot, len(times))
	if err != nil {
		return fmt.Errorf("Decay.DR2: %w", err)
	}
	weightedDecay(plane, times, d.R, d.I0, 2)

	return nil
}

// Gradient dispatches to DI0 or DR.
func (d *Decay) Gradient(p Param, slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	switch p {
	case ParamI0:
		return d.DI0(slot, times, grad)
	case ParamR:
		return d.DR(slot, times, grad)
	default:
		return unknownParam(ModelDecay, p)
	}
}

// Hessian writes d2I/(dp dq) into plane [ps][qs] of hess.
func (d *Decay) Hessian(p, q Param, ps, qs buffer.Slot, times []float64, hess *buffer.Hessian) error {
	for _, x := range []Param{p, q} {
		if x != ParamI0 && x != ParamR {
			return unknownParam(ModelDecay, x)
		}
	}
	plane, err := hess.Plane(ps, qs, len(times))
	if err != nil {
		return fmt.Errorf("Decay.Hessian: %w", err)
	}

	switch lo, hi := ordered(p, q); {
	case lo == ParamI0 && hi == ParamI0:
		fill(plane, 0)
	case lo == ParamI0 && hi == ParamR:
		weightedDecay(plane, times, d.R, -1, 1)
	default:
		weightedDecay(plane, times, d.R, d.I0, 2)
	}

	return nil
}
