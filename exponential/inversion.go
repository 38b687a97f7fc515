package exponential

import (
	"fmt"

	"github.com/arloliu/relaxfit/buffer"
)

// Inversion implements the offset decay used for inversion recovery:
// I(t) = I0 - Iinf * exp(-R * t)
//
// It has the richest cross-derivative structure of the three models: of the
// six unique second derivatives only d2I/dR^2 and d2I/(dR dIinf) are non-zero.
type Inversion struct {
	I0   float64
	Iinf float64
	R    float64
}

var _ Model = (*Inversion)(nil)

// Type returns ModelInversion.
func (m *Inversion) Type() ModelType { return ModelInversion }

// Params returns [I0, Iinf, R].
func (m *Inversion) Params() []Param { return []Param{ParamI0, ParamIinf, ParamR} }

// Values returns [I0, Iinf, R].
func (m *Inversion) Values() []float64 { return []float64{m.I0, m.Iinf, m.R} }

// SetValues updates the parameters from [I0, Iinf, R].
func (m *Inversion) SetValues(v []float64) error {
	if err := checkValues(ModelInversion, v); err != nil {
		return err
	}
	m.I0, m.Iinf, m.R = v[0], v[1], v[2]

	return nil
}

// Formula returns the curve formula with the current parameter values.
func (m *Inversion) Formula() string {
	return fmt.Sprintf("I = %.6g - %.6g * exp(-%.6g * t)", m.I0, m.Iinf, m.R)
}

// Evaluate writes I0 - Iinf * exp(-R * t_k) into backCalc.
func (m *Inversion) Evaluate(times, backCalc []float64) error {
	if err := buffer.CheckCurve(backCalc, len(times)); err != nil {
		return fmt.Errorf("Inversion.Evaluate: %w", err)
	}
	for k, t := range times {
		backCalc[k] = m.I0 - m.Iinf*decayFactor(m.R, t)
	}

	return nil
}

// DI0 writes dI/dI0 = 1 into every entry of row slot.
func (m *Inversion) DI0(slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	row, err := grad.Row(slot, len(times))
	if err != nil {
		return fmt.Errorf("Inversion.DI0: %w", err)
	}
	fill(row, 1)

	return nil
}

// DIinf writes dI/dIinf = -exp(-R * t_k) into row slot.
func (m *Inversion) DIinf(slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	row, err := grad.Row(slot, len(times))
	if err != nil {
		return fmt.Errorf("Inversion.DIinf: %w", err)
	}
	weightedDecay(row, times, m.R, -1, 0)

	return nil
}

// DR writes dI/dR = Iinf * t_k * exp(-R * t_k) into row slot.
func (m *Inversion) DR(slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	row, err := grad.Row(slot, len(times))
	if err != nil {
		return fmt.Errorf("Inversion.DR: %w", err)
	}
	weightedDecay(row, times, m.R, m.Iinf, 1)

	return nil
}

// DI02 writes the zero d2I/dI0^2 into plane [slot][slot].
func (m *Inversion) DI02(slot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	return m.zeroPlane("Inversion.DI02", slot, slot, times, hess)
}

// DIinf2 writes the zero d2I/dIinf^2 into plane [slot][slot].
func (m *Inversion) DIinf2(slot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	return m.zeroPlane("Inversion.DIinf2", slot, slot, times, hess)
}

// DI0DIinf writes the zero d2I/(dI0 dIinf) into plane [i0Slot][iinfSlot].
func (m *Inversion) DI0DIinf(i0Slot, iinfSlot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	return m.zeroPlane("Inversion.DI0DIinf", i0Slot, iinfSlot, times, hess)
}

// DRDI0 writes the zero d2I/(dR dI0) into plane [rSlot][i0Slot].
func (m *Inversion) DRDI0(rSlot, i0Slot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	return m.zeroPlane("Inversion.DRDI0", rSlot, i0Slot, times, hess)
}

// DRDIinf writes d2I/(dR dIinf) = t_k * exp(-R * t_k) into plane [rSlot][iinfSlot].
func (m *Inversion) DRDIinf(rSlot, iinfSlot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	plane, err := hess.Plane(rSlot, iinfSlot, len(times))
	if err != nil {
		return fmt.Errorf("Inversion.DRDIinf: %w", err)
	}
	weightedDecay(plane, times, m.R, 1, 1)

	return nil
}

// DR2 writes d2I/dR^2 = -Iinf * t_k^2 * exp(-R * t_k) into plane [slot][slot].
func (m *Inversion) DR2(slot buffer.Slot, times []float64, hess *buffer.Hessian) error {
	plane, err := hess.Plane(slot, slot, len(times))
	if err != nil {
		return fmt.Errorf("Inversion.DR2: %w", err)
	}
	weightedDecay(plane, times, m.R, -m.Iinf, 2)

	return nil
}

func (m *Inversion) zeroPlane(op string, i, j buffer.Slot, times []float64, hess *buffer.Hessian) error {
	plane, err := hess.Plane(i, j, len(times))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	fill(plane, 0)

	return nil
}

// Gradient dispatches to DI0, DIinf or DR.
func (m *Inversion) Gradient(p Param, slot buffer.Slot, times []float64, grad *buffer.Gradient) error {
	switch p {
	case ParamI0:
		return m.DI0(slot, times, grad)
	case ParamIinf:
		return m.DIinf(slot, times, grad)
	case ParamR:
		return m.DR(slot, times, grad)
	default:
		return unknownParam(ModelInversion, p)
	}
}

// Hessian writes d2I/(dp dq) into plane [ps][qs] of hess.
func (m *Inversion) Hessian(p, q Param, ps, qs buffer.Slot, times []float64, hess *buffer.Hessian) error {
	for _, x := range []Param{p, q} {
		if x != ParamI0 && x != ParamIinf && x != ParamR {
			return unknownParam(ModelInversion, x)
		}
	}
	plane, err := hess.Plane(ps, qs, len(times))
	if err != nil {
		return fmt.Errorf("Inversion.Hessian: %w", err)
	}

	switch lo, hi := ordered(p, q); {
	case lo == ParamIinf && hi == ParamR:
		weightedDecay(plane, times, m.R, 1, 1)
	case lo == ParamR && hi == ParamR:
		weightedDecay(plane, times, m.R, -m.Iinf, 2)
	default:
		fill(plane, 0)
	}

	return nil
}
