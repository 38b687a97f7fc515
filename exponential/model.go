package exponential

import (
	"fmt"
	"strings"

	"github.com/arloliu/relaxfit/buffer"
	"github.com/arloliu/relaxfit/errs"
)

// ModelType represents the type of relaxation model.
type ModelType int

const (
	// ModelDecay represents the two-parameter decay: I = I0 * exp(-R*t)
	ModelDecay ModelType = iota
	// ModelInversion represents the offset decay: I = I0 - Iinf * exp(-R*t)
	ModelInversion
	// ModelSaturation represents the saturation recovery: I = Iinf * (1 - exp(-R*t))
	ModelSaturation
)

// modelTypeNames maps ModelType to their short names.
var modelTypeNames = map[ModelType]string{
	ModelDecay:      "exp",
	ModelInversion:  "inv",
	ModelSaturation: "sat",
}

// String returns the short name of the model type.
func (mt ModelType) String() string {
	if name, ok := modelTypeNames[mt]; ok {
		return name
	}

	return "unknown"
}

// NumParams returns the number of parameters of the model type, or 0 for an
// unknown type.
func (mt ModelType) NumParams() int {
	switch mt {
	case ModelDecay, ModelSaturation:
		return 2
	case ModelInversion:
		return 3
	default:
		return 0
	}
}

var modelTypeFromString = map[string]ModelType{
	"exp":        ModelDecay,
	"decay":      ModelDecay,
	"inv":        ModelInversion,
	"inversion":  ModelInversion,
	"sat":        ModelSaturation,
	"saturation": ModelSaturation,
}

// ModelTypeFromString returns the ModelType for a given name. Both the short
// names and the long names are accepted, case-insensitively.
// Returns ModelType(-1) for unknown names.
func ModelTypeFromString(name string) ModelType {
	if mt, ok := modelTypeFromString[strings.ToLower(strings.TrimSpace(name))]; ok {
		return mt
	}

	return ModelType(-1)
}

// Param identifies one physical parameter of a relaxation model.
type Param int

const (
	// ParamI0 is the initial (or offset) intensity.
	ParamI0 Param = iota
	// ParamIinf is the asymptotic intensity.
	ParamIinf
	// ParamR is the relaxation rate.
	ParamR
)

var paramNames = [...]string{
	ParamI0:   "I0",
	ParamIinf: "Iinf",
	ParamR:    "R",
}

// String returns the parameter name.
func (p Param) String() string {
	if p < 0 || int(p) >= len(paramNames) {
		return "unknown"
	}

	return paramNames[p]
}

// Model is the capability set shared by all relaxation models.
//
// Gradient and Hessian write only the row or plane addressed by the given
// slots. Arguments are validated before any write, so a call that returns an
// error leaves the buffer untouched.
type Model interface {
	// Type returns the model type.
	Type() ModelType
	// Params returns the model parameters in model order.
	Params() []Param
	// Values returns the parameter values in model order.
	Values() []float64
	// SetValues replaces the parameter values, given in model order.
	SetValues(v []float64) error
	// Evaluate writes the back-calculated curve for times into backCalc.
	Evaluate(times, backCalc []float64) error
	// Gradient writes dI/dp for every time point into row slot of grad.
	Gradient(p Param, slot buffer.Slot, times []float64, grad *buffer.Gradient) error
	// Hessian writes d2I/(dp dq) for every time point into plane [ps][qs] of hess.
	Hessian(p, q Param, ps, qs buffer.Slot, times []float64, hess *buffer.Hessian) error
	// Formula returns the model formula with the current parameter values.
	Formula() string
}

// New creates a model of the given type. Values are optional; when given they
// must match the number of model parameters, in model order.
//
// Parameters:
//   - mt: model type
//   - values: initial parameter values, or none for a zero-valued model
//
// Returns:
//   - Model: the model
//   - error: ErrUnknownModel or ErrParamCount
func New(mt ModelType, values ...float64) (Model, error) {
	var m Model
	switch mt {
	case ModelDecay:
		m = &Decay{}
	case ModelInversion:
		m = &Inversion{}
	case ModelSaturation:
		m = &Saturation{}
	default:
		return nil, fmt.Errorf("model type %d: %w", int(mt), errs.ErrUnknownModel)
	}

	if len(values) == 0 {
		return m, nil
	}
	if err := m.SetValues(values); err != nil {
		return nil, err
	}

	return m, nil
}

// NewFromName creates a model from its name, as accepted by ModelTypeFromString.
func NewFromName(name string, values []float64) (Model, error) {
	mt := ModelTypeFromString(name)
	if mt < 0 {
		return nil, fmt.Errorf("model %q: %w", name, errs.ErrUnknownModel)
	}

	return New(mt, values...)
}

func checkValues(mt ModelType, v []float64) error {
	if len(v) != mt.NumParams() {
		return fmt.Errorf("%s model expects %d values, got %d: %w", mt, mt.NumParams(), len(v), errs.ErrParamCount)
	}

	return nil
}

func unknownParam(mt ModelType, p Param) error {
	return fmt.Errorf("%s model: %s: %w", mt, p, errs.ErrUnknownParam)
}

// ordered returns the pair with the lower parameter first.
func ordered(p, q Param) (Param, Param) {
	if p > q {
		return q, p
	}

	return p, q
}
