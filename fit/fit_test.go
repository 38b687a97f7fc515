package fit

import (
	"bytes"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/relaxfit/buffer"
	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/target"
)

// decaySeries is a noise-free decay with I0 = 1000 and R = 1.
func decaySeries() target.Dataset {
	return target.Dataset{
		Times:  []float64{0, 1, 2, 3, 4},
		Values: []float64{1000.0, 367.879441171, 135.335283237, 49.7870683679, 18.3156388887},
		Errors: []float64{10, 10, 10, 10, 10},
	}
}

func synthetic(m exponential.Model, times []float64, sigma float64) target.Dataset {
	d := target.Dataset{Times: times, Values: make([]float64, len(times)), Errors: make([]float64, len(times))}
	if err := m.Evaluate(times, d.Values); err != nil {
		panic(err)
	}
	for k := range d.Errors {
		d.Errors[k] = sigma
	}

	return d
}

func singleProblem(t *testing.T, mt exponential.ModelType, d target.Dataset) *target.Problem {
	t.Helper()
	slots := make([]buffer.Slot, mt.NumParams())
	for i := range slots {
		slots[i] = buffer.Slot(i)
	}
	p, err := target.NewProblem(len(slots), target.Term{Model: mt, Slots: slots, Data: d})
	require.NoError(t, err)

	return p
}

func TestRun_DecayFromOffMinimum(t *testing.T) {
	for _, method := range []Method{MethodLM, MethodNewton} {
		t.Run(method.String(), func(t *testing.T) {
			p := singleProblem(t, exponential.ModelDecay, decaySeries())
			res, err := Run(p, []float64{500, 2}, WithMethod(method))
			require.NoError(t, err)

			require.Equal(t, method, res.Method)
			assert.InDelta(t, 1000, res.Params[0], 1e-3)
			assert.InDelta(t, 1, res.Params[1], 1e-6)
			assert.Less(t, res.Chi2, 1e-8)
			assert.True(t, res.Converged)
			assert.NotEmpty(t, res.Status)
		})
	}
}

func TestRun_RecoveryModels(t *testing.T) {
	times := []float64{0, 0.1, 0.25, 0.5, 1, 2, 4, 8}
	tests := []struct {
		name string
		true exponential.Model
		x0   []float64
	}{
		{"inversion", &exponential.Inversion{I0: 50, Iinf: 80, R: 1}, []float64{45, 70, 1.5}},
		{"saturation", &exponential.Saturation{Iinf: 200, R: 0.5}, []float64{150, 0.8}},
	}
	for _, tt := range tests {
		for _, method := range []Method{MethodLM, MethodNewton} {
			t.Run(tt.name+"/"+method.String(), func(t *testing.T) {
				p := singleProblem(t, tt.true.Type(), synthetic(tt.true, times, 1))
				res, err := Run(p, tt.x0, WithMethod(method), WithMaxIterations(500))
				require.NoError(t, err)
				require.InDeltaSlice(t, tt.true.Values(), res.Params, 1e-4)
			})
		}
	}
}

func TestRun_GlobalSharedRate(t *testing.T) {
	times := []float64{0, 0.5, 1, 2, 3}
	spinA := synthetic(&exponential.Decay{I0: 300, R: 1.5}, times, 3)
	spinB := synthetic(&exponential.Decay{I0: 90, R: 1.5}, times, 1)
	p, err := target.NewProblem(3,
		target.Term{Model: exponential.ModelDecay, Slots: []buffer.Slot{0, 2}, Data: spinA},
		target.Term{Model: exponential.ModelDecay, Slots: []buffer.Slot{1, 2}, Data: spinB},
	)
	require.NoError(t, err)

	res, err := Run(p, []float64{250, 100, 1})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{300, 90, 1.5}, res.Params, 1e-4)
}

func TestRun_Errors(t *testing.T) {
	p := singleProblem(t, exponential.ModelDecay, decaySeries())

	_, err := Run(p, []float64{1})
	require.ErrorIs(t, err, errs.ErrParamCount)

	_, err = Run(p, []float64{1, 1}, WithMethod(Method(9)))
	require.ErrorIs(t, err, errs.ErrUnknownMethod)

	_, err = Run(p, []float64{1, 1}, WithMaxIterations(0))
	require.Error(t, err)

	_, err = Run(p, []float64{1, 1}, WithTolerance(math.NaN()))
	require.Error(t, err)
}

func TestRun_UnderdeterminedLMFails(t *testing.T) {
	// one point cannot pin down two parameters; the normal matrix is singular
	d := target.Dataset{Times: []float64{0}, Values: []float64{5}, Errors: []float64{1}}
	p := singleProblem(t, exponential.ModelDecay, d)

	res, err := Run(p, []float64{0, 0})
	if err != nil {
		require.ErrorIs(t, err, errs.ErrFitFailed)
		return
	}
	require.InDelta(t, 5, res.Params[0], 1e-3)
}

func TestRun_IterationLimitIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	p := singleProblem(t, exponential.ModelDecay, decaySeries())
	res, err := Run(p, []float64{10, 5}, WithMaxIterations(1), WithLogger(logger))
	require.NoError(t, err)
	require.False(t, res.Converged)
	require.Contains(t, buf.String(), "iteration limit")
	require.Contains(t, buf.String(), "method=lm")
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("LM")
	require.NoError(t, err)
	require.Equal(t, MethodLM, m)

	m, err = ParseMethod(" newton")
	require.NoError(t, err)
	require.Equal(t, MethodNewton, m)

	_, err = ParseMethod("simplex")
	require.ErrorIs(t, err, errs.ErrUnknownMethod)
	require.Equal(t, "unknown", Method(5).String())
}
