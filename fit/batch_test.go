package fit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/target"
)

func TestBatch(t *testing.T) {
	times := []float64{0, 0.25, 0.5, 1, 2, 4}
	jobs := make([]Job, 0, 9)
	for i := range 8 {
		r := 0.5 + 0.25*float64(i)
		jobs = append(jobs, Job{
			SpinID: fmt.Sprintf(":%d@N", i+1),
			Model:  exponential.ModelDecay,
			Data:   synthetic(&exponential.Decay{I0: 100 * float64(i+1), R: r}, times, 1),
		})
	}
	jobs = append(jobs, Job{SpinID: ":99@N", Model: exponential.ModelDecay, Data: target.Dataset{}})

	outcomes, err := Batch(context.Background(), jobs, 3)
	require.NoError(t, err)
	require.Len(t, outcomes, len(jobs))

	for i, out := range outcomes[:8] {
		require.Equal(t, jobs[i].SpinID, out.SpinID)
		require.NoError(t, out.Err)
		require.InDelta(t, 100*float64(i+1), out.Result.Params[0], 1e-3)
		require.InDelta(t, 0.5+0.25*float64(i), out.Result.Params[1], 1e-6)
		require.InDelta(t, 1, out.Stats.RSquared, 1e-9)
	}
	require.ErrorIs(t, outcomes[8].Err, errs.ErrNoData)
	require.Nil(t, outcomes[8].Result)
}

func TestBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{{SpinID: "a", Model: exponential.ModelDecay, Data: decaySeries()}}
	outcomes, err := Batch(ctx, jobs, 1)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, outcomes, 1)
	require.ErrorIs(t, outcomes[0].Err, context.Canceled)
}

func TestBatch_BadOption(t *testing.T) {
	_, err := Batch(context.Background(), nil, 1, WithMethod(Method(3)))
	require.ErrorIs(t, err, errs.ErrUnknownMethod)
}

func TestFitOne_InitialValues(t *testing.T) {
	out := FitOne(Job{SpinID: "x", Model: exponential.ModelDecay, Data: decaySeries(), Init: []float64{800, 1.2}},
		WithMethod(MethodNewton))
	require.NoError(t, out.Err)
	require.InDelta(t, 1, out.Result.Params[1], 1e-6)
}
