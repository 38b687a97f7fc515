package fit

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/relaxfit/buffer"
	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/internal/options"
	"github.com/arloliu/relaxfit/target"
)

// Job is one independent single-spin fit.
type Job struct {
	SpinID string
	Model  exponential.ModelType
	Data   target.Dataset
	// Init holds starting parameters in model order. Guess is used when nil.
	Init []float64
}

// Outcome is the result of one Job. Err is set when the job failed; the other
// jobs of the batch are not affected.
type Outcome struct {
	SpinID string
	Model  exponential.ModelType
	Result *Result
	Stats  Stats
	Err    error
}

// FitOne fits a single job in the calling goroutine.
func FitOne(job Job, opts ...Option) Outcome {
	out := Outcome{SpinID: job.SpinID, Model: job.Model}

	n := job.Model.NumParams()
	slots := make([]buffer.Slot, n)
	for i := range slots {
		slots[i] = buffer.Slot(i)
	}
	p, err := target.NewProblem(n, target.Term{Model: job.Model, Slots: slots, Data: job.Data})
	if err != nil {
		out.Err = err
		return out
	}

	x0 := job.Init
	if x0 == nil {
		if x0, err = Guess(job.Model, job.Data); err != nil {
			out.Err = err
			return out
		}
	}

	res, err := Run(p, x0, opts...)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res

	m, err := exponential.New(job.Model, res.Params...)
	if err != nil {
		out.Err = err
		return out
	}
	if out.Stats, err = ComputeStats(m, job.Data); err != nil {
		out.Err = err
	}

	return out
}

// Batch fits jobs concurrently with at most workers goroutines. Each job gets
// its own target.Problem, so no derivative buffers are shared.
//
// Outcomes are returned in job order. When ctx is cancelled no further jobs
// are started, the unstarted ones carry ctx.Err() and Batch returns ctx.Err().
//
// Parameters:
//   - ctx: cancellation
//   - jobs: the fits to run
//   - workers: concurrency limit; GOMAXPROCS when <= 0
//   - opts: options applied to every fit
func Batch(ctx context.Context, jobs []Job, workers int, opts ...Option) ([]Outcome, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, fmt.Errorf("fit.Batch: %w", err)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(jobs))
	for i, job := range jobs {
		outcomes[i] = Outcome{SpinID: job.SpinID, Model: job.Model}
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log := cfg.Logger.WithFields(logrus.Fields{"spin": job.SpinID, "model": job.Model.String()})
			jobOpts := append(opts[:len(opts):len(opts)], WithLogger(log))
			outcomes[i] = FitOne(job, jobOpts...)
			if outcomes[i].Err != nil {
				log.WithError(outcomes[i].Err).Warn("fit failed")
			}

			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range outcomes {
			if outcomes[i].Result == nil && outcomes[i].Err == nil {
				outcomes[i].Err = err
			}
		}

		return outcomes, err
	}

	return outcomes, nil
}
