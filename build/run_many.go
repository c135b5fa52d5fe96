package build

import (
	"context"
	"os"
	"os/signal"
	"runtime"

	"github.com/alitto/pond"
)

// Job is one independent model build.
type Job struct {
	Eng  Closer
	Spec Spec
	Src  BuildSource
	Opts Options
}

// Closer is the subset of *storage.Engine's lifecycle RunMany needs; kept
// as an interface so tests can substitute a fake.
type Closer interface {
	Close()
}

// BuildSource is the subset of datasource.DataSource Run needs; declared
// here to avoid RunMany importing the concrete engine type for job wiring.
type BuildSource interface {
	Initialize(ctx context.Context) error
}

// RunFunc builds one Job (typically by calling Run with the job's fields);
// taking it as a parameter lets RunMany be tested without a real TileDB
// engine.
type RunFunc func(ctx context.Context, job Job) error

// RunMany builds several independent models in parallel using a fixed
// worker pool, cancelling outstanding work on the first SIGINT, mirroring
// the teacher's multi-file conversion fan-out.
func RunMany(jobs []Job, run RunFunc, concurrency int) []error {
	if concurrency <= 0 {
		concurrency = 2 * runtime.NumCPU()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool := pond.New(concurrency, 0, pond.MinWorkers(concurrency), pond.Context(ctx))

	errs := make([]error, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		pool.Submit(func() {
			errs[i] = run(ctx, job)
			if job.Eng != nil {
				job.Eng.Close()
			}
		})
	}

	pool.StopAndWait()
	return errs
}
