package build

import (
	"context"
	"errors"
	"testing"
)

type fakeCloser struct{ closed bool }

func (f *fakeCloser) Close() { f.closed = true }

func TestRunManyRunsAllJobs(t *testing.T) {
	closers := make([]*fakeCloser, 3)
	jobs := make([]Job, 3)
	for i := range jobs {
		closers[i] = &fakeCloser{}
		jobs[i] = Job{Eng: closers[i]}
	}

	var ran int
	errs := RunMany(jobs, func(ctx context.Context, job Job) error {
		ran++
		return nil
	}, 2)

	if ran != 3 {
		t.Errorf("expected 3 runs, got %d", ran)
	}
	for _, err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	for i, c := range closers {
		if !c.closed {
			t.Errorf("job %d engine was not closed", i)
		}
	}
}

func TestRunManyPropagatesErrors(t *testing.T) {
	jobs := []Job{{}, {}}
	errs := RunMany(jobs, func(ctx context.Context, job Job) error {
		return errors.New("boom")
	}, 1)

	for i, err := range errs {
		if err == nil {
			t.Errorf("job %d: expected error", i)
		}
	}
}
