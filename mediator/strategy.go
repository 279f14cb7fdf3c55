package mediator

import (
	"context"
	"errors"
	"sync"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Sequential invokes executors one at a time in resolution order, stopping at
// the first failure. The failure is surfaced as-is and the remaining
// executors are never invoked. This is the default strategy.
type Sequential struct{}

func (Sequential) Publish(ctx context.Context, n any, execs []cdis.Executor) error {
	for _, ex := range execs {
		if err := ctx.Err(); err != nil { // canceled or deadline exceeded
			return err
		}

		if err := ex.Invoke(ctx, n); err != nil {
			return err
		}
	}

	return nil
}

// ParallelCollectAll starts every executor concurrently and waits for all of
// them regardless of individual failures. Each failure is wrapped in a
// HandlerError naming its executor and the set is joined into one aggregate.
type ParallelCollectAll struct{}

func (ParallelCollectAll) Publish(ctx context.Context, n any, execs []cdis.Executor) error {
	errs := make([]error, len(execs))

	var wg sync.WaitGroup
	for i, ex := range execs {
		wg.Add(1)

		go func(i int, ex cdis.Executor) {
			defer wg.Done()

			if err := ex.Invoke(ctx, n); err != nil {
				errs[i] = &merr.HandlerError{Handler: ex.Name(), Err: err}
			}
		}(i, ex)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// ParallelFailFast starts every executor concurrently and surfaces the first
// failure as soon as it occurs, without waiting for the rest. In-flight
// executors are not forcibly aborted; they observe the cancellation signal
// cooperatively and their results are discarded.
type ParallelFailFast struct{}

func (ParallelFailFast) Publish(ctx context.Context, n any, execs []cdis.Executor) error {
	if len(execs) == 0 {
		return nil
	}

	// Buffered so stragglers never block after an early return.
	results := make(chan error, len(execs))

	for _, ex := range execs {
		go func(ex cdis.Executor) {
			results <- ex.Invoke(ctx, n)
		}(ex)
	}

	for range execs {
		select {
		case err := <-results:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
