package dispatch

import "context"

// PublishStrategy governs how a notification fan-out invokes its executors:
// ordering, concurrency, and failure aggregation. Strategies are stateless
// values; behavior must be well-defined for zero, one, and N executors.
type PublishStrategy interface {
	Publish(ctx context.Context, n any, execs []Executor) error
}
