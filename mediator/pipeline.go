package mediator

import (
	"context"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
)

// compose folds an ordered behavior chain around a terminal handler invoker
// so the first behavior is outermost. With no behaviors the entry point is
// the bare handler; an empty pipeline has zero observable effect.
func compose(behaviors []cdis.Behavior, terminal cdis.Invoker) cdis.Invoker {
	entry := terminal
	for i := len(behaviors) - 1; i >= 0; i-- {
		entry = wrapBehavior(behaviors[i], entry)
	}

	return entry
}

func wrapBehavior(b cdis.Behavior, next cdis.Invoker) cdis.Invoker {
	return func(ctx context.Context, req any) (any, error) {
		return b(ctx, req, next)
	}
}
