package dispatch

import "context"

// RequestHandler handles requests of type Req and returns a response of type R.
// Implementations must be safe for concurrent use by multiple goroutines.
type RequestHandler[Req Request[R], R any] interface {
	Handle(ctx context.Context, req Req) (R, error)
}

// RequestHandlerFunc adapts a function to RequestHandler.
type RequestHandlerFunc[Req Request[R], R any] func(ctx context.Context, req Req) (R, error)

func (f RequestHandlerFunc[Req, R]) Handle(ctx context.Context, req Req) (R, error) {
	return f(ctx, req)
}

// NotificationHandler handles notifications of type N.
// Implementations must be safe for concurrent use by multiple goroutines;
// parallel publish strategies may invoke them from separate goroutines.
type NotificationHandler[N Notification] interface {
	Handle(ctx context.Context, n N) error
}

// NotificationHandlerFunc adapts a function to NotificationHandler.
type NotificationHandlerFunc[N Notification] func(ctx context.Context, n N) error

func (f NotificationHandlerFunc[N]) Handle(ctx context.Context, n N) error {
	return f(ctx, n)
}

// PipelineBehavior wraps request handling with cross-cutting logic. Behaviors
// compose in registration order with the first-registered outermost. A
// behavior receives the remaining chain as next and may call it zero times
// (short-circuit), once (pass-through), or several times (retry).
type PipelineBehavior[Req Request[R], R any] interface {
	Handle(ctx context.Context, req Req, next RequestHandlerFunc[Req, R]) (R, error)
}

// PipelineBehaviorFunc adapts a function to PipelineBehavior.
type PipelineBehaviorFunc[Req Request[R], R any] func(ctx context.Context, req Req, next RequestHandlerFunc[Req, R]) (R, error)

func (f PipelineBehaviorFunc[Req, R]) Handle(
	ctx context.Context,
	req Req,
	next RequestHandlerFunc[Req, R],
) (R, error) {
	return f(ctx, req, next)
}
