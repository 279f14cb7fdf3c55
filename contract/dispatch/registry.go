package dispatch

import (
	"context"
	"reflect"
)

// Invoker is the erased, uniformly callable request invocation shape stored
// by a Registry. It hides the concrete request/response types so handlers of
// different generic signatures share one call shape.
type Invoker func(ctx context.Context, req any) (any, error)

// Behavior is the erased pipeline behavior shape stored by a Registry.
// Implementations call next to continue the chain, or skip it to short-circuit.
type Behavior func(ctx context.Context, req any, next Invoker) (any, error)

// Executor pairs an opaque notification handler with an invocation closure
// bound at registration time to the handler's concretely typed Handle method.
// It exists so that handlers of otherwise-incompatible generic types can be
// held in one sequence and invoked through one uniform call shape.
type Executor struct {
	// Handler is the original handler instance, retained for attribution.
	Handler any
	// Invoke runs the handler against an erased notification value.
	Invoke func(ctx context.Context, n any) error
}

// Name identifies the executor's handler for error attribution.
func (e Executor) Name() string {
	if e.Handler == nil {
		return "<nil>"
	}

	return reflect.TypeOf(e.Handler).String()
}

// Registry is the lookup capability the dispatcher consumes. It yields
// pre-erased invokers keyed by concrete message type; how instances are
// obtained, cached, or scoped is entirely the Registry's concern.
//
// Implementations must be safe for concurrent use. Resolution results for a
// given type are expected to be stable once dispatching has begun: the
// dispatcher memoizes composed request pipelines per type.
type Registry interface {
	// ResolveHandler returns the single request invoker for a concrete
	// request type, or false when none is registered.
	ResolveHandler(t reflect.Type) (Invoker, bool)

	// ResolveHandlers returns all notification executors for a concrete
	// notification type, in registration order. Empty is not an error.
	ResolveHandlers(t reflect.Type) []Executor

	// ResolveBehaviors returns the ordered behavior chain for a concrete
	// request type, outermost first. Empty is not an error.
	ResolveBehaviors(t reflect.Type) []Behavior
}
