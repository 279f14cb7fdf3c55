// Package registry provides the default in-process implementation of the
// dispatch.Registry capability. Typed handlers and behaviors are erased at
// registration time and stored keyed by their concrete message type, so
// dispatch never reflects beyond a single type lookup per call.
package registry

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Registry is a concurrency-safe, map-backed handler registry. Registration
// is expected to complete before dispatching begins; late registration is
// memory-safe but will not be observed by already-memoized request pipelines.
type Registry struct {
	mu sync.RWMutex

	handlers  map[reflect.Type]cdis.Invoker
	notifs    map[reflect.Type][]cdis.Executor
	behaviors map[reflect.Type][]cdis.Behavior

	// global behaviors wrap every request type, outermost, in registration order
	global []cdis.Behavior
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		handlers:  make(map[reflect.Type]cdis.Invoker),
		notifs:    make(map[reflect.Type][]cdis.Executor),
		behaviors: make(map[reflect.Type][]cdis.Behavior),
	}
}

var _ cdis.Registry = (*Registry)(nil)

// ResolveHandler returns the single request invoker for t, if registered.
func (r *Registry) ResolveHandler(t reflect.Type) (cdis.Invoker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.handlers[t]

	return inv, ok
}

// ResolveHandlers returns a copy of the executor list for t in registration order.
func (r *Registry) ResolveHandlers(t reflect.Type) []cdis.Executor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]cdis.Executor(nil), r.notifs[t]...)
}

// ResolveBehaviors returns the behavior chain for t: global behaviors first,
// then per-type behaviors, each in registration order.
func (r *Registry) ResolveBehaviors(t reflect.Type) []cdis.Behavior {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.behaviors[t]
	out := make([]cdis.Behavior, 0, len(r.global)+len(typed))
	out = append(out, r.global...)
	out = append(out, typed...)

	return out
}

// RegisterRequestHandler registers the handler for request type Req.
// Duplicate registrations for the same request type are rejected.
func RegisterRequestHandler[Req cdis.Request[R], R any](r *Registry, h cdis.RequestHandler[Req, R]) error {
	t := reflect.TypeOf((*Req)(nil)).Elem()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[t]; exists {
		return fmt.Errorf("register %s: %w", t.String(), merr.ErrDuplicateHandler)
	}

	r.handlers[t] = func(ctx context.Context, v any) (any, error) {
		req, ok := v.(Req)
		if !ok {
			return nil, fmt.Errorf("send %s: %w", reflect.TypeOf(v).String(), merr.ErrHandlerTypeMismatch)
		}

		return h.Handle(ctx, req)
	}

	return nil
}

// RegisterNotificationHandler adds a handler for notification type N.
// Multiple handlers per type are allowed; resolution preserves this order.
func RegisterNotificationHandler[N cdis.Notification](r *Registry, h cdis.NotificationHandler[N]) {
	t := reflect.TypeOf((*N)(nil)).Elem()

	exec := cdis.Executor{
		Handler: h,
		Invoke: func(ctx context.Context, v any) error {
			n, ok := v.(N)
			if !ok {
				return fmt.Errorf("publish %s: %w", reflect.TypeOf(v).String(), merr.ErrHandlerTypeMismatch)
			}

			return h.Handle(ctx, n)
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifs[t] = append(r.notifs[t], exec)
}

// RegisterBehavior appends a pipeline behavior for request type Req.
// Behaviors compose in registration order, first-registered outermost.
func RegisterBehavior[Req cdis.Request[R], R any](r *Registry, b cdis.PipelineBehavior[Req, R]) {
	erased := func(ctx context.Context, v any, next cdis.Invoker) (any, error) {
		req, ok := v.(Req)
		if !ok {
			return nil, fmt.Errorf("send %s: %w", reflect.TypeOf(v).String(), merr.ErrHandlerTypeMismatch)
		}

		typedNext := func(ctx context.Context, rq Req) (R, error) {
			var zero R

			res, err := next(ctx, rq)
			if err != nil {
				return zero, err
			}

			if res == nil {
				return zero, nil
			}

			out, ok := res.(R)
			if !ok {
				return zero, fmt.Errorf("send %s: %w", reflect.TypeOf((*Req)(nil)).Elem().String(), merr.ErrHandlerTypeMismatch)
			}

			return out, nil
		}

		return b.Handle(ctx, req, typedNext)
	}

	t := reflect.TypeOf((*Req)(nil)).Elem()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.behaviors[t] = append(r.behaviors[t], erased)
}

// RegisterGlobalBehavior appends an erased behavior that wraps every request
// type, outermost, before any per-type behaviors.
func RegisterGlobalBehavior(r *Registry, b cdis.Behavior) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.global = append(r.global, b)
}
