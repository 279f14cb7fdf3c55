package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Mediator dispatches requests to exactly one handler through a composed
// behavior pipeline and publishes notifications to zero or more handlers
// under the configured publish strategy.
//
// Mediator is concurrency-safe and holds no per-call state. Its only shared
// mutable state is the per-request-type pipeline cache; entries are immutable
// once built, and racing first-time builds store substitutable values since
// composition is pure.
type Mediator struct {
	reg      cdis.Registry
	strategy cdis.PublishStrategy
	logger   *slog.Logger

	// request type -> composed cdis.Invoker entry point
	pipelines sync.Map
}

// Option configures a Mediator instance.
type Option func(*Mediator)

// WithLogger attaches a logger used for dispatch diagnostics. Nil is allowed
// and disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mediator) { m.logger = l }
}

// WithPublishStrategy selects the notification publish strategy.
// The default is Sequential.
func WithPublishStrategy(s cdis.PublishStrategy) Option {
	return func(m *Mediator) { m.strategy = s }
}

// New constructs a Mediator over the given Registry.
func New(reg cdis.Registry, opts ...Option) *Mediator {
	m := &Mediator{
		reg:      reg,
		strategy: Sequential{},
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Send dispatches a request to its single handler and returns the typed
// response. The response type is fixed by the request's declared type.
func Send[R any](ctx context.Context, m *Mediator, req cdis.Request[R]) (R, error) {
	var zero R

	res, err := m.send(ctx, req)
	if err != nil {
		return zero, err
	}

	if res == nil {
		return zero, nil
	}

	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("send %s: %w", reflect.TypeOf(req).String(), merr.ErrHandlerTypeMismatch)
	}

	return r, nil
}

// send runs one resolve-compose-invoke pass for an erased request value.
func (m *Mediator) send(ctx context.Context, req any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := reflect.TypeOf(req)

	if entry, ok := m.pipelines.Load(t); ok {
		return entry.(cdis.Invoker)(ctx, req)
	}

	built, err := m.buildPipeline(t)
	if err != nil {
		// Misses are not cached; a Registry populated late still resolves.
		return nil, err
	}

	entry, _ := m.pipelines.LoadOrStore(t, built)

	return entry.(cdis.Invoker)(ctx, req)
}

// buildPipeline resolves the handler and behavior chain for a request type
// and folds them into one entry point. The build is pure for a given type.
func (m *Mediator) buildPipeline(t reflect.Type) (cdis.Invoker, error) {
	handler, ok := m.reg.ResolveHandler(t)
	if !ok {
		if m.logger != nil {
			m.logger.Debug("no handler registered", "request", t.String())
		}

		return nil, fmt.Errorf("send %s: %w", t.String(), merr.ErrHandlerNotFound)
	}

	return compose(m.reg.ResolveBehaviors(t), handler), nil
}

// Publish fans a notification out to every registered handler via the
// configured strategy. Zero handlers is a successful no-op.
func (m *Mediator) Publish(ctx context.Context, n cdis.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	execs := m.reg.ResolveHandlers(reflect.TypeOf(n))
	if len(execs) == 0 {
		if m.logger != nil {
			m.logger.Debug("no notification handlers", "notification", reflect.TypeOf(n).String())
		}

		return nil
	}

	return m.strategy.Publish(ctx, n, execs)
}
