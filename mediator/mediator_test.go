package mediator_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
	merr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/mediator"
	"github.com/next-trace/scg-mediator/registry"
)

type pong struct{ Msg string }

type ping struct {
	cdis.RequestBase[pong]
	Msg string
}

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, p ping) (pong, error) {
	return pong{Msg: p.Msg + " pong"}, nil
}

type failingReq struct {
	cdis.RequestBase[pong]
}

// trace appends behavior/handler markers so tests can assert nesting order.
type trace struct {
	mu    sync.Mutex
	steps []string
}

func (tr *trace) add(s string) {
	tr.mu.Lock()
	tr.steps = append(tr.steps, s)
	tr.mu.Unlock()
}

func tracingBehavior(tr *trace, name string) cdis.PipelineBehaviorFunc[ping, pong] {
	return func(ctx context.Context, p ping, next cdis.RequestHandlerFunc[ping, pong]) (pong, error) {
		tr.add(name + ":enter")
		res, err := next(ctx, p)
		tr.add(name + ":exit")

		return res, err
	}
}

func Test_Send_ZeroPipeline_EqualsHandlerAlone(t *testing.T) {
	reg := registry.New()
	if err := registry.RegisterRequestHandler[ping](reg, pingHandler{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	m := mediator.New(reg)

	got, err := mediator.Send(context.Background(), m, ping{Msg: "hi"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	want, _ := pingHandler{}.Handle(context.Background(), ping{Msg: "hi"})
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func Test_Send_HandlerNotFound(t *testing.T) {
	m := mediator.New(registry.New())

	_, err := mediator.Send(context.Background(), m, ping{Msg: "x"})
	if !errors.Is(err, merr.ErrHandlerNotFound) {
		t.Fatalf("want ErrHandlerNotFound, got %v", err)
	}
}

func Test_Send_BehaviorOrder(t *testing.T) {
	reg := registry.New()
	tr := &trace{}

	registry.RegisterBehavior[ping](reg, tracingBehavior(tr, "b1"))
	registry.RegisterBehavior[ping](reg, tracingBehavior(tr, "b2"))
	registry.RegisterBehavior[ping](reg, tracingBehavior(tr, "b3"))

	handler := cdis.RequestHandlerFunc[ping, pong](func(ctx context.Context, p ping) (pong, error) {
		tr.add("handler")
		return pong{Msg: p.Msg}, nil
	})
	if err := registry.RegisterRequestHandler[ping](reg, handler); err != nil {
		t.Fatalf("register: %v", err)
	}

	m := mediator.New(reg)
	if _, err := mediator.Send(context.Background(), m, ping{Msg: "m"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	want := []string{"b1:enter", "b2:enter", "b3:enter", "handler", "b3:exit", "b2:exit", "b1:exit"}
	if !reflect.DeepEqual(tr.steps, want) {
		t.Fatalf("want %v, got %v", want, tr.steps)
	}
}

func Test_Send_ShortCircuit_SkipsInnerChain(t *testing.T) {
	reg := registry.New()
	tr := &trace{}

	registry.RegisterBehavior[ping](reg, tracingBehavior(tr, "b1"))

	// middle behavior returns without ever invoking next
	shortCircuit := cdis.PipelineBehaviorFunc[ping, pong](
		func(ctx context.Context, p ping, next cdis.RequestHandlerFunc[ping, pong]) (pong, error) {
			tr.add("b2:short")
			return pong{Msg: "cached"}, nil
		},
	)
	registry.RegisterBehavior[ping](reg, shortCircuit)
	registry.RegisterBehavior[ping](reg, tracingBehavior(tr, "b3"))

	handler := cdis.RequestHandlerFunc[ping, pong](func(ctx context.Context, p ping) (pong, error) {
		tr.add("handler")
		return pong{}, nil
	})
	if err := registry.RegisterRequestHandler[ping](reg, handler); err != nil {
		t.Fatalf("register: %v", err)
	}

	m := mediator.New(reg)

	got, err := mediator.Send(context.Background(), m, ping{Msg: "x"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got.Msg != "cached" {
		t.Fatalf("want short-circuit response, got %+v", got)
	}

	want := []string{"b1:enter", "b2:short", "b1:exit"}
	if !reflect.DeepEqual(tr.steps, want) {
		t.Fatalf("inner chain ran: %v", tr.steps)
	}
}

func Test_Send_GlobalBehaviorRunsOutermost(t *testing.T) {
	reg := registry.New()
	tr := &trace{}

	registry.RegisterGlobalBehavior(reg, func(ctx context.Context, req any, next cdis.Invoker) (any, error) {
		tr.add("global:enter")
		res, err := next(ctx, req)
		tr.add("global:exit")

		return res, err
	})
	registry.RegisterBehavior[ping](reg, tracingBehavior(tr, "typed"))

	handler := cdis.RequestHandlerFunc[ping, pong](func(ctx context.Context, p ping) (pong, error) {
		tr.add("handler")
		return pong{}, nil
	})
	if err := registry.RegisterRequestHandler[ping](reg, handler); err != nil {
		t.Fatalf("register: %v", err)
	}

	m := mediator.New(reg)
	if _, err := mediator.Send(context.Background(), m, ping{}); err != nil {
		t.Fatalf("send: %v", err)
	}

	want := []string{"global:enter", "typed:enter", "handler", "typed:exit", "global:exit"}
	if !reflect.DeepEqual(tr.steps, want) {
		t.Fatalf("want %v, got %v", want, tr.steps)
	}
}

func Test_Send_ErrorPropagatesUnchanged(t *testing.T) {
	reg := registry.New()
	boom := errors.New("boom")

	handler := cdis.RequestHandlerFunc[failingReq, pong](func(ctx context.Context, r failingReq) (pong, error) {
		return pong{}, boom
	})
	if err := registry.RegisterRequestHandler[failingReq](reg, handler); err != nil {
		t.Fatalf("register: %v", err)
	}

	m := mediator.New(reg)

	_, err := mediator.Send(context.Background(), m, failingReq{})
	if !errors.Is(err, boom) {
		t.Fatalf("want handler error unchanged, got %v", err)
	}
}

func Test_Send_CanceledContext(t *testing.T) {
	reg := registry.New()
	if err := registry.RegisterRequestHandler[ping](reg, pingHandler{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	m := mediator.New(reg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mediator.Send(ctx, m, ping{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

// countingRegistry counts handler resolutions to observe pipeline memoization.
type countingRegistry struct {
	inner    cdis.Registry
	resolves atomic.Int64
}

func (c *countingRegistry) ResolveHandler(t reflect.Type) (cdis.Invoker, bool) {
	c.resolves.Add(1)
	return c.inner.ResolveHandler(t)
}

func (c *countingRegistry) ResolveHandlers(t reflect.Type) []cdis.Executor {
	return c.inner.ResolveHandlers(t)
}

func (c *countingRegistry) ResolveBehaviors(t reflect.Type) []cdis.Behavior {
	return c.inner.ResolveBehaviors(t)
}

func Test_Send_PipelineBuiltOnceAndReused(t *testing.T) {
	reg := registry.New()
	if err := registry.RegisterRequestHandler[ping](reg, pingHandler{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	counting := &countingRegistry{inner: reg}
	m := mediator.New(counting)

	for i := 0; i < 5; i++ {
		if _, err := mediator.Send(context.Background(), m, ping{Msg: "n"}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	if n := counting.resolves.Load(); n != 1 {
		t.Fatalf("want 1 resolution, got %d", n)
	}
}

func Test_Send_MissesAreNotCached(t *testing.T) {
	reg := registry.New()
	m := mediator.New(reg)

	if _, err := mediator.Send(context.Background(), m, ping{}); !errors.Is(err, merr.ErrHandlerNotFound) {
		t.Fatalf("want ErrHandlerNotFound, got %v", err)
	}

	// Late registration becomes visible because misses were not memoized.
	if err := registry.RegisterRequestHandler[ping](reg, pingHandler{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := mediator.Send(context.Background(), m, ping{Msg: "late"}); err != nil {
		t.Fatalf("send after late registration: %v", err)
	}
}

func Test_Send_ConcurrentFirstBuildIsSafe(t *testing.T) {
	reg := registry.New()
	if err := registry.RegisterRequestHandler[ping](reg, pingHandler{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	m := mediator.New(reg)

	var wg sync.WaitGroup
	errs := make([]error, 32)

	for i := range errs {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = mediator.Send(context.Background(), m, ping{Msg: "c"})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent send %d: %v", i, err)
		}
	}
}

// mismatchRegistry yields an invoker whose result type does not match the
// request's declared response type.
type mismatchRegistry struct{}

func (mismatchRegistry) ResolveHandler(reflect.Type) (cdis.Invoker, bool) {
	return func(ctx context.Context, req any) (any, error) { return 42, nil }, true
}

func (mismatchRegistry) ResolveHandlers(reflect.Type) []cdis.Executor { return nil }

func (mismatchRegistry) ResolveBehaviors(reflect.Type) []cdis.Behavior { return nil }

func Test_Send_ResponseTypeMismatch(t *testing.T) {
	m := mediator.New(mismatchRegistry{})

	_, err := mediator.Send(context.Background(), m, ping{})
	if !errors.Is(err, merr.ErrHandlerTypeMismatch) {
		t.Fatalf("want ErrHandlerTypeMismatch, got %v", err)
	}
}
