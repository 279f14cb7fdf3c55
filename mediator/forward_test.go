package mediator_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/next-trace/scg-mediator/adapters/inmemory"
	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
	merr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/mediator"
	"github.com/next-trace/scg-mediator/registry"
)

type orderShipped struct {
	ID    string
	Items int
}

func (orderShipped) Topic() string { return "orders.shipped" }

type unserializable struct {
	Ch chan int
}

func (unserializable) Topic() string { return "never" }

type stampPropagator struct{}

func (stampPropagator) Inject(ctx context.Context, headers map[string]string) {
	headers["traceparent"] = "00-abc"
}

type failingForwarder struct{ err error }

func (f failingForwarder) Forward(
	ctx context.Context,
	topic, key string,
	body []byte,
	headers map[string]string,
) error {
	return f.err
}

func Test_ForwardingHandler_SerializesAndRoutes(t *testing.T) {
	fwd := inmemory.New()

	h := mediator.NewForwardingHandler[orderShipped](fwd)
	h.Propagator = stampPropagator{}
	h.Options = cdis.ForwardOptions{Key: "o1", Headers: map[string]string{"source": "shop"}}

	if err := h.Handle(context.Background(), orderShipped{ID: "o1", Items: 3}); err != nil {
		t.Fatalf("handle: %v", err)
	}

	msgs := fwd.Recorded()
	if len(msgs) != 1 {
		t.Fatalf("want 1 forwarded message, got %d", len(msgs))
	}

	m := msgs[0]
	if m.Topic != "orders.shipped" || m.Key != "o1" {
		t.Fatalf("routing wrong: topic=%s key=%s", m.Topic, m.Key)
	}

	var decoded orderShipped
	if err := json.Unmarshal(m.Body, &decoded); err != nil || decoded.Items != 3 {
		t.Fatalf("body mismatch: %s (%v)", m.Body, err)
	}

	if m.Headers["source"] != "shop" || m.Headers["traceparent"] != "00-abc" {
		t.Fatalf("headers wrong: %+v", m.Headers)
	}
}

func Test_ForwardingHandler_TopicOverride(t *testing.T) {
	fwd := inmemory.New()

	h := mediator.NewForwardingHandler[orderShipped](fwd)
	h.Options = cdis.ForwardOptions{TopicOverride: "audit"}

	if err := h.Handle(context.Background(), orderShipped{ID: "x"}); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := fwd.Recorded()[0].Topic; got != "audit" {
		t.Fatalf("want override topic, got %s", got)
	}
}

func Test_ForwardingHandler_Errors(t *testing.T) {
	// serialization failure
	h := mediator.NewForwardingHandler[unserializable](inmemory.New())
	if err := h.Handle(context.Background(), unserializable{Ch: make(chan int)}); !errors.Is(err, merr.ErrSerializationFailed) {
		t.Fatalf("want ErrSerializationFailed, got %v", err)
	}

	// forwarder failure wraps
	h2 := mediator.NewForwardingHandler[orderShipped](failingForwarder{err: errors.New("down")})
	if err := h2.Handle(context.Background(), orderShipped{}); !errors.Is(err, merr.ErrForwardFailed) {
		t.Fatalf("want ErrForwardFailed, got %v", err)
	}

	// context errors pass through unchanged
	h3 := mediator.NewForwardingHandler[orderShipped](failingForwarder{err: context.Canceled})
	if err := h3.Handle(context.Background(), orderShipped{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}

	// missing forwarder
	h4 := &mediator.ForwardingHandler[orderShipped]{}
	if err := h4.Handle(context.Background(), orderShipped{}); !errors.Is(err, merr.ErrForwardFailed) {
		t.Fatalf("want ErrForwardFailed for nil forwarder, got %v", err)
	}
}

func Test_ForwardingHandler_RegistersLikeAnyHandler(t *testing.T) {
	reg := registry.New()
	fwd := inmemory.New()

	registry.RegisterNotificationHandler[orderShipped](reg, mediator.NewForwardingHandler[orderShipped](fwd))

	m := mediator.New(reg)
	if err := m.Publish(context.Background(), orderShipped{ID: "o9"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(fwd.Recorded()) != 1 {
		t.Fatalf("notification was not forwarded")
	}
}
