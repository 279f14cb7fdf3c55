package mediator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// ForwardingHandler is a notification handler that serializes routed
// notifications and hands them to a Forwarder (broker adapter). Register it
// like any other notification handler to bridge in-process notifications to
// an external bus.
type ForwardingHandler[N cdis.Routed] struct {
	Forwarder  cdis.Forwarder
	Propagator cdis.HeaderPropagator // optional, for context propagation into headers
	Options    cdis.ForwardOptions
}

// NewForwardingHandler constructs a ForwardingHandler over a Forwarder.
func NewForwardingHandler[N cdis.Routed](f cdis.Forwarder) *ForwardingHandler[N] {
	return &ForwardingHandler[N]{Forwarder: f}
}

func (h *ForwardingHandler[N]) Handle(ctx context.Context, n N) error {
	if h.Forwarder == nil {
		return fmt.Errorf("forward %T: %w", n, merr.ErrForwardFailed)
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("forward %T serialize: %w", n, errors.Join(merr.ErrSerializationFailed, err))
	}

	topic := h.Options.TopicOverride
	if topic == "" {
		topic = n.Topic()
	}

	headers := make(map[string]string, len(h.Options.Headers))
	for k, v := range h.Options.Headers {
		headers[k] = v
	}

	if h.Propagator != nil {
		h.Propagator.Inject(ctx, headers)
	}

	if err := h.Forwarder.Forward(ctx, topic, h.Options.Key, body, headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("forward %T: %w", n, errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}
