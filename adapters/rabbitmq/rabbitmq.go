package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// PubMsg is one outbound AMQP publication.
type PubMsg struct {
	Exchange   string
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

// Publisher abstracts channel publication so the adapter can be tested
// without a broker and users can supply their own connection management.
type Publisher interface {
	Publish(ctx context.Context, m PubMsg) error
}

// Adapter implements dispatch.Forwarder over an injected Publisher. The
// forwarded topic becomes the routing key on a topic exchange; a non-empty
// key travels as a header.
type Adapter struct {
	Publisher Publisher
	// Exchange overrides the exchange published to. Empty means the default
	// notifications exchange.
	Exchange string
}

var _ cdis.Forwarder = (*Adapter)(nil)

// New creates a new RabbitMQ adapter instance with the provided publisher.
func New(p Publisher) *Adapter { return &Adapter{Publisher: p} }

func (a *Adapter) Forward(
	ctx context.Context,
	topic, key string,
	body []byte,
	headers map[string]string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Publisher == nil {
		return fmt.Errorf("rabbitmq forward: %w", merr.ErrForwardFailed)
	}

	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		h[k] = v
	}

	if key != "" {
		h["key"] = key
	}

	exchange := a.Exchange
	if exchange == "" {
		exchange = notificationsExchange
	}

	msg := PubMsg{
		Exchange:   exchange,
		RoutingKey: topic,
		Body:       body,
		Headers:    h,
	}

	if err := a.Publisher.Publish(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("rabbitmq forward publish: %w", errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}
