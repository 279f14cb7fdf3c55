package nats

import (
	"context"
	"errors"
	"fmt"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(subject string, data []byte, headers map[string]string) error
}

// Adapter implements dispatch.Forwarder using an injected NATS-like Client.
// The forwarded topic maps directly to a NATS subject; a non-empty key is
// carried as a "key" header since NATS has no native record key.
type Adapter struct {
	Client Client
}

// Ensure Adapter implements the contract.
var _ cdis.Forwarder = (*Adapter)(nil)

// New creates a new NATS adapter instance with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c} }

func (a *Adapter) Forward(
	ctx context.Context,
	topic, key string,
	body []byte,
	headers map[string]string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("nats forward: %w", merr.ErrForwardFailed)
	}

	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		h[k] = v
	}

	if key != "" {
		h["key"] = key
	}

	if err := a.Client.Publish(topic, body, h); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("nats forward publish: %w", errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}
