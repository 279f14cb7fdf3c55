package kafka

import (
	"context"
	"errors"
	"fmt"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// Writer is a minimal Kafka-like writer interface.
// Users can adapt franz-go, segmentio/kafka-go, or any other client to this.
type Writer interface {
	Write(topic string, key, value []byte, headers map[string]string) error
}

// Adapter implements dispatch.Forwarder using an injected Writer. The
// forwarded topic maps to a Kafka topic and the key to the record key.
type Adapter struct {
	Writer Writer
}

var _ cdis.Forwarder = (*Adapter)(nil)

// New creates a new Kafka adapter instance with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w} }

func (a *Adapter) Forward(
	ctx context.Context,
	topic, key string,
	body []byte,
	headers map[string]string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Writer == nil {
		return fmt.Errorf("kafka forward: %w", merr.ErrForwardFailed)
	}

	var k []byte
	if key != "" {
		k = []byte(key)
	}

	if err := a.Writer.Write(topic, k, body, headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("kafka forward write: %w", errors.Join(merr.ErrForwardFailed, err))
	}

	return nil
}
