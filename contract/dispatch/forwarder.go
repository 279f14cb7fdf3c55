package dispatch

import "context"

// Forwarder abstracts handing a serialized notification to an external
// broker/bus. Library users provide an implementation that maps to
// Kafka/NATS/RabbitMQ etc.
type Forwarder interface {
	Forward(ctx context.Context, topic, key string, body []byte, headers map[string]string) error
}

// ForwardOptions controls notification forwarding.
type ForwardOptions struct {
	TopicOverride string
	Key           string
	Headers       map[string]string
}
