package inmemory

import (
	"context"
	"sync"

	cdis "github.com/next-trace/scg-mediator/contract/dispatch"
)

// Message is one recorded forward call.
type Message struct {
	Topic   string
	Key     string
	Body    []byte
	Headers map[string]string
}

// Forwarder is a thread-safe in-memory implementation of dispatch.Forwarder.
// It records forwarded notifications for testing and examples.
type Forwarder struct {
	mu       sync.Mutex
	Messages []Message
}

// Ensure Forwarder implements the contract.
var _ cdis.Forwarder = (*Forwarder)(nil)

// New creates a new in-memory forwarder instance.
func New() *Forwarder { return &Forwarder{} }

func (f *Forwarder) Forward(
	ctx context.Context,
	topic, key string,
	body []byte,
	headers map[string]string,
) error {
	_ = ctx

	f.mu.Lock()
	f.Messages = append(f.Messages, Message{Topic: topic, Key: key, Body: body, Headers: headers})
	f.mu.Unlock()

	return nil
}

// Recorded returns a snapshot of the messages forwarded so far.
func (f *Forwarder) Recorded() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Message(nil), f.Messages...)
}
