package memory

import (
	"github.com/next-trace/scg-mediator/adapters/inmemory"
	"github.com/next-trace/scg-mediator/mediator"
	"github.com/next-trace/scg-mediator/registry"
)

// New constructs a mediator backed by a fresh in-process registry along with
// an in-memory forwarder, ready for tests and examples. Register a
// mediator.ForwardingHandler over the returned forwarder for any notification
// type that should leave the process.
func New(opts ...mediator.Option) (*mediator.Mediator, *registry.Registry, *inmemory.Forwarder) {
	reg := registry.New()
	fwd := inmemory.New()
	m := mediator.New(reg, opts...)

	return m, reg, fwd
}
