package dispatch

// Request is a marker interface that binds a request type to its response
// type R at compile time. A request should have exactly one handler.
// Embed RequestBase[R] into request structs to implement it.
type Request[R any] interface {
	IsRequest(*R)
}

// RequestBase is an embeddable struct that implements Request[R].
type RequestBase[R any] struct{}

func (RequestBase[R]) IsRequest(*R) {}

// Notification is a marker interface for broadcast events. Zero or more
// handlers may be registered per notification type; no response is produced.
type Notification interface{}

// Routed marks notifications destined for an external broker. Topic() guides
// routing when the notification is handed to a Forwarder.
type Routed interface{ Topic() string }
