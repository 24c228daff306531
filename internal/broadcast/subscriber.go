// Package broadcast fans change events out to connected subscribers.
package broadcast

import "errors"

// ErrClosed is returned by Send on a subscriber whose transport has
// been closed.
var ErrClosed = errors.New("subscriber closed")

// Subscriber is one live push channel. Implementations adapt the event
// stream to a concrete transport; the dispatcher depends only on this
// capability.
type Subscriber interface {
	// ID is an opaque identifier, stable for the subscriber's lifetime.
	ID() string

	// Send delivers one serialized event. Returns ErrClosed (or a
	// transport error) when the channel is no longer usable.
	Send(data []byte) error

	// IsOpen reports whether the channel can accept sends.
	IsOpen() bool

	// Close shuts the channel down. Safe to call more than once.
	Close() error
}
