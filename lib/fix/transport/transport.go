// Package transport provides the byte-level connection abstraction named
// L1 in spec.md §2: something an engine.Runner can read framed messages
// from and write framed messages to, without the session layer above it
// knowing whether that connection is a live socket or a test double.
package transport

import (
	"context"
	"io"
)

// Transport is a bidirectional, ordered byte stream plus the ability to
// tear it down from either direction. fix/codec reads and writes framed
// FIX messages directly against the io.Reader/io.Writer it embeds; Close
// is separated out so a context-driven shutdown can interrupt a blocked
// read without requiring the reader itself to be context-aware.
type Transport interface {
	io.Reader
	io.Writer

	// Close releases the underlying connection. Closing unblocks any
	// goroutine currently blocked in Read.
	Close() error

	// LocalAddr and RemoteAddr report the two ends of the connection for
	// logging; implementations that have no meaningful network address
	// (e.g. an in-process pipe used in tests) may return "".
	LocalAddr() string
	RemoteAddr() string
}

// Dialer opens an outbound Transport, the initiator's half of spec.md
// §6's host/port configuration.
type Dialer interface {
	Dial(ctx context.Context, addr string) (Transport, error)
}

// Listener accepts inbound Transports, the acceptor's half.
type Listener interface {
	Accept(ctx context.Context) (Transport, error)
	Close() error
	Addr() string
}
