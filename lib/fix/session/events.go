package session

import (
	"github.com/solarflux/fixengine/lib/fix/message"
	"github.com/solarflux/fixengine/lib/fix/timer"
)

// Event is the union of inputs Machine.Step accepts, per spec.md §5's
// concurrency model: the session's single event loop consumes exactly
// these four kinds of occurrence, nothing else.
type Event interface{ eventMarker() }

// FrameReceived carries one message already decoded off the transport.
type FrameReceived struct{ Message *message.Message }

// TimerFired carries the ID of an expired named timer.
type TimerFired struct{ ID timer.ID }

// TransportClosed signals that the underlying connection is gone, either
// because the peer closed it or because of a local I/O error.
type TransportClosed struct{ Err error }

// Shutdown requests an orderly logout and teardown, initiated by the
// embedding program rather than by the peer or a timer.
type Shutdown struct{ Reason string }

func (FrameReceived) eventMarker()   {}
func (TimerFired) eventMarker()      {}
func (TransportClosed) eventMarker() {}
func (Shutdown) eventMarker()        {}
