// Package engine wires fix/transport, fix/codec, fix/timer and
// fix/session.Machine together into a running session, per spec.md §4.6's
// concurrency model: one goroutine decodes frames off the wire, one
// goroutine owns the Machine and drives its event loop, and the two are
// supervised together so either one exiting tears down the whole session.
// This supervised-pair shape is grounded on the errgroup-based
// handleSession of
// _examples/jonasberge-thk-praxisprojekt/lib/relay/protocol_server.go,
// generalized from relaying raw bytes between two peer connections to
// running one side of a FIX session against one connection.
package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solarflux/fixengine/lib/fix/codec"
	"github.com/solarflux/fixengine/lib/fix/session"
	"github.com/solarflux/fixengine/lib/fix/timer"
	"github.com/solarflux/fixengine/lib/fix/transport"
)

// Runner owns one session's transport and drives its Machine from a
// single event-loop goroutine, per spec.md §5.
type Runner struct {
	machine *session.Machine
	tr      transport.Transport
	cd      *codec.Codec
	timers  *timer.Service
	log     *zap.Logger

	events   chan session.Event
	shutdown chan string
}

// NewRunner constructs a Runner for an already-built Machine and the
// transport it should read from and write to. The Machine, codec and
// timer service must all have been constructed for the same session;
// NewInitiator/RunAcceptor build this triple consistently.
func NewRunner(m *session.Machine, tr transport.Transport, cd *codec.Codec, timers *timer.Service, log *zap.Logger) *Runner {
	return &Runner{
		machine:  m,
		tr:       tr,
		cd:       cd,
		timers:   timers,
		log:      log,
		events:   make(chan session.Event, 16),
		shutdown: make(chan string, 1),
	}
}

// Shutdown requests an orderly logout. It is safe to call once from any
// goroutine; a second call while one is already pending is a no-op.
func (r *Runner) Shutdown(reason string) {
	select {
	case r.shutdown <- reason:
	default:
	}
}

// Run starts the session: it sends the initiator's first Logon (if this
// side is the initiator) and then blocks until the session reaches a
// terminal state, the transport is lost, or ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer r.timers.Close()

	var eg errgroup.Group
	eg.Go(func() error { return r.readLoop(ctx) })
	eg.Go(func() error {
		// However the event loop ends, unblock readLoop's pending Decode.
		defer func() { cancel(); _ = r.tr.Close() }()
		return r.eventLoop(ctx, cancel)
	})

	out, err := r.machine.Start(ctx)
	if err != nil {
		cancel()
		_ = r.tr.Close()
		_ = eg.Wait()
		return err
	}
	if err := r.writeOutcome(out); err != nil {
		cancel()
		_ = r.tr.Close()
		_ = eg.Wait()
		return err
	}

	return eg.Wait()
}

// readLoop decodes frames off the transport and hands them to the event
// loop. A decode error means the connection is no longer speaking FIX
// (EOF, a corrupted stream, or it was closed out from under us); either
// way the loop reports it as a TransportClosed event and returns.
func (r *Runner) readLoop(ctx context.Context) error {
	dec := r.cd.NewDecoder(r.tr)
	for {
		msg, err := dec.Decode()
		if err != nil {
			select {
			case r.events <- session.TransportClosed{Err: err}:
			case <-ctx.Done():
			}
			return nil
		}
		select {
		case r.events <- session.FrameReceived{Message: msg}:
		case <-ctx.Done():
			return nil
		}
	}
}

// eventLoop is the session's single goroutine per spec.md §5: every
// FrameReceived, TimerFired, TransportClosed and Shutdown event is fed
// to Machine.Step here, one at a time, and the resulting Outcome is
// written back to the transport before the next event is considered.
func (r *Runner) eventLoop(ctx context.Context, cancel context.CancelFunc) error {
	for {
		select {
		case ev := <-r.events:
			out, err := r.machine.Step(ctx, ev)
			if err != nil {
				return err
			}
			if werr := r.writeOutcome(out); werr != nil {
				return werr
			}
			if _, closed := ev.(session.TransportClosed); closed {
				cancel()
				return nil
			}
			if out.Close {
				cancel()
				_ = r.tr.Close()
				return nil
			}

		case id := <-r.timers.Fired():
			out, err := r.machine.Step(ctx, session.TimerFired{ID: id})
			if err != nil {
				return err
			}
			if werr := r.writeOutcome(out); werr != nil {
				return werr
			}
			if out.Close {
				cancel()
				_ = r.tr.Close()
				return nil
			}

		case reason := <-r.shutdown:
			out, err := r.machine.Step(ctx, session.Shutdown{Reason: reason})
			if err != nil {
				return err
			}
			if werr := r.writeOutcome(out); werr != nil {
				return werr
			}
			if out.Close {
				cancel()
				_ = r.tr.Close()
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}

func (r *Runner) writeOutcome(out session.Outcome) error {
	for _, frame := range out.Send {
		if _, err := r.tr.Write(frame); err != nil {
			return err
		}
	}
	return nil
}
