package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/solarflux/fixengine/lib/fix/app"
	"github.com/solarflux/fixengine/lib/fix/codec"
	"github.com/solarflux/fixengine/lib/fix/dict"
	"github.com/solarflux/fixengine/lib/fix/session"
	"github.com/solarflux/fixengine/lib/fix/store"
	"github.com/solarflux/fixengine/lib/fix/timer"
	"github.com/solarflux/fixengine/lib/fix/transport"
)

// EndpointConfig bundles everything both endpoint constructors below
// need beyond the transport itself: the session parameters, the
// dictionary to encode/decode against, the persistence backend, and the
// embedding program's Application.
type EndpointConfig struct {
	Session     session.Config
	Dictionary  *dict.Dictionary
	Store       store.Store
	Application app.Application
	Logger      *zap.Logger

	// Recorder, if set, is attached to every Machine this config builds,
	// per SPEC_FULL.md §4.7; fix/monitor.Hub implements it.
	Recorder session.Recorder
}

func (c EndpointConfig) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// NewInitiator dials addr and returns a Runner ready to run the
// initiator's half of the Logon handshake, per spec.md §1: an initiator
// dials out and sends the first Logon.
func NewInitiator(ctx context.Context, cfg EndpointConfig, dialer transport.Dialer, addr string) (*Runner, error) {
	cfg.Session.Role = session.RoleInitiator
	tr, err := dialer.Dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("engine: dial %s: %w", addr, err)
	}
	return newRunnerFor(ctx, cfg, tr)
}

// AcceptorHandler is called once per inbound session, after its Runner
// has been constructed but before Run has been started, so the caller
// can observe or track live sessions (e.g. registering them with
// fix/monitor).
type AcceptorHandler func(runner *Runner)

// RunAcceptor accepts connections from ln until ctx is done, spinning up
// one Runner per connection and running each in its own goroutine, per
// spec.md §1: an acceptor listens and waits for the peer's Logon before
// responding, symmetric to NewInitiator.
func RunAcceptor(ctx context.Context, cfg EndpointConfig, ln transport.Listener, onSession AcceptorHandler) error {
	cfg.Session.Role = session.RoleAcceptor
	log := cfg.logger()

	for {
		tr, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("engine: accept: %w", err)
		}

		runner, err := newRunnerFor(ctx, cfg, tr)
		if err != nil {
			log.Error("engine: failed to start session for accepted connection", zap.Error(err))
			_ = tr.Close()
			continue
		}
		if onSession != nil {
			onSession(runner)
		}

		go func() {
			if err := runner.Run(ctx); err != nil {
				log.Error("engine: session ended with error", zap.Error(err))
			}
		}()
	}
}

func newRunnerFor(ctx context.Context, cfg EndpointConfig, tr transport.Transport) (*Runner, error) {
	cd := codec.New(cfg.Dictionary)
	tm := timer.NewService()

	m, err := session.New(ctx, cfg.Session, cfg.Store, cd, tm, cfg.Application, cfg.logger())
	if err != nil {
		tm.Close()
		return nil, fmt.Errorf("engine: build session: %w", err)
	}
	if cfg.Recorder != nil {
		m.SetRecorder(cfg.Recorder)
	}
	return NewRunner(m, tr, cd, tm, cfg.logger()), nil
}
