package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/solarflux/fixengine/lib/fix/app"
	"github.com/solarflux/fixengine/lib/fix/dict"
	"github.com/solarflux/fixengine/lib/fix/engine"
	"github.com/solarflux/fixengine/lib/fix/monitor"
	"github.com/solarflux/fixengine/lib/fix/session"
	"github.com/solarflux/fixengine/lib/fix/store"
)

// Runtime bundles everything Load produced into what cmd/initiator and
// cmd/acceptor actually run: the endpoint config the engine package
// consumes, the opened store (for the caller to Close), the logger, and
// (if monitor.listen_addr is set) the monitor Hub and the address to
// serve it on.
type Runtime struct {
	Endpoint    engine.EndpointConfig
	Store       store.Store
	Logger      *zap.Logger
	Monitor     *monitor.Hub
	MonitorAddr string
}

// Build wires a loaded Config into a Runtime: it opens the configured
// store, loads the dictionary, constructs the logger, and — if
// monitor.listen_addr is non-empty — builds a monitor.Hub and attaches
// it to every session as a session.Recorder, per SPEC_FULL.md §4.7.
// newApplication receives the constructed logger so the embedding
// program's Application can log through the same sink as everything
// else; pass a func returning app.NopApplication{} or
// app.LoggingApplication{Log: log} for a session with no business logic
// of its own.
func (c *Config) Build(newApplication func(log *zap.Logger) app.Application) (*Runtime, error) {
	logger, err := c.Log.BuildLogger()
	if err != nil {
		return nil, err
	}

	st, err := c.Store.OpenStore()
	if err != nil {
		return nil, err
	}

	d, err := c.loadDictionary()
	if err != nil {
		st.Close()
		return nil, err
	}

	role := session.RoleInitiator
	if c.Role == "acceptor" {
		role = session.RoleAcceptor
	}

	endpoint := engine.EndpointConfig{
		Session: session.Config{
			Identity: session.Identity{
				BeginString:  c.BeginString,
				SenderCompID: c.SenderCompID,
				TargetCompID: c.TargetCompID,
			},
			Role:                role,
			HeartBtInt:          c.HeartbeatTimeout,
			LogonTimeout:        c.LogonTimeout,
			ShutdownTimeout:     c.ShutdownTimeout,
			SendingTimeAccuracy: c.SendingTimeAccuracy,
			ResetSeqNumFlag:     c.ResetSeqNumFlag,
		},
		Dictionary:  d,
		Store:       st,
		Application: newApplication(logger),
		Logger:      logger,
	}

	rt := &Runtime{Endpoint: endpoint, Store: st, Logger: logger}
	if c.Monitor.ListenAddr != "" {
		rt.Monitor = monitor.NewHub(logger)
		rt.MonitorAddr = c.Monitor.ListenAddr
		endpoint.Recorder = rt.Monitor
		rt.Endpoint = endpoint
	}
	return rt, nil
}

func (c *Config) loadDictionary() (*dict.Dictionary, error) {
	if c.Dictionary.Path != "" {
		d, err := dict.LoadFile(c.Dictionary.Path)
		if err != nil {
			return nil, fmt.Errorf("config: load dictionary %s: %w", c.Dictionary.Path, err)
		}
		return d, nil
	}
	d, err := dict.Builtin(c.BeginString)
	if err != nil {
		return nil, fmt.Errorf("config: no builtin dictionary for %s and dictionary.path is unset: %w", c.BeginString, err)
	}
	return d, nil
}
