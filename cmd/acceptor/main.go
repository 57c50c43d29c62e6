// Command acceptor listens for inbound FIX connections and runs one
// session per accepted peer, per spec.md §1's acceptor role: wait for
// the peer's Logon before responding, symmetric to cmd/initiator.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/solarflux/fixengine/lib/fix/app"
	fixconfig "github.com/solarflux/fixengine/lib/fix/config"
	"github.com/solarflux/fixengine/lib/fix/engine"
	"github.com/solarflux/fixengine/lib/fix/transport/tcp"
)

func main() {
	configPath := flag.String("config", "acceptor.yaml", "path to the session config file")
	flag.Parse()

	cfg, err := fixconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("acceptor: load config: %v", err)
	}

	rt, err := cfg.Build(func(logger *zap.Logger) app.Application {
		return app.LoggingApplication{Log: logger}
	})
	if err != nil {
		log.Fatalf("acceptor: build runtime: %v", err)
	}
	defer rt.Store.Close()
	defer rt.Logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var monitorSrv *http.Server
	if rt.Monitor != nil {
		monitorSrv = &http.Server{Addr: rt.MonitorAddr, Handler: rt.Monitor.Handler()}
		go func() {
			if err := monitorSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				rt.Logger.Error("acceptor: monitor server", zap.Error(err))
			}
		}()
		defer rt.Monitor.Shutdown()
	}

	ln, err := tcp.Listen(cfg.Addr())
	if err != nil {
		rt.Logger.Fatal("acceptor: listen", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		ln.Close()
		if monitorSrv != nil {
			monitorSrv.Close()
		}
	}()

	rt.Logger.Info("acceptor: listening", zap.String("addr", cfg.Addr()))
	if err := engine.RunAcceptor(ctx, rt.Endpoint, ln, nil); err != nil {
		rt.Logger.Error("acceptor: stopped", zap.Error(err))
		os.Exit(1)
	}
}
