// Command initiator dials a FIX acceptor and runs one session against
// it, per spec.md §1's initiator role: send the first Logon and keep
// the session alive until told to shut down or the peer logs it out.
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
	configPath := flag.String("config", "initiator.yaml", "path to the session config file")
	flag.Parse()

	cfg, err := fixconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("initiator: load config: %v", err)
	}

	rt, err := cfg.Build(func(logger *zap.Logger) app.Application {
		return app.LoggingApplication{Log: logger}
	})
	if err != nil {
		log.Fatalf("initiator: build runtime: %v", err)
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
				rt.Logger.Error("initiator: monitor server", zap.Error(err))
			}
		}()
		defer rt.Monitor.Shutdown()
	}

	runner, err := engine.NewInitiator(ctx, rt.Endpoint, tcp.Dialer{}, cfg.Addr())
	if err != nil {
		rt.Logger.Fatal("initiator: dial", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		runner.Shutdown("shutdown signal received")
		if monitorSrv != nil {
			monitorSrv.Close()
		}
	}()

	if err := runner.Run(ctx); err != nil {
		rt.Logger.Error("initiator: session ended with error", zap.Error(err))
		os.Exit(1)
	}
}
