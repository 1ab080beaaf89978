package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/zhengfish/cloudvpn/pkg/config"
	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
	"github.com/zhengfish/cloudvpn/pkg/meshd"
	"github.com/zhengfish/cloudvpn/pkg/memlock"
	"github.com/zhengfish/cloudvpn/pkg/status"
	"github.com/zhengfish/cloudvpn/pkg/tunnel"
)

// run drives the daemon's full startup/shutdown sequence of SPEC_FULL's
// "Startup sequence" note, mapping each stage's failure to the exit code
// spec.md §6 assigns it: parse config -> lock memory -> init logging ->
// load TLS material (local security) -> init the tunnel interface -> init
// the Hub's event-loop primitives (poll init) -> init comm (listeners plus
// the periodic driver) -> main loop -> comm shutdown -> interface shutdown
// -> unlock memory.
func run(ctx *cli.Context) error {
	cfg, err := config.LoadFile(ctx.String("config"))
	if err != nil {
		return fail(exitConfigParse, err)
	}

	if err := memlock.Lock(); err != nil {
		return fail(exitMemoryLock, fmt.Errorf("lock memory: %w", err))
	}
	defer func() { _ = memlock.Unlock() }()

	log, err := newLogger(cfg.Logger)
	if err != nil {
		return fail(exitConfigParse, fmt.Errorf("init logging: %w", err))
	}
	defer func() { _ = log.Sync() }()

	tlsCfg, err := loadTLSConfig(cfg.TLS)
	if err != nil {
		return fail(exitLocalSecurity, fmt.Errorf("load TLS material: %w", err))
	}

	localAddr, err := hwaddr.Parse(cfg.Tunnel.LocalAddr)
	if err != nil {
		return fail(exitInterfaceInit, fmt.Errorf("parse Tunnel.LocalAddr: %w", err))
	}
	tun, err := tunnel.Open(cfg.Tunnel.Name, localAddr, cfg.P2P.MTU)
	if err != nil {
		return fail(exitInterfaceInit, fmt.Errorf("open tunnel: %w", err))
	}
	defer func() { _ = tun.Close() }()

	st := status.New()
	reg := prometheus.NewRegistry()
	if err := reg.Register(st); err != nil {
		return fail(exitPollInit, fmt.Errorf("register status collector: %w", err))
	}

	hub := meshd.New(cfg.P2P, log, tlsCfg, tun, st)
	hub.StartTunnel()

	for _, p := range cfg.P2P.Peers {
		if _, err := hub.AddPeer(p.ReconnectAddr); err != nil {
			return fail(exitCommInit, fmt.Errorf("add peer: %w", err))
		}
	}
	if err := hub.Listen(); err != nil {
		return fail(exitCommInit, fmt.Errorf("listen: %w", err))
	}

	metricsSrv := startMetricsServer(ctx.String("metrics-addr"), reg, log)
	defer func() {
		if metricsSrv != nil {
			_ = metricsSrv.Close()
		}
	}()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		sig := <-sigCh
		log.Info("signal received, shutting down", zap.Stringer("signal", sig))
		cancel()
	}()

	log.Info("meshd started", zap.String("tunnel", tun.Name()), zap.Strings("listen", cfg.P2P.ListenAddrs))
	if err := hub.Run(runCtx); err != nil {
		return fail(exitCommInit, err)
	}
	return nil
}

// startMetricsServer exposes the status collector over Prometheus's text
// format, the ambient observability surface named in SPEC_FULL's domain
// stack. An empty addr disables it.
func startMetricsServer(addr string, reg *prometheus.Registry, log *zap.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}
