// Package meshd wires every other package into the running daemon: the
// process-wide singletons of spec.md §9 (route table, registry, broadcast
// window, listener set) live as fields of Hub, and Hub.Run is the periodic
// driver of §4.8.
//
// Concurrency model: spec.md §5 describes a single-threaded poll() loop
// where all mutation happens on the one thread that suspends on readiness.
// Go's idiomatic rendering of that contract is not a literal poll() port —
// the netpoller isn't exposed at that granularity — but the actor-on-a-
// channel pattern the teacher already uses in its connection manager: every
// connection gets a private reader goroutine that only moves bytes (it
// never touches shared state) and a private writer goroutine that only
// writes bytes handed to it, while Hub.Run is the single goroutine that
// parses, mutates the route table, registry and queues, and decides what to
// write back. This preserves every guarantee of §5 — single mutator, FIFO
// per connection, no lock held across a suspension point except the one in
// pkg/status — while being how this kind of server is actually written in
// Go.
package meshd

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/zhengfish/cloudvpn/pkg/broadcast"
	"github.com/zhengfish/cloudvpn/pkg/config"
	"github.com/zhengfish/cloudvpn/pkg/connmgr"
	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
	"github.com/zhengfish/cloudvpn/pkg/peer"
	"github.com/zhengfish/cloudvpn/pkg/registry"
	"github.com/zhengfish/cloudvpn/pkg/routetable"
	"github.com/zhengfish/cloudvpn/pkg/securechan"
	"github.com/zhengfish/cloudvpn/pkg/status"
	"github.com/zhengfish/cloudvpn/pkg/tunnel"
)

// Hub owns every process-wide singleton and runs the daemon's single
// mutating goroutine.
type Hub struct {
	cfg    config.P2P
	log    *zap.Logger
	tlsCfg *tls.Config

	reg     *registry.Registry
	routes  *routetable.Table
	bwindow *broadcast.Window
	conns   *connmgr.Manager
	tun     *tunnel.Interface
	st      *status.Collector
	io      map[int]*connIO

	events chan any

	nextPeerID      int
	nextBroadcastID uint32
}

// New creates a Hub from its configuration and collaborators. tlsCfg drives
// every secure channel this Hub creates, both inbound and outbound; how it
// is built (certificates, trust roots) is entirely the operator's concern
// per spec.md §1's non-goal of key management.
func New(cfg config.P2P, log *zap.Logger, tlsCfg *tls.Config, tun *tunnel.Interface, st *status.Collector) *Hub {
	h := &Hub{
		cfg:     cfg,
		log:     log,
		tlsCfg:  tlsCfg,
		reg:     registry.New(),
		routes:  routetable.New(),
		bwindow: broadcast.New(4096, 5*time.Minute),
		tun:     tun,
		st:      st,
		events:  make(chan any, 256),
	}
	h.conns = connmgr.New(connmgr.Config{
		OnAccept:         h.onAccept,
		DialTimeout:      int(cfg.Timeout / time.Second),
		MaxRetries:       255,
		RetryBaseBackoff: int(cfg.Retry / time.Second),
	})
	return h
}

func (h *Hub) limits() peer.Limits {
	return peer.Limits{
		MaxProtoQueue:   h.cfg.MaxWaitingProtoPackets,
		MaxDataQueue:    h.cfg.MaxWaitingDataPackets,
		MaxRemoteRoutes: h.cfg.MaxRemoteRoutes,
		MTU:             h.cfg.MTU,
	}
}

// StartTunnel launches the private reader goroutine for the local tunnel
// interface, feeding frames into the Hub's event channel the same way a
// peer connection's reader does.
func (h *Hub) StartTunnel() {
	if h.tun == nil {
		return
	}
	go func() {
		buf := make([]byte, h.cfg.MTU+64)
		for {
			n, err := h.tun.ReadFrame(buf)
			if err != nil {
				h.events <- eventTunFrame{err: err}
				return
			}
			cp := append([]byte(nil), buf[:n]...)
			h.events <- eventTunFrame{data: cp}
		}
	}()
}

// Listen opens every configured inbound listener.
func (h *Hub) Listen() error {
	for _, addr := range h.cfg.ListenAddrs {
		if err := h.conns.Listen(addr); err != nil {
			return err
		}
	}
	return nil
}

// AddPeer registers a statically configured outbound-capable peer slot in
// StateInactive, ready to be dialed on the first tick.
func (h *Hub) AddPeer(reconnectAddr string) (*peer.Connection, error) {
	id := h.nextPeerID
	h.nextPeerID++
	c := peer.New(id, h.limits(), reconnectAddr)
	if err := h.reg.Add(c); err != nil {
		return nil, err
	}
	return c, nil
}

// onAccept is called by connmgr's accept loop goroutine on a freshly
// accepted socket. It only ever touches the channel, never shared state, so
// it is safe to run outside the Hub's own goroutine.
func (h *Hub) onAccept(conn net.Conn) {
	h.events <- eventAccept{conn: conn}
}

// Run drives the Hub until ctx is cancelled, implementing the single
// suspension-point main loop of spec.md §5 as a select over the heartbeat
// ticker, the fan-in event channel, and ctx.Done().
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.cfg.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return nil
		case now := <-ticker.C:
			h.tick(now)
		case ev := <-h.events:
			h.handleEvent(ev)
		}
	}
}

func (h *Hub) shutdown() {
	for _, c := range h.reg.All() {
		c.BeginClose()
		if c.Chan != nil {
			_ = c.Chan.Shutdown()
		}
	}
	_ = h.conns.Close()
}

// handleEvent dispatches one item off the fan-in channel. Kept as a
// separate method (rather than inlined in Run's select) so dispatch logic
// is unit-testable without a real event loop.
func (h *Hub) handleEvent(ev any) {
	switch e := ev.(type) {
	case eventAccept:
		h.handleAccept(e.conn)
	case eventReadBytes:
		h.handleReadBytes(e.peerID, e.data, e.err)
	case eventWriteResult:
		h.handleWriteResult(e.peerID, e.n, e.err)
	case eventHandshakeDone:
		h.handleHandshakeDone(e.peerID, e.err)
	case eventDialResult:
		h.handleDialResult(e.peerID, e.conn, e.err)
	case eventTunFrame:
		h.handleTunFrame(e.data, e.err)
	default:
		h.log.Warn("meshd: unknown event", zap.String("type", fmt.Sprintf("%T", ev)))
	}
}

// localHWAddr returns the tunnel's advertised address, the LocalVia source
// for the route table.
func (h *Hub) localHWAddr() (hwaddr.HwAddr, bool) {
	if h.tun == nil {
		return hwaddr.HwAddr{}, false
	}
	return h.tun.LocalAddr(), true
}

// recomputeRoute re-derives the best route to addr from every active peer's
// remote_routes plus the local tunnel address, per spec.md §4.5.
func (h *Hub) recomputeRoute(addr hwaddr.HwAddr) {
	var candidates []routetable.Source
	if local, ok := h.localHWAddr(); ok && local == addr {
		candidates = append(candidates, routetable.Source{Via: routetable.LocalVia, Ping: 0, Dist: 0})
	}
	peerPings := make(map[int]uint32)
	for _, c := range h.reg.Active() {
		peerPings[c.ID] = c.Ping
		if rr, ok := c.RemoteRoutes()[addr]; ok {
			candidates = append(candidates, routetable.Source{Via: c.ID, Ping: rr.Ping, Dist: rr.Dist})
		}
	}
	h.routes.Recompute(addr, candidates, peerPings)
}

// recomputeAllKnownAddrs re-derives routes for every address any active
// peer currently advertises, the local tunnel address, and every address
// still resolved in the table from a prior recompute. Used after a
// route-set replaces a peer's whole table, or a peer disconnects, where a
// diff of exactly which addresses changed isn't cheaply available.
//
// The table's own current contents must be folded into the seen set: an
// address that lost its only advertiser (a peer disconnected, or sent a
// narrower route-set that dropped it) is absent from every active peer's
// remote_routes, but still sits in the table until something recomputes
// it with zero candidates and deletes it (spec.md §3's "deleted when the
// last contributing peer withdraws them").
func (h *Hub) recomputeAllKnownAddrs() {
	seen := make(map[hwaddr.HwAddr]struct{})
	if local, ok := h.localHWAddr(); ok {
		seen[local] = struct{}{}
	}
	for _, c := range h.reg.Active() {
		for addr := range c.RemoteRoutes() {
			seen[addr] = struct{}{}
		}
	}
	for addr := range h.routes.Snapshot() {
		seen[addr] = struct{}{}
	}
	for addr := range seen {
		h.recomputeRoute(addr)
	}
}
