package meshd

import (
	"errors"
	"time"

	"github.com/zhengfish/cloudvpn/pkg/frame"
	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
	"github.com/zhengfish/cloudvpn/pkg/peer"
	"github.com/zhengfish/cloudvpn/pkg/status"
)

// errPingTimeout marks a connection closed because its outstanding ping
// went unanswered past the configured timeout (spec.md §4.1).
var errPingTimeout = errors.New("meshd: ping timed out")

// tick runs the per-heartbeat work of spec.md §4.8: keepalive pings, dead-
// connection detection, retry-backoff redials, route-diff propagation, and
// a status snapshot refresh.
func (h *Hub) tick(now time.Time) {
	var nextPingID uint8
	dirty := h.routes.FlushDirty()

	for _, c := range h.reg.All() {
		switch c.State {
		case peer.StateActive:
			h.tickActive(c, now, &nextPingID)
		case peer.StateRetryTimeout:
			if c.RetryDue(now, h.cfg.Retry) {
				h.beginOutbound(c)
			}
		case peer.StateInactive:
			if c.ReconnectAddr != "" {
				h.beginOutbound(c)
			}
		}
	}

	if len(dirty) > 0 {
		if len(dirty) > h.cfg.RouteDiffThreshold {
			h.broadcastRouteSet()
		} else {
			h.propagateRouteDiff(dirty)
		}
	}
	h.updateStatus()
}

func (h *Hub) tickActive(c *peer.Connection, now time.Time, nextPingID *uint8) {
	if c.PingTimedOut(now, h.cfg.Timeout) {
		h.closeConnection(c, newError(KindTimeout, c.ID, errPingTimeout))
		return
	}
	if c.KeepaliveDue(now, h.cfg.Keepalive) {
		id := *nextPingID
		*nextPingID++
		if err := c.SendPing(now, id); err != nil {
			h.closeConnection(c, newError(KindQueueFull, c.ID, err))
			return
		}
		h.kickWrite(c)
	}
	if c.RouteOverflow {
		if err := c.EnqueueRouteRequest(); err != nil {
			h.closeConnection(c, newError(KindQueueFull, c.ID, err))
			return
		}
		c.RouteOverflow = false
		h.kickWrite(c)
	}
}

// propagateRouteDiff sends every address that changed since the last tick
// to every active peer, as a withdraw entry for addresses no longer
// resolvable and an update entry otherwise, per spec.md §4.5.
func (h *Hub) propagateRouteDiff(addrs []hwaddr.HwAddr) {
	entries := make([]frame.RouteEntry, 0, len(addrs))
	for _, addr := range addrs {
		e, ok := h.routes.Lookup(addr)
		if !ok {
			entries = append(entries, frame.RouteEntry{Addr: addr, Dist: frame.RouteEntryWithdraw})
			continue
		}
		entries = append(entries, frame.RouteEntry{Addr: addr, Ping: h.entryPing(e), Dist: h.entryDist(e)})
	}
	for _, c := range h.reg.Active() {
		if err := c.EnqueueRouteDiff(entries); err != nil {
			h.closeConnection(c, newError(KindQueueFull, c.ID, err))
			continue
		}
		h.kickWrite(c)
	}
}

// broadcastRouteSet sends a full route-set snapshot to every active peer in
// place of a diff, per spec.md §4.5: once the number of addresses changed
// in one heartbeat exceeds P2P.RouteDiffThreshold, a full resync is cheaper
// on the wire than itemizing every change.
func (h *Hub) broadcastRouteSet() {
	for _, c := range h.reg.Active() {
		h.sendRouteSet(c)
	}
}

// updateStatus refreshes the status.Collector's snapshot, read
// concurrently by the Prometheus HTTP handler goroutine (SPEC_FULL's
// supplemented mutex note).
func (h *Hub) updateStatus() {
	if h.st == nil {
		return
	}
	all := h.reg.All()
	peers := make([]status.PeerStatus, len(all))
	for i, c := range all {
		peers[i] = status.PeerStatus{
			ID:         c.ID,
			State:      c.State.String(),
			ProtoQLen:  c.ProtoQ.Len(),
			DataQLen:   c.DataQ.Len(),
			PingMicros: c.Ping,
		}
	}
	h.st.Update(status.Snapshot{
		Peers:          peers,
		RouteTableSize: h.routes.Len(),
		BroadcastSeen:  h.bwindow.Len(),
	})
}
