package meshd

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zhengfish/cloudvpn/pkg/broadcast"
	"github.com/zhengfish/cloudvpn/pkg/frame"
	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
	"github.com/zhengfish/cloudvpn/pkg/peer"
	"github.com/zhengfish/cloudvpn/pkg/routetable"
)

func errUnknownFrameType(t frame.Type) error {
	return fmt.Errorf("meshd: unknown frame type %s", t)
}

// handleInboundFrame dispatches one decoded frame from c, per spec.md
// §4.3's tagged-variant dispatch: packet forwarder, broadcast handler,
// route merger, or ping responder.
func (h *Hub) handleInboundFrame(c *peer.Connection, hdr frame.Header, payload []byte) {
	switch hdr.Type {
	case frame.TypeData:
		h.handleData(c, payload)
	case frame.TypeBroadcast:
		h.handleBroadcast(c, payload)
	case frame.TypeRouteSet:
		h.handleRouteSet(c, payload)
	case frame.TypeRouteDiff:
		h.handleRouteDiff(c, payload)
	case frame.TypeRouteRequest:
		h.handleRouteRequest(c)
	case frame.TypePing:
		h.handlePing(c, hdr.Special)
	case frame.TypePong:
		h.handlePong(c, hdr.Special)
	default:
		h.closeConnection(c, newError(KindProtocolViolation, c.ID, errUnknownFrameType(hdr.Type)))
	}
}

// handleData forwards an opaque layer-2 frame per the route table: look up
// the destination's best route and enqueue onto that peer's data queue, or
// hand it to the local tunnel if the route resolves to LocalVia.
func (h *Hub) handleData(c *peer.Connection, payload []byte) {
	addr, ok := destAddr(payload)
	if !ok {
		return
	}
	h.forwardData(addr, payload)
}

// forwardData looks up addr in the route table and delivers payload either
// to the local tunnel (LocalVia) or the chosen peer's data queue.
func (h *Hub) forwardData(addr hwaddr.HwAddr, payload []byte) {
	entry, ok := h.routes.Lookup(addr)
	if !ok {
		return // no known route: silently drop, per spec.md §4.3
	}
	if entry.Via == routetable.LocalVia {
		if h.tun != nil {
			_ = h.tun.WriteFrame(payload)
		}
		return
	}
	dest, ok := h.reg.ByID(entry.Via)
	if !ok || dest.State != peer.StateActive {
		return
	}
	if err := dest.EnqueueData(payload); err != nil {
		h.log.Debug("meshd: data queue full, dropping", zap.Int("peer_id", dest.ID))
		return
	}
	h.kickWrite(dest)
}

// handleBroadcast de-duplicates and fans a broadcast out to every other
// active peer, per spec.md §4.6 and §8 property 4 ("forwarded at most once
// per (origin, id)").
func (h *Hub) handleBroadcast(c *peer.Connection, payload []byte) {
	id, data, err := frame.DecodeBroadcast(payload)
	if err != nil {
		h.closeConnection(c, newError(KindProtocolViolation, c.ID, err))
		return
	}
	key := broadcast.Key{Origin: c.ID, ID: id}
	if h.bwindow.SeenOrRecord(key) {
		return
	}
	for _, peerConn := range h.reg.Active() {
		if peerConn.ID == c.ID {
			continue
		}
		if err := peerConn.EnqueueBroadcast(id, data); err != nil {
			h.log.Debug("meshd: broadcast queue full, dropping", zap.Int("peer_id", peerConn.ID))
			continue
		}
		h.kickWrite(peerConn)
	}
	if h.tun != nil {
		_ = h.tun.WriteFrame(data)
	}
}

// handleRouteSet applies a full reachability snapshot from c, per spec.md
// §4.3/§4.5 and the atomic-reject overflow policy of §9 open question (b).
func (h *Hub) handleRouteSet(c *peer.Connection, payload []byte) {
	entries, err := frame.DecodeRouteEntries(payload)
	if err != nil {
		h.closeConnection(c, newError(KindProtocolViolation, c.ID, err))
		return
	}
	if overflow := c.ApplyRouteSet(entries); overflow {
		h.log.Warn("meshd: route-set overflow, requesting resync", zap.Int("peer_id", c.ID))
		return
	}
	h.recomputeAllKnownAddrs()
}

// handleRouteDiff applies an incremental update from c.
func (h *Hub) handleRouteDiff(c *peer.Connection, payload []byte) {
	entries, err := frame.DecodeRouteEntries(payload)
	if err != nil {
		h.closeConnection(c, newError(KindProtocolViolation, c.ID, err))
		return
	}
	if c.ApplyRouteDiff(entries) {
		h.log.Warn("meshd: route-diff overflow, requesting resync", zap.Int("peer_id", c.ID))
	}
	for _, e := range entries {
		h.recomputeRoute(e.Addr)
	}
}

// handleRouteRequest answers with a full route-set snapshot built from the
// local route table.
func (h *Hub) handleRouteRequest(c *peer.Connection) {
	h.sendRouteSet(c)
}

func (h *Hub) sendRouteSet(c *peer.Connection) {
	snap := h.routes.Snapshot()
	entries := make([]frame.RouteEntry, 0, len(snap))
	for addr, e := range snap {
		entries = append(entries, frame.RouteEntry{Addr: addr, Ping: h.entryPing(e), Dist: h.entryDist(e)})
	}
	if err := c.EnqueueRouteSet(entries); err != nil {
		h.closeConnection(c, newError(KindQueueFull, c.ID, err))
		return
	}
	h.kickWrite(c)
}

// entryPing/entryDist give the (ping, dist) pair a table Entry is
// advertised as: (0, 0) for a local address; for a route held via a peer,
// the daemon's own cached ping to that peer and a distance of 1, whatever
// ping and distance that peer itself reported for the address.
func (h *Hub) entryPing(e routetable.Entry) uint32 {
	if e.Via == routetable.LocalVia {
		return 0
	}
	if c, ok := h.reg.ByID(e.Via); ok {
		return c.Ping
	}
	return 0
}

func (h *Hub) entryDist(e routetable.Entry) uint16 {
	if e.Via == routetable.LocalVia {
		return 0
	}
	return 1
}

func (h *Hub) handlePing(c *peer.Connection, id uint8) {
	if err := c.EnqueuePong(id); err != nil {
		h.closeConnection(c, newError(KindQueueFull, c.ID, err))
		return
	}
	h.kickWrite(c)
}

func (h *Hub) handlePong(c *peer.Connection, id uint8) {
	c.NotePong(id, time.Now())
}

// localBroadcastOrigin is the broadcast-window origin used for frames the
// local tunnel itself introduces into the mesh, distinct from any real
// PeerID (PeerIDs are non-negative, per spec.md §3).
const localBroadcastOrigin = -1

// handleTunFrame forwards a frame read off the local tunnel interface into
// the mesh: a broadcast-destined frame is flooded to every active peer and
// assigned this daemon's own (origin, id) de-duplication key, while a
// unicast-destined frame is routed via the table as usual.
func (h *Hub) handleTunFrame(data []byte, err error) {
	if err != nil {
		h.log.Error("meshd: tunnel read failed", zap.Error(err))
		return
	}
	addr, ok := destAddr(data)
	if !ok {
		return
	}
	if addr.IsBroadcast() {
		h.originateBroadcast(data)
		return
	}
	h.forwardData(addr, data)
}

// originateBroadcast floods data to every active peer under a fresh id in
// this daemon's own broadcast sequence, recording it in the de-duplication
// window so an echo that loops back through the mesh is dropped.
func (h *Hub) originateBroadcast(data []byte) {
	id := h.nextBroadcastID
	h.nextBroadcastID++
	h.bwindow.SeenOrRecord(broadcast.Key{Origin: localBroadcastOrigin, ID: id})
	for _, c := range h.reg.Active() {
		if err := c.EnqueueBroadcast(id, data); err != nil {
			h.log.Debug("meshd: broadcast queue full, dropping", zap.Int("peer_id", c.ID))
			continue
		}
		h.kickWrite(c)
	}
}

// destAddr extracts the destination hardware address a forwarded frame
// carries in its first Size bytes, the minimal framing this daemon needs
// from the tunnel's layer-2 payload to route it.
func destAddr(payload []byte) (hwaddr.HwAddr, bool) {
	if len(payload) < hwaddr.Size {
		return hwaddr.HwAddr{}, false
	}
	addr, err := hwaddr.FromBytes(payload[:hwaddr.Size])
	if err != nil {
		return hwaddr.HwAddr{}, false
	}
	return addr, true
}
