package meshd

import (
	"errors"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/zhengfish/cloudvpn/pkg/frame"
	"github.com/zhengfish/cloudvpn/pkg/peer"
	"github.com/zhengfish/cloudvpn/pkg/securechan"
)

// errConnectionClosed marks a read/write loop ending because the peer (or
// this end) closed the stream cleanly, as opposed to a transport error.
var errConnectionClosed = errors.New("meshd: connection closed")

// connIO is the bookkeeping the Hub's goroutine needs per connection beyond
// what peer.Connection itself stores: the channel that feeds its private
// writer goroutine and whether a write is currently outstanding. It is only
// ever touched from Hub.Run.
type connIO struct {
	writeCh   chan []byte
	writing   bool
	writeData bool // whether the in-flight write came from DataQ
}

func (h *Hub) ensureIO(peerID int) *connIO {
	if h.io == nil {
		h.io = make(map[int]*connIO)
	}
	io, ok := h.io[peerID]
	if !ok {
		io = &connIO{writeCh: make(chan []byte, 1)}
		h.io[peerID] = io
	}
	return io
}

// handleAccept wraps a freshly accepted socket in a Connection and starts
// its secure channel handshake, per spec.md §4.7.
func (h *Hub) handleAccept(conn net.Conn) {
	id := h.nextPeerID
	h.nextPeerID++
	c := peer.New(id, h.limits(), "")
	c.BeginAccept(conn)
	if err := h.reg.Add(c); err != nil {
		h.log.Error("meshd: register accepted connection", zap.Error(err))
		_ = conn.Close()
		return
	}
	h.beginHandshake(c, conn, false)
}

// beginOutbound starts an outbound dial for an inactive connection, per
// spec.md §4.1's inactive -> connecting transition.
func (h *Hub) beginOutbound(c *peer.Connection) {
	c.BeginConnect(time.Now())
	addr := c.ReconnectAddr
	peerID := c.ID
	go func() {
		conn, err := h.conns.Dial(addr)
		h.events <- eventDialResult{peerID: peerID, conn: conn, err: err}
	}()
}

func (h *Hub) handleDialResult(peerID int, conn net.Conn, err error) {
	c, ok := h.reg.ByID(peerID)
	if !ok {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		h.log.Warn("meshd: dial failed", zap.Int("peer_id", peerID), zap.Error(err))
		c.Reset(time.Now())
		return
	}
	h.reg.BindHandle(c, conn)
	h.beginHandshake(c, conn, true)
}

func (h *Hub) beginHandshake(c *peer.Connection, conn net.Conn, isClient bool) {
	ch := securechan.New(conn, h.tlsCfg, isClient)
	c.BeginHandshake(conn, ch)
	peerID := c.ID
	go func() {
		for {
			switch ch.HandshakeStep() {
			case securechan.Done:
				h.events <- eventHandshakeDone{peerID: peerID}
				return
			case securechan.WantRead, securechan.WantWrite:
				continue
			default:
				h.events <- eventHandshakeDone{peerID: peerID, err: ch.LastErr()}
				return
			}
		}
	}()
}

func (h *Hub) handleHandshakeDone(peerID int, err error) {
	c, ok := h.reg.ByID(peerID)
	if !ok {
		return
	}
	if err != nil {
		h.closeConnection(c, newError(KindTransportHandshake, peerID, err))
		return
	}
	c.Activate(time.Now())
	h.startIO(c)
	if local, ok := h.localHWAddr(); ok {
		h.recomputeRoute(local)
	}
}

// startIO launches the private reader and writer goroutines for an active
// connection. Neither goroutine touches c, the registry, or the route
// table: they only move bytes through channels, preserving spec.md §5's
// single-mutator guarantee.
func (h *Hub) startIO(c *peer.Connection) {
	io := h.ensureIO(c.ID)
	ch := c.Chan
	peerID := c.ID

	go func() {
		buf := make([]byte, h.cfg.MTU+frame.HeaderSize+64)
		for {
			n, res := ch.Read(buf)
			if n > 0 {
				cp := append([]byte(nil), buf[:n]...)
				h.events <- eventReadBytes{peerID: peerID, data: cp}
			}
			if res != securechan.Done {
				var err error
				if res == securechan.ErrResult {
					err = ch.LastErr()
				}
				h.events <- eventReadBytes{peerID: peerID, err: errOrClosed(err)}
				return
			}
		}
	}()

	go func() {
		for buf := range io.writeCh {
			n, res := ch.Write(buf)
			var err error
			if res != securechan.Done {
				err = ch.LastErr()
				if err == nil {
					err = errOrClosed(nil)
				}
			}
			h.events <- eventWriteResult{peerID: peerID, n: n, err: err}
		}
	}()
}

func errOrClosed(err error) error {
	if err != nil {
		return err
	}
	return errConnectionClosed
}

func (h *Hub) handleReadBytes(peerID int, data []byte, readErr error) {
	c, ok := h.reg.ByID(peerID)
	if !ok {
		return
	}
	if len(data) > 0 {
		c.Parser().Feed(data)
		for {
			hdr, payload, ok, err := c.Parser().Next()
			if err != nil {
				h.closeConnection(c, newError(KindProtocolViolation, peerID, err))
				return
			}
			if !ok {
				break
			}
			h.handleInboundFrame(c, hdr, payload)
		}
	}
	if readErr != nil {
		h.closeConnection(c, newError(KindTimeout, peerID, readErr))
	}
}

// kickWrite starts a write for c if one isn't already outstanding and the
// connection has something queued, per spec.md §4.4's priority/partial-
// write-resume rules implemented in peer.Connection.NextWrite.
func (h *Hub) kickWrite(c *peer.Connection) {
	io := h.ensureIO(c.ID)
	if io.writing {
		return
	}
	buf, fromData, ok := c.NextWrite()
	if !ok {
		return
	}
	io.writing = true
	io.writeData = fromData
	io.writeCh <- buf
}

func (h *Hub) handleWriteResult(peerID int, n int, err error) {
	c, ok := h.reg.ByID(peerID)
	if !ok {
		return
	}
	io := h.ensureIO(peerID)
	io.writing = false
	if err != nil {
		h.closeConnection(c, newError(KindTimeout, peerID, err))
		return
	}
	c.AdvanceWrite(n, io.writeData)
	h.kickWrite(c)
}

// closeConnection tears down a connection's IO goroutines and returns it to
// retry_timeout or inactive, per spec.md §4.1's closing path. The channel
// is shut down at once and the handle unbound; nothing still queued on
// proto_q or data_q is written, since Reset discards both queues.
func (h *Hub) closeConnection(c *peer.Connection, cause *Error) {
	h.log.Warn("meshd: closing connection", zap.Int("peer_id", c.ID), zap.String("kind", cause.Kind.String()), zap.Error(cause.Err))
	c.BeginClose()
	if c.Chan != nil {
		_ = c.Chan.Shutdown()
	}
	if io, ok := h.io[c.ID]; ok {
		close(io.writeCh)
		delete(h.io, c.ID)
	}
	h.reg.UnbindHandle(c)
	c.Reset(time.Now())
	h.recomputeAllKnownAddrs()
}
