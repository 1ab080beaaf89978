// Package peer implements the per-connection state machine of spec.md §4.1:
// connecting -> handshaking -> active -> closing, driving the frame codec,
// the secure channel adapter and the outbound queues, and owning the
// per-connection view of the route table (remote_routes).
package peer

import (
	"net"
	"time"

	"github.com/zhengfish/cloudvpn/pkg/frame"
	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
	"github.com/zhengfish/cloudvpn/pkg/securechan"
	"github.com/zhengfish/cloudvpn/pkg/squeue"
)

// RemoteRoute is one entry in a peer's advertised reachability table, as
// received via route-set/route-diff messages (spec.md §3).
type RemoteRoute struct {
	Ping uint32
	Dist uint16
}

// Limits bounds a Connection's queues and remote route table. It is shared
// (by value) across every connection in a run.
type Limits struct {
	MaxProtoQueue   int
	MaxDataQueue    int
	MaxRemoteRoutes int
	MTU             int
}

// Connection is one peer-to-peer link: owns its I/O handle, state, secure
// channel, queues and the reachability the remote side has advertised.
// Every exported method assumes it is only ever called from the single
// goroutine that drives the mesh daemon (spec.md §5) — there is no internal
// locking.
type Connection struct {
	ID    int
	State State
	Conn  net.Conn // nil in inactive/retry_timeout states
	Chan  *securechan.Channel

	limits Limits
	parser *frame.Parser

	ProtoQ           *squeue.Queue
	DataQ            *squeue.Queue
	SendingFromDataQ bool

	Ping        uint32 // cached RTT estimate, microseconds
	sentPingID  uint8
	pingPending bool
	pingSentAt  time.Time
	lastPingAt  time.Time

	LastRetry time.Time

	// ReconnectAddr is the address to redial on disconnect. Empty means
	// this end only accepts inbound connections for this slot.
	ReconnectAddr string

	remoteRoutes  map[hwaddr.HwAddr]RemoteRoute
	RouteOverflow bool
}

// New creates a Connection in StateInactive (if reconnectAddr is non-empty)
// or ready to be placed in StateAccepting by the caller.
func New(id int, limits Limits, reconnectAddr string) *Connection {
	return &Connection{
		ID:            id,
		State:         StateInactive,
		limits:        limits,
		parser:        frame.NewParser(frame.MaxPayload(limits.MTU)),
		ProtoQ:        squeue.New(limits.MaxProtoQueue),
		DataQ:         squeue.New(limits.MaxDataQueue),
		ReconnectAddr: reconnectAddr,
		remoteRoutes:  make(map[hwaddr.HwAddr]RemoteRoute),
	}
}

// Parser returns the connection's frame parser, for the reader goroutine to
// feed with freshly read bytes.
func (c *Connection) Parser() *frame.Parser {
	return c.parser
}

// CanWriteProto reports whether proto_q has room for another message, per
// spec.md §4.4.
func (c *Connection) CanWriteProto() bool {
	return c.ProtoQ.Len() < c.ProtoQ.Cap()
}

// CanWriteData reports whether data_q has room for another message.
func (c *Connection) CanWriteData() bool {
	return c.DataQ.Len() < c.DataQ.Cap()
}

// enqueue encodes typ/special/payload and pushes it to q.
func (c *Connection) enqueue(q *squeue.Queue, typ frame.Type, special uint8, payload []byte) error {
	buf, err := frame.Encode(typ, special, payload, frame.MaxPayload(c.limits.MTU))
	if err != nil {
		return err
	}
	return q.Push(buf)
}

// EnqueueData queues an opaque forwarded frame on the data queue.
func (c *Connection) EnqueueData(payload []byte) error {
	return c.enqueue(c.DataQ, frame.TypeData, 0, payload)
}

// EnqueueBroadcast queues a broadcast frame (with its origin id prefix) on
// the data queue.
func (c *Connection) EnqueueBroadcast(id uint32, payload []byte) error {
	return c.enqueue(c.DataQ, frame.TypeBroadcast, 0, frame.EncodeBroadcast(id, payload))
}

// EnqueueRouteSet queues a full route-set snapshot on the protocol queue.
func (c *Connection) EnqueueRouteSet(entries []frame.RouteEntry) error {
	return c.enqueue(c.ProtoQ, frame.TypeRouteSet, 0, frame.EncodeRouteEntries(entries))
}

// EnqueueRouteDiff queues an incremental route update on the protocol
// queue.
func (c *Connection) EnqueueRouteDiff(entries []frame.RouteEntry) error {
	return c.enqueue(c.ProtoQ, frame.TypeRouteDiff, 0, frame.EncodeRouteEntries(entries))
}

// EnqueueRouteRequest queues a request for the peer's full route-set.
func (c *Connection) EnqueueRouteRequest() error {
	return c.enqueue(c.ProtoQ, frame.TypeRouteRequest, 0, nil)
}

// EnqueuePong queues a pong echoing id.
func (c *Connection) EnqueuePong(id uint8) error {
	return c.enqueue(c.ProtoQ, frame.TypePong, id, nil)
}

// NextWrite returns the bytes that should be written next (from whichever
// queue is currently draining, per spec.md §4.4's strict proto-over-data
// priority with partial-write resume), and which queue they came from.
func (c *Connection) NextWrite() (buf []byte, fromData bool, ok bool) {
	if c.SendingFromDataQ {
		if b, has := c.DataQ.Front(); has {
			return b, true, true
		}
		c.SendingFromDataQ = false
	}
	if b, has := c.ProtoQ.Front(); has {
		return b, false, true
	}
	if b, has := c.DataQ.Front(); has {
		c.SendingFromDataQ = true
		return b, true, true
	}
	return nil, false, false
}

// AdvanceWrite records that n bytes of the in-flight buffer were written.
// Once a data buffer is fully written, SendingFromDataQ is cleared so that
// proto_q is served first again on the next NextWrite.
func (c *Connection) AdvanceWrite(n int, fromData bool) {
	if fromData {
		if b, has := c.DataQ.Front(); has && n >= len(b) {
			c.SendingFromDataQ = false
		}
		c.DataQ.Advance(n)
	} else {
		c.ProtoQ.Advance(n)
	}
}

// HasPendingOutput reports whether either queue still has bytes to write.
func (c *Connection) HasPendingOutput() bool {
	return !c.ProtoQ.Empty() || !c.DataQ.Empty()
}
