package meshd

import "fmt"

// Kind is one of the error categories of spec.md §7. The dispatcher maps a
// Kind to a connection-level action (continue/close/retry) without string
// matching.
type Kind int

const (
	// KindNone is the zero value: no error.
	KindNone Kind = iota
	// KindConfigInvalid is fatal at startup.
	KindConfigInvalid
	// KindTransportHandshake means the secure channel handshake failed;
	// the connection closes and may retry.
	KindTransportHandshake
	// KindProtocolViolation means the peer sent a malformed or
	// out-of-contract message; the connection closes, no retry this tick.
	KindProtocolViolation
	// KindWouldBlock is benign and adjusts poll/wait interest.
	KindWouldBlock
	// KindQueueFull means a send queue rejected a push: drop if it was the
	// data queue, fatal (a design bug) if it was the protocol queue.
	KindQueueFull
	// KindTimeout means a ping or handshake exceeded its deadline; the
	// connection closes and retries if configured to.
	KindTimeout
	// KindRouteCapExceeded is non-fatal: it sets the connection's overflow
	// flag and schedules a resync request.
	KindRouteCapExceeded
	// KindShutdown signals the main loop should exit.
	KindShutdown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfigInvalid:
		return "config_invalid"
	case KindTransportHandshake:
		return "transport_handshake"
	case KindProtocolViolation:
		return "protocol_violation"
	case KindWouldBlock:
		return "would_block"
	case KindQueueFull:
		return "queue_full"
	case KindTimeout:
		return "timeout"
	case KindRouteCapExceeded:
		return "route_cap_exceeded"
	case KindShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with the underlying cause and the connection it
// happened on, so the dispatcher can both log and act without re-deriving
// context.
type Error struct {
	Kind   Kind
	PeerID int
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("meshd: %s (peer %d)", e.Kind, e.PeerID)
	}
	return fmt.Sprintf("meshd: %s (peer %d): %v", e.Kind, e.PeerID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, peerID int, err error) *Error {
	return &Error{Kind: kind, PeerID: peerID, Err: err}
}
