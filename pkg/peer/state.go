package peer

// State is one of the connection lifecycle states of spec.md §4.1.
type State int

const (
	// StateInactive is the initial state of an outbound-capable connection
	// with no socket yet.
	StateInactive State = iota
	// StateRetryTimeout means a previous connection attempt or active
	// session died and the connection is waiting out its retry backoff.
	StateRetryTimeout
	// StateConnecting means a TCP-level connect is in flight.
	StateConnecting
	// StateSSLConnecting means the secure transport handshake is in
	// flight (outbound or inbound).
	StateSSLConnecting
	// StateAccepting means an inbound socket was accepted but the secure
	// handshake has not yet been initiated.
	StateAccepting
	// StateActive means the handshake succeeded and the connection is
	// exchanging data/control messages normally.
	StateActive
	// StateClosing means the connection is shutting down. Reset releases
	// the channel and handle and discards anything still queued.
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateRetryTimeout:
		return "retry_timeout"
	case StateConnecting:
		return "connecting"
	case StateSSLConnecting:
		return "ssl_connecting"
	case StateAccepting:
		return "accepting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}
