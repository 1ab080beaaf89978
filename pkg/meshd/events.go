package meshd

import "net"

// eventAccept carries a freshly accepted inbound socket from connmgr's
// accept-loop goroutine into the Hub's single mutating goroutine.
type eventAccept struct {
	conn net.Conn
}

// eventReadBytes carries raw bytes (or a terminal error) from a
// connection's private reader goroutine. The reader never touches the
// connection's Parser or any shared state directly — only Hub.Run does.
type eventReadBytes struct {
	peerID int
	data   []byte
	err    error
}

// eventWriteResult reports how many bytes a connection's private writer
// goroutine actually wrote, so Hub.Run can advance that connection's send
// queue by exactly that many bytes (spec.md §8 S6's partial-write resume).
type eventWriteResult struct {
	peerID int
	n      int
	err    error
}

// eventHandshakeDone reports that a connection's secure channel handshake
// finished, successfully or not.
type eventHandshakeDone struct {
	peerID int
	err    error
}

// eventDialResult reports the outcome of an outbound dial started for a
// connection in StateConnecting.
type eventDialResult struct {
	peerID int
	conn   net.Conn
	err    error
}

// eventTunFrame carries one frame read off the local tunnel interface.
type eventTunFrame struct {
	data []byte
	err  error
}
