// Package securechan adapts an already-initialized encrypted byte stream
// (spec.md §1, §6) to the handshake/read/write/shutdown contract the
// connection state machine drives. It wraps crypto/tls.Conn, translating
// its blocking calls and error values into the WantRead/WantWrite/Closed/Err
// vocabulary spec.md §6 specifies for the transport primitive collaborator.
package securechan

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
)

// Result is the outcome of a Handshake, Read or Write call.
type Result int

const (
	// Done means the operation completed; for Read/Write, the returned int
	// holds the byte count.
	Done Result = iota
	// WantRead means the underlying transport would block on a read; the
	// caller should wait for read-readiness and retry.
	WantRead
	// WantWrite means the underlying transport would block on a write; the
	// caller should wait for write-readiness and retry.
	WantWrite
	// ClosedResult means the peer cleanly closed the stream.
	ClosedResult
	// ErrResult means a fatal, non-recoverable error occurred.
	ErrResult
)

// Channel wraps a net.Conn in TLS behind the poll-friendly
// operations the connection state machine needs. It plays the role
// comm.h's `SSL*ssl; BIO*bio;` pair played in the C original.
type Channel struct {
	conn       *tls.Conn
	handshaken bool
	lastErr    error
}

// New wraps an already-dialed or already-accepted net.Conn with TLS using
// cfg. The handshake itself is not performed here; call HandshakeStep until
// it reports Done.
func New(raw net.Conn, cfg *tls.Config, isClient bool) *Channel {
	var conn *tls.Conn
	if isClient {
		conn = tls.Client(raw, cfg)
	} else {
		conn = tls.Server(raw, cfg)
	}
	return &Channel{conn: conn}
}

// HandshakeStep advances the TLS handshake. It must be called repeatedly
// (driven by poll readiness on the underlying fd) until it returns Done or
// an error result. crypto/tls.Conn negotiates handshake direction itself,
// so a timed-out handshake step is reported as WantRead; the caller polls
// for readability either way since TLS record exchange during handshake is
// rarely write-bound on an already-connected socket.
func (c *Channel) HandshakeStep() Result {
	if c.handshaken {
		return Done
	}
	err := c.conn.Handshake()
	if err == nil {
		c.handshaken = true
		return Done
	}
	return c.classify(err, WantRead)
}

// Read reads into buf, returning the byte count on Done.
func (c *Channel) Read(buf []byte) (int, Result) {
	n, err := c.conn.Read(buf)
	if err == nil {
		return n, Done
	}
	if n > 0 && errors.Is(err, io.EOF) {
		// Some payload plus EOF: surface the bytes now, the close follows
		// on the next call.
		return n, Done
	}
	return n, c.classify(err, WantRead)
}

// Write writes buf, returning the byte count on Done (which may be a short
// write per spec.md §4.4/§8 S6 — the caller advances its send queue by
// exactly that many bytes).
func (c *Channel) Write(buf []byte) (int, Result) {
	n, err := c.conn.Write(buf)
	if err == nil {
		return n, Done
	}
	return n, c.classify(err, WantWrite)
}

// Shutdown performs a best-effort clean close of the underlying stream.
func (c *Channel) Shutdown() error {
	return c.conn.Close()
}

// LastErr returns the most recent fatal error observed, if any.
func (c *Channel) LastErr() error {
	return c.lastErr
}

// classify turns a crypto/tls error into a Result. A timeout is mapped to
// wouldBlock (the direction the caller was attempting); any other error is
// fatal. The caller is expected to set an I/O deadline before each
// Read/Write/HandshakeStep so that "would block" can be observed at all —
// crypto/tls.Conn otherwise blocks indefinitely.
func (c *Channel) classify(err error, wouldBlock Result) Result {
	if errors.Is(err, io.EOF) {
		return ClosedResult
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return wouldBlock
	}
	c.lastErr = err
	return ErrResult
}
