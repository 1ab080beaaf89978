package connmgr

import "net"

// Config holds the callbacks and parameters the Manager needs from its
// owner. Adapted from the teacher's connmgr.Config: the address-source
// callback is dropped because spec.md §3 pins a reconnect address per
// connection rather than a shared address-pool source, the OnConnection
// callback is dropped too, and OnAccept still hands a fresh net.Conn back
// to the caller.
type Config struct {
	// OnAccept is called with a freshly accepted inbound socket. The
	// caller is responsible for creating the Connection and driving its
	// handshake.
	OnAccept func(net.Conn)

	// DialTimeout bounds how long an outbound Dial may block.
	DialTimeout int // seconds

	// MaxRetries is the number of successive failed dial attempts after
	// which Backoff stops growing and simply returns its ceiling.
	MaxRetries uint8

	// RetryBaseBackoff is the unit backoff multiplied by the retry count,
	// mirroring the teacher's failed() scaling (`retries * 10` seconds).
	RetryBaseBackoff int // seconds
}
