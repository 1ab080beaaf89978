package peer

import (
	"time"

	"github.com/zhengfish/cloudvpn/pkg/frame"
)

// KeepaliveDue reports whether it is time to issue a new ping, per
// spec.md §4.1: in active state, if now - last_ping > keepalive and no
// ping is pending.
func (c *Connection) KeepaliveDue(now time.Time, keepalive time.Duration) bool {
	return c.State == StateActive && !c.pingPending && now.Sub(c.lastPingAt) > keepalive
}

// SendPing queues a ping with a freshly chosen id and marks one pending.
// id is supplied by the caller so ids can be assigned however the
// driver likes (e.g. a per-connection counter).
func (c *Connection) SendPing(now time.Time, id uint8) error {
	if err := c.enqueue(c.ProtoQ, frame.TypePing, id, nil); err != nil {
		return err
	}
	c.sentPingID = id
	c.pingPending = true
	c.pingSentAt = now
	c.lastPingAt = now
	return nil
}

// PingTimedOut reports whether the outstanding ping (if any) is older than
// timeout, meaning the connection should be declared dead (spec.md §4.1).
func (c *Connection) PingTimedOut(now time.Time, timeout time.Duration) bool {
	return c.pingPending && now.Sub(c.pingSentAt) > timeout
}

// NotePong records a pong reply. If id matches the outstanding ping, it
// updates the cached RTT and clears the pending flag (spec.md §8 property
// 3: at most one outstanding pong expectation, updated exactly once per
// match) and returns true. A non-matching id is ignored and returns false.
func (c *Connection) NotePong(id uint8, now time.Time) bool {
	if !c.pingPending || id != c.sentPingID {
		return false
	}
	c.Ping = uint32(now.Sub(c.pingSentAt).Microseconds())
	c.pingPending = false
	return true
}

// PingPending reports whether a ping is currently outstanding.
func (c *Connection) PingPending() bool {
	return c.pingPending
}
