package peer

import (
	"net"
	"time"

	"github.com/zhengfish/cloudvpn/pkg/frame"
	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
	"github.com/zhengfish/cloudvpn/pkg/securechan"
)

// BeginConnect transitions an inactive connection into connecting, per
// spec.md §4.1, recording the attempt time for retry-backoff bookkeeping.
func (c *Connection) BeginConnect(now time.Time) {
	c.State = StateConnecting
	c.LastRetry = now
}

// BeginAccept transitions a freshly accepted socket into accepting, ready
// for the secure handshake to be driven.
func (c *Connection) BeginAccept(conn net.Conn) {
	c.Conn = conn
	c.State = StateAccepting
}

// BeginHandshake attaches conn and ch and moves into ssl_connecting, from
// either connecting (outbound) or accepting (inbound).
func (c *Connection) BeginHandshake(conn net.Conn, ch *securechan.Channel) {
	c.Conn = conn
	c.Chan = ch
	c.State = StateSSLConnecting
}

// Activate moves a connection whose handshake just completed into active
// and resets its keepalive clock.
func (c *Connection) Activate(now time.Time) {
	c.State = StateActive
	c.lastPingAt = now
	c.pingPending = false
}

// BeginClose moves the connection into closing (spec.md §4.1). It only
// changes State; it neither drains the queues nor releases the channel or
// handle.
func (c *Connection) BeginClose() {
	if c.State == StateClosing {
		return
	}
	c.State = StateClosing
}

// Reset releases the connection's socket and channel and returns it to
// either retry_timeout (if it has a reconnect address and should redial)
// or inactive (if it only ever accepts inbound connections), clearing all
// per-session state. now is recorded for retry backoff.
func (c *Connection) Reset(now time.Time) {
	c.Conn = nil
	c.Chan = nil
	c.parser = frame.NewParser(frame.MaxPayload(c.limits.MTU))
	c.ProtoQ.Reset()
	c.DataQ.Reset()
	c.SendingFromDataQ = false
	c.pingPending = false
	c.sentPingID = 0
	c.Ping = 0
	c.remoteRoutes = make(map[hwaddr.HwAddr]RemoteRoute)
	c.RouteOverflow = false
	c.LastRetry = now

	if c.ReconnectAddr != "" {
		c.State = StateRetryTimeout
	} else {
		c.State = StateInactive
	}
}

// RetryDue reports whether a connection in retry_timeout has waited out
// its backoff and should be redialed.
func (c *Connection) RetryDue(now time.Time, backoff time.Duration) bool {
	return c.State == StateRetryTimeout && now.Sub(c.LastRetry) >= backoff
}
