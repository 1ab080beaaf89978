package peer

import (
	"github.com/zhengfish/cloudvpn/pkg/frame"
	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
)

// ApplyRouteSet replaces the peer's whole remote route table with entries,
// per spec.md §4.3. Per §9 open question (b), overflow is treated as an
// atomic reject: if entries would exceed MaxRemoteRoutes the existing table
// is left untouched, RouteOverflow is set, and the caller (the driver) is
// expected to queue a route-request on this connection. A within-bounds
// set clears RouteOverflow and replaces the table wholesale.
func (c *Connection) ApplyRouteSet(entries []frame.RouteEntry) (overflow bool) {
	if len(entries) > c.limits.MaxRemoteRoutes {
		c.RouteOverflow = true
		return true
	}
	table := make(map[hwaddr.HwAddr]RemoteRoute, len(entries))
	for _, e := range entries {
		if e.Withdrawn() {
			continue
		}
		table[e.Addr] = RemoteRoute{Ping: e.Ping, Dist: e.Dist}
	}
	c.remoteRoutes = table
	c.RouteOverflow = false
	return false
}

// ApplyRouteDiff applies withdraw/update entries individually, per
// spec.md §4.3. An entry that would add a new address while the table is
// already at MaxRemoteRoutes is skipped and sets RouteOverflow; the rest of
// the batch is still applied, and the caller should queue a route-request
// after the batch (spec.md: "send a route_request after the
// current batch").
func (c *Connection) ApplyRouteDiff(entries []frame.RouteEntry) (overflow bool) {
	for _, e := range entries {
		if e.Withdrawn() {
			delete(c.remoteRoutes, e.Addr)
			continue
		}
		if _, exists := c.remoteRoutes[e.Addr]; !exists && len(c.remoteRoutes) >= c.limits.MaxRemoteRoutes {
			c.RouteOverflow = true
			overflow = true
			continue
		}
		c.remoteRoutes[e.Addr] = RemoteRoute{Ping: e.Ping, Dist: e.Dist}
	}
	return overflow
}

// RemoteRoutes returns the peer's currently advertised reachability table.
// The returned map must not be mutated by the caller.
func (c *Connection) RemoteRoutes() map[hwaddr.HwAddr]RemoteRoute {
	return c.remoteRoutes
}

// RemoteRouteCount returns the number of entries the peer has advertised.
func (c *Connection) RemoteRouteCount() int {
	return len(c.remoteRoutes)
}
