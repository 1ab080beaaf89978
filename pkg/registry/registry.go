// Package registry owns every peer.Connection by PeerID and the transient
// handle index the event loop uses to route readiness events back to a
// connection in O(1), per spec.md §4.7 and §9's "global state... encapsulate
// as owned fields of a top-level context rather than true globals".
package registry

import (
	"fmt"
	"net"

	"github.com/zhengfish/cloudvpn/pkg/peer"
)

// Registry indexes every known connection by PeerID and, while it has a
// live socket, by its net.Conn handle. Like peer.Connection, every exported
// method assumes it is only ever called from the single goroutine that owns
// the mesh daemon's mutable state (spec.md §5); there is no internal lock.
type Registry struct {
	byID     map[int]*peer.Connection
	byHandle map[net.Conn]*peer.Connection
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byID:     make(map[int]*peer.Connection),
		byHandle: make(map[net.Conn]*peer.Connection),
	}
}

// Add registers a new connection under its PeerID. It is an error to add a
// PeerID that is already registered.
func (r *Registry) Add(c *peer.Connection) error {
	if _, exists := r.byID[c.ID]; exists {
		return fmt.Errorf("registry: peer id %d already registered", c.ID)
	}
	r.byID[c.ID] = c
	if c.Conn != nil {
		r.byHandle[c.Conn] = c
	}
	return nil
}

// Remove drops a connection from both indices. It is safe to call on an
// already-absent PeerID.
func (r *Registry) Remove(id int) {
	c, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	if c.Conn != nil {
		delete(r.byHandle, c.Conn)
	}
}

// ByID looks up a connection by PeerID.
func (r *Registry) ByID(id int) (*peer.Connection, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// ByHandle looks up the connection currently owning handle, for routing a
// readiness event back to its connection (spec.md §4.7).
func (r *Registry) ByHandle(handle net.Conn) (*peer.Connection, bool) {
	c, ok := r.byHandle[handle]
	return c, ok
}

// BindHandle records that c now owns handle, for connections whose socket
// was attached after registration (e.g. a redial completing). Per spec.md
// §3's invariant, a connection with a valid handle appears in the
// handle index exactly once; BindHandle first clears any previous handle
// for c.
func (r *Registry) BindHandle(c *peer.Connection, handle net.Conn) {
	if c.Conn != nil {
		delete(r.byHandle, c.Conn)
	}
	c.Conn = handle
	if handle != nil {
		r.byHandle[handle] = c
	}
}

// UnbindHandle removes c's current handle from the index without removing c
// from the PeerID index, for a connection dropping its socket but staying
// registered (spec.md §4.1's active/closing -> retry_timeout transition).
func (r *Registry) UnbindHandle(c *peer.Connection) {
	if c.Conn != nil {
		delete(r.byHandle, c.Conn)
		c.Conn = nil
	}
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	return len(r.byID)
}

// All returns every registered connection. The order is unspecified.
func (r *Registry) All() []*peer.Connection {
	out := make([]*peer.Connection, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out
}

// Active returns every connection currently in peer.StateActive, the set
// the route table and broadcast forwarder iterate over each tick.
func (r *Registry) Active() []*peer.Connection {
	out := make([]*peer.Connection, 0, len(r.byID))
	for _, c := range r.byID {
		if c.State == peer.StateActive {
			out = append(out, c)
		}
	}
	return out
}
