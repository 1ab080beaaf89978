// Package routetable implements the process-wide distance-vector route
// table of spec.md §4.5: HwAddr -> (via PeerID, cost), recomputed from every
// active peer's remote_routes plus local tunnel-learned addresses.
package routetable

import (
	"sync"

	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
)

// LocalVia is the reserved sentinel PeerID meaning "reachable directly off
// the local tunnel interface", per spec.md §3.
const LocalVia = -1

// HopPenalty (k in spec.md §4.5's cost formula) is the per-hop cost
// contribution. It must stay stable within a run; spec.md leaves the exact
// constant to the implementation.
const HopPenalty = 10

// Source is one peer's (or the local interface's) advertised reachability
// for a single address: the ping and distance that peer reports for it. The
// via peer's own cached ping is passed to Recompute separately.
type Source struct {
	Via  int // PeerID, or LocalVia
	Ping uint32
	Dist uint16
}

// Entry is the resolved, lowest-cost route for one address.
type Entry struct {
	Via  int
	Cost uint32
}

// Table is the single process-wide route table. All mutation and reads
// happen on the mesh daemon's single driving goroutine (spec.md §5); the
// status exporter sees only the table size copied into its per-tick
// snapshot. The mutex makes each method atomic, but no current caller uses
// the table from another goroutine.
type Table struct {
	mu      sync.Mutex
	entries map[hwaddr.HwAddr]Entry
	dirty   map[hwaddr.HwAddr]struct{} // changed since last flush
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		entries: make(map[hwaddr.HwAddr]Entry),
		dirty:   make(map[hwaddr.HwAddr]struct{}),
	}
}

// Cost computes the cost of reaching an address via a peer whose own
// cached round-trip time is peerPing, given the peer's reported Source for
// that address, per spec.md §4.5: via_peer.ping + reported_ping + distance*k.
func Cost(peerPing uint32, src Source) uint32 {
	return peerPing + src.Ping + uint32(src.Dist)*HopPenalty
}

// Recompute recombines, for a single address, the Source candidates offered
// by every active peer's cached ping plus any local evidence, picks the
// minimum-cost candidate (tie-break: smallest PeerID, per spec.md §9 open
// question (a)), and updates the table. peerPings maps PeerID -> that
// peer's own cached ping (ignored for the LocalVia source, whose cost is
// just its own Ping/Dist per spec.md §4.5 "local addresses advertise
// ping=0, dist=0"). It returns true if the resolved entry changed.
func (t *Table) Recompute(addr hwaddr.HwAddr, candidates []Source, peerPings map[int]uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		best    Entry
		haveAny bool
	)
	for _, c := range candidates {
		var cost uint32
		if c.Via == LocalVia {
			cost = Cost(0, c)
		} else {
			cost = Cost(peerPings[c.Via], c)
		}
		cand := Entry{Via: c.Via, Cost: cost}
		if !haveAny || better(cand, best) {
			best = cand
			haveAny = true
		}
	}

	old, existed := t.entries[addr]
	if !haveAny {
		if existed {
			delete(t.entries, addr)
			t.dirty[addr] = struct{}{}
			return true
		}
		return false
	}
	if existed && old == best {
		return false
	}
	t.entries[addr] = best
	t.dirty[addr] = struct{}{}
	return true
}

// better reports whether a should replace b as the table's chosen route:
// lower cost wins, ties broken by smaller PeerID.
func better(a, b Entry) bool {
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	return a.Via < b.Via
}

// Lookup returns the resolved entry for addr, if any.
func (t *Table) Lookup(addr hwaddr.HwAddr) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[addr]
	return e, ok
}

// Len returns the number of resolved addresses in the table.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Snapshot returns a copy of every resolved entry, keyed by address.
func (t *Table) Snapshot() map[hwaddr.HwAddr]Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[hwaddr.HwAddr]Entry, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// FlushDirty returns the addresses that changed since the last FlushDirty
// call, including addresses no longer in the table, and clears the dirty
// set. The caller builds the route-diff entries from them. Called once
// per heartbeat by the periodic driver (spec.md §4.5, §4.8).
func (t *Table) FlushDirty() []hwaddr.HwAddr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.dirty) == 0 {
		return nil
	}
	out := make([]hwaddr.HwAddr, 0, len(t.dirty))
	for a := range t.dirty {
		out = append(out, a)
	}
	t.dirty = make(map[hwaddr.HwAddr]struct{})
	return out
}
