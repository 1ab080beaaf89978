// Package broadcast implements the sliding-window broadcast de-duplicator
// of spec.md §4.6: a capacity- and age-bounded set of (origin PeerID,
// broadcast id) tuples. An entry older than maxAge counts as unseen when it
// is looked up; when the window is full, the least recently used entry is
// evicted, whatever its age.
package broadcast

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Key identifies one broadcast frame by its origin and the origin's
// monotonically increasing sequence number for it.
type Key struct {
	Origin int
	ID     uint32
}

// Window is a bounded, age-aware de-duplication window. It is safe for use
// only from the single goroutine that owns the mesh daemon's mutable state
// (spec.md §5); it takes no internal lock.
type Window struct {
	cache  *lru.Cache[Key, time.Time]
	maxAge time.Duration
	now    func() time.Time
}

// New creates a Window holding at most capacity entries, each considered
// stale after maxAge.
func New(capacity int, maxAge time.Duration) *Window {
	c, err := lru.New[Key, time.Time](capacity)
	if err != nil {
		// Only returns an error for capacity <= 0, which is a caller bug.
		panic(err)
	}
	return &Window{cache: c, maxAge: maxAge, now: time.Now}
}

// SeenOrRecord reports whether k has already been recorded and is still
// within maxAge; if not (either unseen, or stale and thus treated as new)
// it records k with the current time and returns false. The spec's
// forward-at-most-once property (§8 property 4) follows from always
// checking this before delivering/forwarding a broadcast.
func (w *Window) SeenOrRecord(k Key) bool {
	now := w.now()
	if t, ok := w.cache.Get(k); ok {
		if now.Sub(t) < w.maxAge {
			return true
		}
		// Stale: treat as a fresh broadcast, refresh the timestamp.
	}
	w.cache.Add(k, now)
	return false
}

// Len returns the number of entries currently tracked.
func (w *Window) Len() int {
	return w.cache.Len()
}
