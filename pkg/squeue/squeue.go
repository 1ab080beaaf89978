// Package squeue implements the bounded, gather-style outbound byte queue
// that backs one peer connection (spec.md §3, §4.4). Each entry is a single
// pre-encoded buffer (header + payload already concatenated), so the
// channel sees one contiguous write per queued message.
package squeue

import "errors"

// ErrFull is returned by Push when the queue is already at its configured
// capacity. Per spec.md §4.4, the caller decides whether that means "drop
// the packet" (data queue) or "fatal, this indicates a design error"
// (protocol queue).
var ErrFull = errors.New("squeue: queue is full")

// Queue is a bounded FIFO of opaque byte buffers awaiting write.
type Queue struct {
	cap   int
	off   int // read offset into items[0], for partial-write resume
	items [][]byte
}

// New creates a Queue that holds at most capacity buffers.
func New(capacity int) *Queue {
	return &Queue{cap: capacity}
}

// Len returns the number of buffers currently queued.
func (q *Queue) Len() int {
	return len(q.items)
}

// Cap returns the queue's configured capacity.
func (q *Queue) Cap() int {
	return q.cap
}

// Push appends buf to the tail of the queue. It returns ErrFull without
// mutating the queue if it is already at capacity.
func (q *Queue) Push(buf []byte) error {
	if len(q.items) >= q.cap {
		return ErrFull
	}
	q.items = append(q.items, buf)
	return nil
}

// Front returns the buffer at the head of the queue and whether one exists.
// The returned slice already accounts for any partial write previously
// recorded with Advance.
func (q *Queue) Front() ([]byte, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0][q.off:], true
}

// Advance records that n bytes of the head buffer have been written. Once
// the whole head buffer has been consumed it is popped and the read offset
// resets, so the next Front call returns the following buffer from its
// start — this is what keeps a partial write resuming from the same buffer
// across poll-writable events (spec.md §8 S6).
func (q *Queue) Advance(n int) {
	if len(q.items) == 0 {
		return
	}
	q.off += n
	if q.off >= len(q.items[0]) {
		q.items = q.items[1:]
		q.off = 0
	}
}

// Empty reports whether the queue has no buffered messages left.
func (q *Queue) Empty() bool {
	return len(q.items) == 0
}

// Reset discards all queued buffers and clears the partial-write offset, for
// reuse of a connection slot after a session ends (spec.md §4.1).
func (q *Queue) Reset() {
	q.items = nil
	q.off = 0
}
