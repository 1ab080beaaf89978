// Package connmgr implements the listener set and outbound dial/retry logic
// of spec.md §4.1 ("inactive -> connecting") and §4.7 ("Listener and peer
// registry"). It is adapted from the teacher's pkg/connmgr: the same
// dial-with-timeout and retry-backoff shape, but driven by direct calls from
// the single mesh goroutine instead of the teacher's actionch-serialized
// actor loop — spec.md §5 already guarantees single-threaded mutation of
// everything connmgr touches, so that extra indirection has no job to do
// here.
package connmgr

import (
	"fmt"
	"net"
	"time"
)

// Manager owns the daemon's listening sockets and provides the dial/backoff
// primitives the Hub uses to drive outbound connections. Like peer.Connection
// and registry.Registry, it is only ever touched from the single mesh
// goroutine.
type Manager struct {
	config    Config
	listeners []net.Listener
}

// New creates a Manager from cfg.
func New(cfg Config) *Manager {
	return &Manager{config: cfg}
}

// Listen opens a TCP listener on addr and starts an accept loop for it on a
// dedicated goroutine. Each accepted socket is handed to cfg.OnAccept, which
// is expected to forward it to the Hub's fan-in channel rather than touch
// any shared state directly (spec.md §5's single-mutator rule).
func (m *Manager) Listen(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("connmgr: listen %s: %w", addr, err)
	}
	m.listeners = append(m.listeners, l)
	go m.acceptLoop(l)
	return nil
}

func (m *Manager) acceptLoop(l net.Listener) {
	for {
		conn, err := l.Accept()
		if err != nil {
			return // listener closed, nothing more to accept
		}
		if m.config.OnAccept != nil {
			m.config.OnAccept(conn)
		}
	}
}

// Addrs returns the local address of each open listener, in listen order.
func (m *Manager) Addrs() []string {
	out := make([]string, len(m.listeners))
	for i, l := range m.listeners {
		out[i] = l.Addr().String()
	}
	return out
}

// Close closes every open listener, unblocking their accept loops.
func (m *Manager) Close() error {
	var firstErr error
	for _, l := range m.listeners {
		if err := l.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.listeners = nil
	return firstErr
}

// Dial attempts a single outbound TCP connection to addr, bounded by the
// configured DialTimeout (spec.md §4.1's "connecting" state).
func (m *Manager) Dial(addr string) (net.Conn, error) {
	timeout := time.Duration(m.config.DialTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("connmgr: dial %s: %w", addr, err)
	}
	return conn, nil
}

// Backoff returns how long to wait before the next dial attempt after
// retries successive failures, mirroring the teacher's failed() scaling of
// retries * RetryBaseBackoff, capped once retries reaches MaxRetries.
func (m *Manager) Backoff(retries uint8) time.Duration {
	if retries > m.config.MaxRetries {
		retries = m.config.MaxRetries
	}
	return time.Duration(retries) * time.Duration(m.config.RetryBaseBackoff) * time.Second
}
