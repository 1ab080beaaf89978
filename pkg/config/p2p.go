package config

import "time"

// PeerConfig describes one statically configured peer slot: an optional
// reconnect address (outbound-capable) plus the per-peer limits it shares
// with every other connection via P2P.
type PeerConfig struct {
	// ReconnectAddr is the address to dial and redial. Empty means this
	// slot only ever accepts inbound connections.
	ReconnectAddr string `yaml:"ReconnectAddr"`
}

// P2P holds the mesh networking settings of spec.md §6.
type P2P struct {
	// ListenAddrs are the addresses the daemon listens on for inbound
	// connections.
	ListenAddrs []string `yaml:"ListenAddrs"`
	// Peers are the statically configured reconnect slots.
	Peers []PeerConfig `yaml:"Peers"`

	Heartbeat time.Duration `yaml:"Heartbeat"`
	Timeout   time.Duration `yaml:"Timeout"`
	Keepalive time.Duration `yaml:"Keepalive"`
	Retry     time.Duration `yaml:"Retry"`

	MTU                    int `yaml:"MTU"`
	MaxWaitingDataPackets  int `yaml:"MaxWaitingDataPackets"`
	MaxWaitingProtoPackets int `yaml:"MaxWaitingProtoPackets"`
	MaxRemoteRoutes        int `yaml:"MaxRemoteRoutes"`

	// RouteDiffThreshold is the number of addresses that may change in a
	// single heartbeat before the driver sends a full route-set to every
	// active peer instead of itemizing each change as a diff (spec.md
	// §4.5).
	RouteDiffThreshold int `yaml:"RouteDiffThreshold"`
}

// Validate checks that P2P's timings and sizes are usable.
func (p P2P) Validate() error {
	switch {
	case p.Heartbeat <= 0:
		return errInvalid("Heartbeat")
	case p.Timeout <= 0:
		return errInvalid("Timeout")
	case p.Keepalive <= 0:
		return errInvalid("Keepalive")
	case p.Retry <= 0:
		return errInvalid("Retry")
	case p.MTU <= 0:
		return errInvalid("MTU")
	case p.MaxWaitingDataPackets <= 0:
		return errInvalid("MaxWaitingDataPackets")
	case p.MaxWaitingProtoPackets <= 0:
		return errInvalid("MaxWaitingProtoPackets")
	case p.MaxRemoteRoutes <= 0:
		return errInvalid("MaxRemoteRoutes")
	case p.RouteDiffThreshold <= 0:
		return errInvalid("RouteDiffThreshold")
	}
	if p.Keepalive >= p.Timeout {
		return errInvalidf("Keepalive (%s) must be less than Timeout (%s)", p.Keepalive, p.Timeout)
	}
	return nil
}
