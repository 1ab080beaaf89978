// Package tunnel wraps the local tun/tap interface that spec.md §1 and §6
// name as the daemon's duplex source/sink of layer-2 frames. It is backed by
// github.com/songgao/water, the tun/tap library used by the closest sibling
// project in the retrieval pack, a mesh VPN daemon bridging a tun device to
// encrypted peer links.
package tunnel

import (
	"fmt"
	"net"

	"github.com/songgao/water"

	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
)

// device is the subset of *water.Interface the tunnel relies on, narrowed
// to an interface so tests can substitute a fake device without a real tun
// capability.
type device interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	Name() string
}

// Interface is a local tap device presenting layer-2 frames to the mesh.
type Interface struct {
	iface   device
	localHW hwaddr.HwAddr
	mtu     int
}

// Open creates (or attaches to) the named tap device. localHW is recorded
// as the link-layer address the interface advertises, becoming a local
// route table entry with zero distance (spec.md §4.5); the device's own
// hardware address is not changed.
func Open(name string, localHW hwaddr.HwAddr, mtu int) (*Interface, error) {
	cfg := water.Config{DeviceType: water.TAP}
	cfg.Name = name

	iface, err := water.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("tunnel: open %s: %w", name, err)
	}
	return &Interface{iface: iface, localHW: localHW, mtu: mtu}, nil
}

// newWithDevice builds an Interface around an already-constructed device,
// letting tests substitute a fake tun without requiring CAP_NET_ADMIN.
func newWithDevice(d device, localHW hwaddr.HwAddr, mtu int) *Interface {
	return &Interface{iface: d, localHW: localHW, mtu: mtu}
}

// Name returns the OS-assigned device name.
func (i *Interface) Name() string {
	return i.iface.Name()
}

// LocalAddr returns the link-layer address this interface advertises.
func (i *Interface) LocalAddr() hwaddr.HwAddr {
	return i.localHW
}

// ReadFrame reads one frame from the device into buf, returning the number
// of bytes read. Device errors are returned wrapped with a "tunnel: read"
// prefix; callers treat any non-nil error as fatal to the tunnel.
func (i *Interface) ReadFrame(buf []byte) (int, error) {
	n, err := i.iface.Read(buf)
	if err != nil {
		return 0, fmt.Errorf("tunnel: read: %w", err)
	}
	return n, nil
}

// WriteFrame writes one already-framed layer-2 payload to the device.
// Oversize frames are rejected rather than silently truncated.
func (i *Interface) WriteFrame(frame []byte) error {
	if len(frame) > i.mtu {
		return fmt.Errorf("tunnel: frame of %d bytes exceeds mtu %d", len(frame), i.mtu)
	}
	if _, err := i.iface.Write(frame); err != nil {
		return fmt.Errorf("tunnel: write: %w", err)
	}
	return nil
}

// Close releases the underlying device.
func (i *Interface) Close() error {
	return i.iface.Close()
}

// ParseHardwareAddr is a small convenience used by callers decoding a
// net.Interface's advertised address into the wire HwAddr type.
func ParseHardwareAddr(hw net.HardwareAddr) (hwaddr.HwAddr, error) {
	return hwaddr.FromBytes(hw)
}
