package frame

import (
	"encoding/binary"
	"fmt"

	"github.com/zhengfish/cloudvpn/pkg/hwaddr"
)

// BroadcastIDSize is the length of the broadcast-id prefix carried ahead of
// the frame payload in a broadcast message (spec.md §4.2, type 2).
const BroadcastIDSize = 4

// RouteEntryWithdraw is the reserved distance value meaning "withdraw this
// address" in a route-diff message, per spec.md §4.2.
const RouteEntryWithdraw = 0xFFFF

// RouteEntrySize is the wire size of one (HwAddr, ping, dist) tuple in a
// route-set or route-diff payload.
const RouteEntrySize = hwaddr.Size + 4 + 2

// RouteEntry is one advertised (address, ping, distance) tuple as carried
// in a route-set or route-diff message.
type RouteEntry struct {
	Addr hwaddr.HwAddr
	Ping uint32
	Dist uint16
}

// Withdrawn reports whether this entry withdraws its address, per the
// dist == 0xFFFF convention.
func (e RouteEntry) Withdrawn() bool {
	return e.Dist == RouteEntryWithdraw
}

// EncodeBroadcast prepends a broadcast id to an opaque frame payload.
func EncodeBroadcast(id uint32, frame []byte) []byte {
	buf := make([]byte, BroadcastIDSize+len(frame))
	binary.BigEndian.PutUint32(buf[:BroadcastIDSize], id)
	copy(buf[BroadcastIDSize:], frame)
	return buf
}

// DecodeBroadcast splits a broadcast payload into its id and frame.
func DecodeBroadcast(payload []byte) (id uint32, data []byte, err error) {
	if len(payload) < BroadcastIDSize {
		return 0, nil, fmt.Errorf("frame: broadcast payload too short: %d bytes", len(payload))
	}
	id = binary.BigEndian.Uint32(payload[:BroadcastIDSize])
	return id, payload[BroadcastIDSize:], nil
}

// EncodeRouteEntries concatenates entries into a route-set/route-diff
// payload.
func EncodeRouteEntries(entries []RouteEntry) []byte {
	buf := make([]byte, 0, len(entries)*RouteEntrySize)
	for _, e := range entries {
		var rec [RouteEntrySize]byte
		copy(rec[:hwaddr.Size], e.Addr[:])
		binary.BigEndian.PutUint32(rec[hwaddr.Size:hwaddr.Size+4], e.Ping)
		binary.BigEndian.PutUint16(rec[hwaddr.Size+4:], e.Dist)
		buf = append(buf, rec[:]...)
	}
	return buf
}

// DecodeRouteEntries parses a route-set/route-diff payload into entries. A
// payload whose length is not a multiple of RouteEntrySize is malformed.
func DecodeRouteEntries(payload []byte) ([]RouteEntry, error) {
	if len(payload)%RouteEntrySize != 0 {
		return nil, fmt.Errorf("frame: route payload length %d not a multiple of %d", len(payload), RouteEntrySize)
	}
	n := len(payload) / RouteEntrySize
	entries := make([]RouteEntry, n)
	for i := 0; i < n; i++ {
		rec := payload[i*RouteEntrySize : (i+1)*RouteEntrySize]
		addr, err := hwaddr.FromBytes(rec[:hwaddr.Size])
		if err != nil {
			return nil, err
		}
		entries[i] = RouteEntry{
			Addr: addr,
			Ping: binary.BigEndian.Uint32(rec[hwaddr.Size : hwaddr.Size+4]),
			Dist: binary.BigEndian.Uint16(rec[hwaddr.Size+4:]),
		}
	}
	return entries, nil
}
