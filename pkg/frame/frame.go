// Package frame implements the on-wire message framing shared by every
// peer connection: a fixed 4-byte header followed by a variable payload.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Type identifies the kind of message carried by a Frame.
type Type uint8

// Message types, per spec.md §4.2.
const (
	TypeData         Type = 1
	TypeBroadcast    Type = 2
	TypeRouteSet     Type = 3
	TypeRouteDiff    Type = 4
	TypePing         Type = 5
	TypePong         Type = 6
	TypeRouteRequest Type = 7
)

func (t Type) String() string {
	switch t {
	case TypeData:
		return "data"
	case TypeBroadcast:
		return "broadcast"
	case TypeRouteSet:
		return "route-set"
	case TypeRouteDiff:
		return "route-diff"
	case TypePing:
		return "ping"
	case TypePong:
		return "pong"
	case TypeRouteRequest:
		return "route-request"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// HeaderSize is the fixed size of a frame header in bytes.
const HeaderSize = 4

// ErrOversize is returned when a decoded or requested payload exceeds the
// configured maximum.
var ErrOversize = errors.New("frame: payload exceeds maximum size")

// Header is the fixed part of every on-wire message.
type Header struct {
	Type    Type
	Special uint8
	Size    uint16
}

// Encode serializes h into a freshly allocated 4-byte slice.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	b[0] = byte(h.Type)
	b[1] = h.Special
	binary.BigEndian.PutUint16(b[2:4], h.Size)
	return b
}

// DecodeHeader parses the first HeaderSize bytes of b as a Header. b must be
// at least HeaderSize bytes long.
func DecodeHeader(b []byte) Header {
	return Header{
		Type:    Type(b[0]),
		Special: b[1],
		Size:    binary.BigEndian.Uint16(b[2:4]),
	}
}

// Encode builds a single contiguous buffer containing the header and
// payload, ready for a gather-free write, per spec.md §4.4. maxPayload
// bounds the payload length; Encode returns ErrOversize if payload exceeds
// it.
func Encode(typ Type, special uint8, payload []byte, maxPayload int) ([]byte, error) {
	if len(payload) > maxPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrOversize, len(payload), maxPayload)
	}
	if len(payload) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d > 65535", ErrOversize, len(payload))
	}
	buf := make([]byte, HeaderSize+len(payload))
	h := Header{Type: typ, Special: special, Size: uint16(len(payload))}
	copy(buf[:HeaderSize], h.Encode())
	copy(buf[HeaderSize:], payload)
	return buf, nil
}

// MaxPayload returns the maximum payload size admissible for the given MTU,
// per spec.md §4.2's "size > mtu + fixed_overhead is a protocol violation".
// The overhead accounts for the broadcast id prefix, the largest
// payload-side addition any message type carries beyond a raw frame.
func MaxPayload(mtu int) int {
	const broadcastOverhead = 4
	return mtu + broadcastOverhead
}
