// Package hwaddr implements the 6-byte link-layer address used throughout
// the mesh as a routing key.
package hwaddr

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Size is the length in bytes of a HwAddr.
const Size = 6

// ErrBadLength is returned when decoding a byte slice of the wrong length.
var ErrBadLength = errors.New("hwaddr: wrong byte length")

// HwAddr is an opaque 6-byte link-layer identifier. The zero value is the
// all-zero address; it is not treated specially by this package.
type HwAddr [Size]byte

// FromBytes copies b into a HwAddr. b must be exactly Size bytes long.
func FromBytes(b []byte) (HwAddr, error) {
	var a HwAddr
	if len(b) != Size {
		return a, fmt.Errorf("%w: got %d", ErrBadLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// Bytes returns a's bytes as a freshly allocated slice.
func (a HwAddr) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, a[:])
	return b
}

// Compare returns -1, 0 or 1 using byte-lexicographic order, matching the
// total order spec.md §3 requires for HwAddr.
func (a HwAddr) Compare(b HwAddr) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether a sorts before b.
func (a HwAddr) Less(b HwAddr) bool {
	return a.Compare(b) < 0
}

// String renders the address in colon-hex form, e.g. "aa:bb:cc:dd:ee:ff".
func (a HwAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Parse parses a colon-hex address as produced by String.
func Parse(s string) (HwAddr, error) {
	var a HwAddr
	if len(s) != 17 {
		return a, fmt.Errorf("hwaddr: invalid address %q", s)
	}
	for i := 0; i < Size; i++ {
		seg := s[i*3 : i*3+2]
		if i < Size-1 && s[i*3+2] != ':' {
			return a, fmt.Errorf("hwaddr: invalid address %q", s)
		}
		b, err := hex.DecodeString(seg)
		if err != nil || len(b) != 1 {
			return a, fmt.Errorf("hwaddr: invalid address %q", s)
		}
		a[i] = b[0]
	}
	return a, nil
}

// IsBroadcast reports whether a is the all-ones broadcast/multicast address.
func (a HwAddr) IsBroadcast() bool {
	return a == HwAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}
