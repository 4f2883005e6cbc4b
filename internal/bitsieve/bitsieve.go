// Package bitsieve implements the bit-packed sieve array: each byte
// represents 30 consecutive integers via the 8 bits corresponding to the
// residues {7, 11, 13, 17, 19, 23, 29, 31}.
//
// Grounded on original_source/src/Erat.cpp (unsetSmaller/unsetLarger tables,
// byteRemainder, sieveLastSegment) and spec.md §3/§4.1.
package bitsieve

import (
	"encoding/binary"

	"github.com/primesieve-go/primesieve/internal/wheel"
)

// BitSieve is a byte array where bit j of byte i represents the integer
// Low + i*30 + wheel.BitValues[j]. A set bit means "candidate prime".
//
// Bytes is always allocated to a multiple of 8 so 8-byte word reads at
// aligned offsets never go out of bounds, but only the first Len bytes are
// "active" for a given segment (the last segment of a session is usually
// shorter than a full sieveSize and Len < len(Bytes); the unused tail stays
// zeroed, which is equivalent to explicitly zeroing it since Go slices
// start zero-filled).
type BitSieve struct {
	Bytes []byte
	Len   int
	// Low is the first integer value representable by this sieve
	// (always a multiple of 30).
	Low uint64
}

// Resize sets the active length to n, reallocating the backing array
// (rounded up to a multiple of 8) only when it must grow.
func (s *BitSieve) Resize(n int) {
	cap8 := (n + 7) &^ 7
	if cap(s.Bytes) < cap8 {
		s.Bytes = make([]byte, cap8)
	} else {
		s.Bytes = s.Bytes[:cap8]
		for i := range s.Bytes {
			s.Bytes[i] = 0
		}
	}
	s.Len = n
}

// Fill sets every active bit (candidate prime), used before PreSieve
// overlays the precomputed composite patterns.
func (s *BitSieve) Fill() {
	b := s.Bytes[:s.Len]
	for i := range b {
		b[i] = 0xff
	}
}

// Word64 reads the 64-bit little-endian word starting at the 8-byte-aligned
// byteOffset. Encodes 64 candidates spanning 240 integers starting at
// Low + byteOffset*30.
func (s *BitSieve) Word64(byteOffset int) uint64 {
	return binary.LittleEndian.Uint64(s.Bytes[byteOffset : byteOffset+8])
}

// unsetSmaller[r] clears bits representing integers < r (mod-30 residue
// class r, where r ranges over the 37-entry "equivalence class 7..36"
// scheme used throughout the original source).
var unsetSmaller = [37]uint8{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xfe, 0xfe, 0xfe, 0xfe, 0xfc, 0xfc, 0xf8, 0xf8,
	0xf8, 0xf8, 0xf0, 0xf0, 0xe0, 0xe0, 0xe0, 0xe0,
	0xc0, 0xc0, 0xc0, 0xc0, 0xc0, 0xc0, 0x80, 0x80,
	0x00, 0x00, 0x00, 0x00, 0x00,
}

// unsetLarger[r] clears bits representing integers > r.
var unsetLarger = [37]uint8{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
	0x01, 0x01, 0x01, 0x03, 0x03, 0x07, 0x07, 0x07,
	0x07, 0x0f, 0x0f, 0x1f, 0x1f, 0x1f, 0x1f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x7f, 0x7f, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff,
}

// ByteRemainder returns n%30 using the equivalence classes 7..36 instead of
// the usual 0..29, matching Erat::byteRemainder. n must be >= 7.
func ByteRemainder(n uint64) uint64 {
	return (n-7)%30 + 7
}

// UnsetSmaller clears bits of the first byte representing integers below n.
func (s *BitSieve) UnsetSmaller(n uint64) {
	s.Bytes[0] &= unsetSmaller[ByteRemainder(n)]
}

// UnsetLarger clears bits of the last active byte representing integers
// above n. Bytes beyond Len are already zero (see Resize).
func (s *BitSieve) UnsetLarger(n uint64) {
	rem := ByteRemainder(n)
	s.Bytes[s.Len-1] &= unsetLarger[rem]
}

// BitValue returns the integer represented by bit index i (0..7).
func BitValue(i uint) uint64 { return wheel.BitValues[i] }
