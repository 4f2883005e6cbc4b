// Package extract converts a finished BitSieve segment into primes: counts,
// k-tuplet counts, printed/callback output, or a caller-supplied buffer.
//
// Grounded on spec.md §4.10 and original_source/src/LookupTables.cpp's
// bitValues table (the index-to-residue conversion) together with the
// k-tuplet bitmask values specified directly in spec.md §4.10 (the masks
// are small enough, and specified precisely enough in spec.md itself, that
// no original_source transcription was necessary beyond bitValues).
package extract

import (
	"math/bits"

	"github.com/primesieve-go/primesieve/internal/wheel"
)

// Kind indexes the six counters the engine API reports: primes, twins,
// triplets, quadruplets, quintuplets, sextuplets.
type Kind int

const (
	Primes Kind = iota
	Twins
	Triplets
	Quadruplets
	Quintuplets
	Sextuplets
	NumKinds
)

var tupletMasks = [NumKinds][]uint8{
	Twins:       {0x06, 0x18, 0xC0},
	Triplets:    {0x07, 0x0E, 0x1C, 0x38},
	Quadruplets: {0x1E},
	Quintuplets: {0x1F, 0x3E},
	Sextuplets:  {0x3F},
}

// tupletTable[kind][byte] counts how many of kind's bitmasks are fully
// contained (as a subset of set bits) within byte.
var tupletTable [NumKinds][256]uint8

func init() {
	for k := Twins; k <= Sextuplets; k++ {
		masks := tupletMasks[k]
		for b := 0; b < 256; b++ {
			var n uint8
			for _, m := range masks {
				if uint8(b)&m == m {
					n++
				}
			}
			tupletTable[k][b] = n
		}
	}
}

// CountBits returns the number of set bits (candidate primes) in sieve.
func CountBits(sieve []byte) uint64 {
	var n uint64
	i := 0
	for ; i+8 <= len(sieve); i += 8 {
		n += uint64(bits.OnesCount64(
			uint64(sieve[i]) | uint64(sieve[i+1])<<8 | uint64(sieve[i+2])<<16 | uint64(sieve[i+3])<<24 |
				uint64(sieve[i+4])<<32 | uint64(sieve[i+5])<<40 | uint64(sieve[i+6])<<48 | uint64(sieve[i+7])<<56))
	}
	for ; i < len(sieve); i++ {
		n += uint64(bits.OnesCount8(sieve[i]))
	}
	return n
}

// CountTuplet returns the number of k-tuplets (kind in Twins..Sextuplets)
// entirely contained within single bytes of sieve.
func CountTuplet(sieve []byte, kind Kind) uint64 {
	table := &tupletTable[kind]
	var n uint64
	for _, b := range sieve {
		n += uint64(table[b])
	}
	return n
}

// ForEachPrime calls fn(prime) in increasing order for every set bit of
// sieve, where prime = low + byteIndex*30 + bitValue(trailingZero). It
// stops early if fn returns false.
func ForEachPrime(sieve []byte, low uint64, fn func(uint64) bool) {
	for i, b := range sieve {
		if b == 0 {
			continue
		}
		base := low + uint64(i)*30
		for b != 0 {
			t := bits.TrailingZeros8(b)
			if !fn(base + wheel.BitValues[t]) {
				return
			}
			b &= b - 1
		}
	}
}

// FillBuffer writes primes from sieve (interpreted the same way as
// ForEachPrime, starting at byte index startByte) into buf, stopping when
// buf is full. It returns the number of primes written and the byte index
// to resume from on the next call (len(sieve) once the segment is
// exhausted). When buf fills in the middle of a byte, the bits already
// written are cleared from that byte of sieve, so the next call continues
// with the remaining primes of the byte.
func FillBuffer(sieve []byte, low uint64, startByte int, buf []uint64) (n, resumeByte int) {
	i := startByte
	for ; i < len(sieve); i++ {
		b := sieve[i]
		if b == 0 {
			continue
		}
		base := low + uint64(i)*30
		for b != 0 {
			if n == len(buf) {
				sieve[i] = b
				return n, i
			}
			t := bits.TrailingZeros8(b)
			buf[n] = base + wheel.BitValues[t]
			n++
			b &= b - 1
		}
	}
	return n, len(sieve)
}
