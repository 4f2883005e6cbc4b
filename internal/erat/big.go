package erat

import (
	"fmt"

	"github.com/primesieve-go/primesieve/internal/wheel"
)

// bigPrime is a sieving prime tracked by Big together with its next
// (absolute, not yet sieved) coprime-to-210 multiple.
type bigPrime struct {
	prime    uint64
	multiple uint64
}

// Big crosses off multiples of the largest sieving primes (above
// maxEratMedium), which have few hits per segment. Each prime is filed under
// the future segment its next multiple falls into, using a circular array of
// segment bucket lists exactly as EratBig.cpp does; lists[0] always holds
// the primes with a hit in the segment about to be sieved.
//
// Grounded on original_source/src/EratBig.cpp. The original buckets each
// list through a singly-linked MemoryPool-backed Bucket chain to avoid
// malloc on the hot path; since each prime sits in exactly one list at a
// time and Go's allocator already amortizes
// small-slice growth, this port uses a plain growable []bigPrime per list
// instead of replicating the bucket/arena machinery (see DESIGN.md). It
// also recomputes each next multiple arithmetically via
// wheel.NextCoprimeMultiple rather than a precomputed 210-wheel state
// table, for the reasons documented on that function.
type Big struct {
	enabled       bool
	sieveSize     uint64
	log2SieveSize uint
	lists         [][]bigPrime
	segmentLow    uint64
	count         int
}

// Init configures Big for a sieve of the given power-of-two size and a
// stop bound used to size the circular list array so that every sieving
// prime up to maxPrime can always be filed into some list.
func (b *Big) Init(stop, sieveSize, maxPrime uint64) error {
	if sieveSize == 0 || sieveSize&(sieveSize-1) != 0 {
		return fmt.Errorf("erat: EratBig sieveSize %d is not a power of two", sieveSize)
	}
	b.enabled = true
	b.sieveSize = sieveSize
	for s := sieveSize; s > 1; s >>= 1 {
		b.log2SieveSize++
	}

	maxSievingPrime := maxPrime / 30
	maxMultipleIndex := sieveSize - 1 + maxSievingPrime*uint64(wheel.MaxFactor210)
	maxSegmentCount := maxMultipleIndex>>b.log2SieveSize + 1
	_ = stop
	b.lists = make([][]bigPrime, maxSegmentCount+1)
	return nil
}

// HasSievingPrimes reports whether CrossOff has anything to do for the
// segment about to be sieved.
func (b *Big) HasSievingPrimes() bool { return b.enabled && b.count > 0 }

// SetSegmentLow tells Big the low bound of the segment about to be sieved.
// The orchestrator must call this once, before the first AddSievingPrime,
// with the first segment's low bound; CrossOff advances it automatically
// afterward.
func (b *Big) SetSegmentLow(low uint64) { b.segmentLow = low }

// AddSievingPrime registers prime, filing it under the future segment its
// first coprime-to-210 multiple greater than segmentLow+6 (the first
// representable value) falls into.
func (b *Big) AddSievingPrime(prime, segmentLow, stop uint64) {
	multiple, ok := wheel.NextCoprimeMultiple(prime, segmentLow+6, stop)
	if !ok {
		return
	}
	b.store(prime, multiple)
}

func (b *Big) store(prime, multiple uint64) {
	// Byte i of a segment holds segmentLow+30*i+7 .. segmentLow+30*i+31.
	multipleIndex := (multiple - b.segmentLow - 6) / 30
	segment := multipleIndex >> b.log2SieveSize
	idx := int(segment % uint64(len(b.lists)))
	b.lists[idx] = append(b.lists[idx], bigPrime{prime: prime, multiple: multiple})
	b.count++
}

// CrossOff takes the primes filed under the current segment
// (segmentLow+6, segmentLow+sieveSize*30+6], clears the bits of all their
// multiples within it, then advances the circular list array to the next
// segment and re-files each processed prime under its first multiple beyond
// the segment.
func (b *Big) CrossOff(sieve []byte) {
	due := b.lists[0]
	b.lists[0] = nil
	segmentStop := b.segmentLow + b.sieveSize*30

	// Rotate the circular array left by one: segment 0's bucket becomes the
	// old segment 1's, etc., freeing a (now-empty) slot at the far end.
	copy(b.lists, b.lists[1:])
	b.lists[len(b.lists)-1] = nil

	b.segmentLow = segmentStop

	segStart := b.segmentLow - b.sieveSize*30
	for _, bp := range due {
		b.count--
		m, ok := bp.multiple, true
		for ok && m <= segmentStop+6 {
			diff := m - segStart
			for bit, v := range wheel.BitValues {
				if (diff-v)%30 == 0 {
					byteOffset := (diff - v) / 30
					if int(byteOffset) < len(sieve) {
						sieve[byteOffset] &^= 1 << uint(bit)
					}
					break
				}
			}
			m, ok = wheel.NextCoprimeMultiple(bp.prime, m, ^uint64(0))
		}
		if ok {
			b.store(bp.prime, m)
		}
	}
}
