// Package erat implements the three-tier crossing-off pipeline (EratSmall,
// EratMedium, EratBig) and the Erat orchestrator that ties them together
// with PreSieve and the BitSieve for one segmented sieving session.
//
// Grounded on original_source/src/EratSmall.cpp, EratMedium.cpp, EratBig.cpp
// and Erat.cpp.
package erat

import (
	"fmt"

	"github.com/primesieve-go/primesieve/internal/pool"
	"github.com/primesieve-go/primesieve/internal/wheel"
)

// Small crosses off multiples of sieving primes that have many hits per
// segment, using a flat (unbucketed) slice of sieving primes.
//
// Grounded on original_source/src/EratSmall.cpp; the L1-cache sub-chunking
// of crossOff(sieve, sieveSize) is dropped as a pure performance
// optimization (see DESIGN.md) — the remaining per-prime state machine is
// otherwise exactly the one EratSmall.cpp implements, reusing
// wheel.CrossOff30.
type Small struct {
	enabled  bool
	maxPrime uint64
	l1Size   uint64
	primes   []pool.SievingPrime
}

// Init validates and configures Small. maxPrime must not exceed l1Size*3,
// matching EratSmall::init's precondition.
func (s *Small) Init(l1Size, maxPrime uint64) error {
	if maxPrime > l1Size*3 {
		return fmt.Errorf("erat: EratSmall maxPrime %d exceeds l1Size*3 (%d)", maxPrime, l1Size*3)
	}
	s.enabled = true
	s.maxPrime = maxPrime
	s.l1Size = l1Size
	return nil
}

// HasSievingPrimes reports whether CrossOff has anything to do.
func (s *Small) HasSievingPrimes() bool { return s.enabled && len(s.primes) > 0 }

// AddSievingPrime registers prime (<= maxPrime) as a sieving prime, computing
// its first multiple within or after segmentLow.
func (s *Small) AddSievingPrime(prime, segmentLow, stop uint64) {
	multipleIndex, wheelIndex, ok := wheel.NextMultiple30(prime, segmentLow, stop)
	if !ok {
		return
	}
	var sp pool.SievingPrime
	sp.Set(prime/30, multipleIndex, wheelIndex)
	s.primes = append(s.primes, sp)
}

// CrossOff clears the bits of every registered prime's multiples within
// sieve, carrying each prime's state forward to the next segment.
func (s *Small) CrossOff(sieve []byte) {
	for i := range s.primes {
		sp := &s.primes[i]
		mi, wi := wheel.CrossOff30(sieve, sp.Prime(), sp.MultipleIndex(), sp.WheelIndex())
		sp.SetMultipleIndex(mi)
		sp.SetWheelIndex(wi)
	}
}
