package erat

import (
	"github.com/primesieve-go/primesieve/internal/config"
	"github.com/primesieve-go/primesieve/internal/extract"
	"github.com/primesieve-go/primesieve/internal/pool"
	"github.com/primesieve-go/primesieve/internal/presieve"
)

// Isqrt exposes the internal integer square root to other packages that
// need sqrt(stop)-scale bounds (ParallelPartitioner's thread-distance
// heuristics, PrimeIterator's window sizing) without duplicating it.
func Isqrt(n uint64) uint64 { return isqrt(n) }

// SievingPrimes self-generates, in strictly increasing order starting at 7,
// every prime <= sqrt(stop) -- the sieving primes an outer Erat needs to
// sieve [start, stop] itself.
//
// Grounded on original_source/include/primesieve/SievingPrimes.hpp: a
// nested Erat sieves [7, sqrt(stop)], bootstrapped by a trial-division
// sieve of primes <= sqrt(sqrt(stop)) (at most 65536, since stop is bounded
// by spec.md's 2^64 - 2^32*10). The nested Erat never needs a SievingPrimes
// of its own because sqrt(sqrt(stop)) is small enough to sieve directly.
type SievingPrimes struct {
	inner      Erat
	mp         pool.MemoryPool
	buf        [128]uint64
	n, i       int
	segLow     uint64
	resumeByte int
	started    bool
	exhausted  bool
}

// Init prepares the generator to produce primes <= sqrt(stop).
func (g *SievingPrimes) Init(stop uint64) error {
	sqrtStop := isqrt(stop)
	if sqrtStop < 7 {
		g.exhausted = true
		return nil
	}
	if err := g.inner.Init(7, sqrtStop, config.MaxSieveSizeKiB, &g.mp); err != nil {
		return err
	}
	for _, p := range tinyPrimesUpTo(isqrt(sqrtStop)) {
		if p >= 7 {
			g.inner.AddSievingPrime(p)
		}
	}
	return nil
}

// Next returns the next prime and true, or (0, false) once every prime
// <= sqrt(stop) has been produced.
func (g *SievingPrimes) Next() (uint64, bool) {
	for g.i >= g.n {
		if !g.fill() {
			return 0, false
		}
	}
	p := g.buf[g.i]
	g.i++
	return p, true
}

// fill buffers up to len(g.buf) more primes from the nested Erat, resuming
// mid-segment when a single segment yields more primes than the buffer
// holds (segments routinely do, since SievingPrimes' own sieve size is
// tuned independently of the buffer's fixed 128-entry capacity).
func (g *SievingPrimes) fill() bool {
	for {
		if g.started && g.resumeByte < g.inner.Sieve.Len {
			g.n, g.resumeByte = extract.FillBuffer(g.inner.Sieve.Bytes[:g.inner.Sieve.Len], g.segLow, g.resumeByte, g.buf[:])
			g.i = 0
			if g.n > 0 {
				return true
			}
			continue
		}
		if g.exhausted || !g.inner.HasNextSegment() {
			g.exhausted = true
			return false
		}
		g.segLow = g.inner.SegmentLow()
		g.inner.SieveSegment()
		g.resumeByte = 0
		g.started = true
	}
}

// tinyPrimesUpTo returns every prime <= n via plain trial-division sieving.
// n is at most 65536 (sqrt(sqrt(2^64))), so a byte-per-candidate sieve is
// cheap and there is no need to reuse the wheel-based engine for it.
func tinyPrimesUpTo(n uint64) []uint64 {
	if n < 2 {
		return nil
	}
	composite := make([]bool, n+1)
	var primes []uint64
	for i := uint64(2); i <= n; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, i)
		for j := i * i; j <= n; j += i {
			composite[j] = true
		}
	}
	return primes
}

// GenerateSievingPrimes feeds every sieving prime Erat needs (every prime
// p with presieve.MaxPrime < p <= sqrt(Stop)) into AddSievingPrime. Smaller
// primes are already handled by the PreSieve buffers and must not be
// re-added. It is called once, right after Init and before the first
// SieveSegment.
func (e *Erat) GenerateSievingPrimes() error {
	var gen SievingPrimes
	if err := gen.Init(e.Stop); err != nil {
		return err
	}
	for {
		p, ok := gen.Next()
		if !ok {
			return nil
		}
		if p > uint64(presieve.MaxPrime) {
			e.AddSievingPrime(p)
		}
	}
}
