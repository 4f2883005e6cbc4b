package erat

import (
	"fmt"
	"math"

	"github.com/primesieve-go/primesieve/internal/bitsieve"
	"github.com/primesieve-go/primesieve/internal/config"
	"github.com/primesieve-go/primesieve/internal/cpuinfo"
	"github.com/primesieve-go/primesieve/internal/pool"
	"github.com/primesieve-go/primesieve/internal/presieve"
)

// Erat drives one segmented sieving session over [start, stop]: it owns the
// BitSieve, dispatches each registered sieving prime to Small, Medium or Big
// depending on its size, and advances the segment window one sieveSize at a
// time until the whole range is covered.
//
// Grounded on original_source/src/Erat.cpp and Erat.hpp.
type Erat struct {
	Start, Stop          uint64
	segmentLow           uint64
	segmentHigh          uint64
	Sieve                bitsieve.BitSieve
	maxEratSmall         uint64
	maxEratMedium        uint64
	small                Small
	medium               Medium
	big                  Big
	pre                  *presieve.PreSieve
	mp                   *pool.MemoryPool
}

// Init prepares Erat to sieve [start, stop], choosing algorithm thresholds
// and a sieve segment size (in bytes, capped by maxSieveSizeKiB) the way
// Erat::initAlgorithms does.
func (e *Erat) Init(start, stop, maxSieveSizeKiB uint64, mp *pool.MemoryPool) error {
	if start > stop {
		return fmt.Errorf("erat: start %d exceeds stop %d", start, stop)
	}
	if start < 7 {
		return fmt.Errorf("erat: start must be >= 7, got %d", start)
	}
	e.Start, e.Stop = start, stop
	e.mp = mp
	e.pre = presieve.New()
	e.initAlgorithms(maxSieveSizeKiB << 10)
	return nil
}

func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	r := uint64(math.Sqrt(float64(n)))
	if r > math.MaxUint32 {
		r = math.MaxUint32
	}
	for r > 0 && r*r > n {
		r--
	}
	for r < math.MaxUint32 && (r+1)*(r+1) <= n {
		r++
	}
	return r
}

func ceilDiv(a, b uint64) uint64 { return (a + b - 1) / b }

func inBetween(lo, x, hi uint64) uint64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func floorPow2(n uint64) uint64 {
	p := uint64(1)
	for p<<1 <= n {
		p <<= 1
	}
	return p
}

func checkedAdd(a, b uint64) uint64 {
	s := a + b
	if s < a {
		return ^uint64(0)
	}
	return s
}

const wordSize = 8

// initAlgorithms picks the segment (sieve) size and the size thresholds
// that route a sieving prime to Small, Medium or Big, following the ten
// steps documented in Erat::initAlgorithms.
func (e *Erat) initAlgorithms(maxSieveSize uint64) {
	sqrtStop := isqrt(e.Stop)
	l1CacheSize := inBetween(config.MinSieveSizeKiB<<10, uint64(cpuinfo.L1DataCacheSizeOrDefault()), config.MaxSieveSizeKiB<<10)

	// 1. sieveSize must be a multiple of wordSize.
	l1CacheSize = ceilDiv(l1CacheSize, wordSize) * wordSize
	maxSieveSize = ceilDiv(maxSieveSize, wordSize) * wordSize
	minSieveSize := l1CacheSize
	if maxSieveSize < minSieveSize {
		minSieveSize = maxSieveSize
	}

	// 2. sieveSize = sqrt(stop) * FactorSieveSize.
	sieveSize := uint64(float64(sqrtStop) * config.FactorSieveSize)

	// 3. round down to a multiple of minSieveSize.
	if sieveSize > minSieveSize {
		sieveSize -= sieveSize % minSieveSize
	}

	// 4. clamp into [minSieveSize, maxSieveSize] and [16KiB, 8192KiB].
	sieveSize = inBetween(minSieveSize, sieveSize, maxSieveSize)
	sieveSize = inBetween(config.MinSieveSizeKiB<<10, sieveSize, config.MaxSieveSizeKiB<<10)
	sieveSize = ceilDiv(sieveSize, wordSize) * wordSize
	minSieveSize = l1CacheSize
	if sieveSize < minSieveSize {
		minSieveSize = sieveSize
	}

	// 5. upper bounds for Small & Medium.
	e.maxEratSmall = uint64(float64(minSieveSize) * config.FactorEratSmall)
	e.maxEratMedium = uint64(float64(sieveSize) * config.FactorEratMedium)

	// 6. Big requires a power-of-two sieve size.
	if sqrtStop > e.maxEratMedium {
		sieveSize = floorPow2(sieveSize)
		minSieveSize = l1CacheSize
		if sieveSize < minSieveSize {
			minSieveSize = sieveSize
		}
		e.maxEratSmall = uint64(float64(minSieveSize) * config.FactorEratSmall)
		e.maxEratMedium = uint64(float64(sieveSize) * config.FactorEratMedium)
	}

	// 7. allocate the smallest amount of memory needed.
	if e.maxEratSmall > sqrtStop {
		e.maxEratSmall = sqrtStop
	}
	if e.maxEratMedium > sqrtStop {
		e.maxEratMedium = sqrtStop
	}

	// 8. initialize segment bounds.
	rem := bitsieve.ByteRemainder(e.Start)
	dist := sieveSize*30 + 6
	e.segmentLow = e.Start - rem
	e.segmentHigh = checkedAdd(e.segmentLow, dist)
	if e.segmentHigh > e.Stop {
		e.segmentHigh = e.Stop
	}

	// 9. use a tiny sieveSize if we are sieving a single segment and Big is
	// not needed.
	if e.segmentHigh >= e.Stop && sqrtStop <= e.maxEratMedium {
		rem = bitsieve.ByteRemainder(e.Stop)
		d := (e.Stop - rem) - e.segmentLow
		sieveSize = d/30 + 1
		sieveSize = ceilDiv(sieveSize, wordSize) * wordSize
	}

	e.Sieve.Low = e.segmentLow
	e.Sieve.Resize(int(sieveSize))

	// 10. initialize Small, Medium & Big.
	if sqrtStop > uint64(presieve.MaxPrime) {
		if err := e.small.Init(l1CacheSize, e.maxEratSmall); err != nil {
			panic(err)
		}
	}
	if sqrtStop > e.maxEratSmall {
		e.medium.Init(e.maxEratMedium, e.mp)
	}
	if sqrtStop > e.maxEratMedium {
		if err := e.big.Init(e.Stop, sieveSize, sqrtStop); err != nil {
			panic(err)
		}
		e.big.SetSegmentLow(e.segmentLow)
	}
}

// HasNextSegment reports whether SieveSegment has more work to do.
func (e *Erat) HasNextSegment() bool { return e.segmentLow < e.Stop }

// SegmentLow returns the lower bound of the segment the next SieveSegment
// call will sieve (Stop once the last segment has been sieved); callers read
// it before calling SieveSegment.
func (e *Erat) SegmentLow() uint64 { return e.segmentLow }

// MaxEratMedium returns the upper size bound routed to Medium (primes
// larger than this go to Big); used by callers to decide when to stop
// feeding their own sieving primes in ascending order.
func (e *Erat) MaxEratMedium() uint64 { return e.maxEratMedium }

// AddSievingPrime registers prime as a sieving prime for the current and
// following segments, routing it to Small, Medium or Big by size.
func (e *Erat) AddSievingPrime(prime uint64) {
	switch {
	case prime > e.maxEratMedium:
		e.big.AddSievingPrime(prime, e.segmentLow, e.Stop)
	case prime > e.maxEratSmall:
		e.medium.AddSievingPrime(prime, e.segmentLow, e.Stop)
	default:
		e.small.AddSievingPrime(prime, e.segmentLow, e.Stop)
	}
}

func (e *Erat) preSieve() {
	e.pre.Apply(e.Sieve.Bytes[:e.Sieve.Len], e.segmentLow)
	if e.segmentLow <= e.Start {
		e.Sieve.UnsetSmaller(e.Start)
	}
}

func (e *Erat) crossOff() {
	if e.small.HasSievingPrimes() {
		e.small.CrossOff(e.Sieve.Bytes[:e.Sieve.Len])
	}
	if e.medium.HasSievingPrimes() {
		e.medium.CrossOff(e.Sieve.Bytes[:e.Sieve.Len])
	}
	if e.big.HasSievingPrimes() {
		e.big.CrossOff(e.Sieve.Bytes[:e.Sieve.Len])
	}
}

// SieveSegment sieves the next segment (or, if it is the final one, the
// last partial segment) and advances segmentLow/segmentHigh.
func (e *Erat) SieveSegment() {
	e.Sieve.Low = e.segmentLow
	if e.segmentHigh < e.Stop {
		e.preSieve()
		e.crossOff()

		dist := uint64(e.Sieve.Len) * 30
		e.segmentLow = checkedAdd(e.segmentLow, dist)
		e.segmentHigh = checkedAdd(e.segmentHigh, dist)
		if e.segmentHigh > e.Stop {
			e.segmentHigh = e.Stop
		}
	} else {
		e.sieveLastSegment()
	}
}

func (e *Erat) sieveLastSegment() {
	rem := bitsieve.ByteRemainder(e.Stop)
	dist := (e.Stop - rem) - e.segmentLow
	e.Sieve.Resize(int(dist/30 + 1))

	e.preSieve()
	e.crossOff()

	e.Sieve.UnsetLarger(e.Stop)
	e.segmentLow = e.Stop
}
