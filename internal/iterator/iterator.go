// Package iterator implements PrimeIterator: a stateful forward/backward
// prime cursor with auto-growing windows, embedding an Erat per window.
//
// Grounded on original_source/src/iterator.cpp and IteratorHelper.cpp/hpp:
// generate_next_primes/generate_prev_primes become generateNext/generatePrev
// below, and IteratorHelper::updateNext/updatePrev become the unexported
// updateNext/updatePrev methods. The "placement new into a reused buffer"
// trick (spec.md §9, "Placement construction") isn't meaningful in a
// garbage-collected target -- the nested Erat is simply replaced with a
// fresh value each widen, which is what DESIGN.md records as the intended
// simplification for that note.
package iterator

import (
	"math"

	"github.com/primesieve-go/primesieve/internal/config"
	"github.com/primesieve-go/primesieve/internal/erat"
	"github.com/primesieve-go/primesieve/internal/extract"
	"github.com/primesieve-go/primesieve/internal/pool"
)

// NoStopHint disables the stop_hint optimization (spec.md §4.12): the
// iterator buffers a conservatively small, auto-widening window instead of
// sizing the first window from a caller-supplied upper bound.
const NoStopHint = ^uint64(0)

const bufCap = 1024

type direction int8

const (
	dirNone direction = iota
	dirForward
	dirBackward
)

// Iterator supports Next (forward) and Previous (backward) over primes
// starting at start. Once it latches an error (spec.md §7's IteratorError),
// every subsequent call returns (0, false) until Reset.
type Iterator struct {
	buf   [bufCap]uint64
	begin int
	end   int

	dir      direction
	pos      uint64
	havePos  bool

	cursor   uint64
	stopHint uint64

	windowStart uint64
	windowStop  uint64
	dist        uint64
	includeCur  bool

	gen        *erat.Erat
	mp         pool.MemoryPool
	segLow     uint64
	resumeByte int

	err error
}

// errOutOfRange latches the iterator once its cursor passes the engine's
// supported range, matching spec.md §7's IteratorError taxonomy entry.
var errOutOfRange = &outOfRangeError{}

type outOfRangeError struct{}

func (*outOfRangeError) Error() string { return "primesieve: iterator exceeded maximum supported stop" }

// New creates an iterator starting at start. Pass NoStopHint when the
// caller has no useful upper bound in mind.
func New(start, stopHint uint64) *Iterator {
	it := &Iterator{}
	it.Reset(start, stopHint)
	return it
}

// Reset rewinds the iterator to start over [start, stopHint), discarding
// any buffered primes and clearing a latched error.
func (it *Iterator) Reset(start, stopHint uint64) {
	*it = Iterator{
		cursor:      start,
		stopHint:    stopHint,
		windowStart: start,
		includeCur:  true,
	}
}

// Err returns the error the iterator latched into, if any.
func (it *Iterator) Err() error { return it.err }

// Next returns the next prime >= the iterator's current position, in
// increasing order, and true. It returns (0, false) once start exceeds the
// engine's supported range or an internal error occurs.
func (it *Iterator) Next() (uint64, bool) {
	if it.err != nil {
		return 0, false
	}
	if it.dir == dirBackward {
		it.switchDirection()
	}
	it.dir = dirForward
	for it.begin >= it.end {
		if !it.generateNext() {
			return 0, false
		}
	}
	p := it.buf[it.begin]
	it.begin++
	it.pos, it.havePos = p, true
	return p, true
}

// Previous returns the next smaller prime, in decreasing order, and true.
// It returns (0, true) once there is no smaller prime (the "0 sentinel" of
// spec.md's boundary scenario 8), or (0, false) on a latched error.
func (it *Iterator) Previous() (uint64, bool) {
	if it.err != nil {
		return 0, false
	}
	if it.dir == dirForward {
		it.switchDirection()
	}
	it.dir = dirBackward
	for it.begin <= 0 {
		if !it.generatePrev() {
			return 0, false
		}
		if it.end == 0 {
			// generatePrev reached the bottom of the range with nothing
			// smaller than the original start: emit the sentinel once.
			return 0, true
		}
	}
	it.begin--
	p := it.buf[it.begin]
	it.pos, it.havePos = p, true
	return p, true
}

// switchDirection rebases the shared cursor onto the last value actually
// returned so that reversing direction replays it first: k calls to Next
// followed by k calls to Previous return the same k primes in reverse
// (and symmetrically for Previous then Next), matching spec.md §8's
// round-trip scenario. Any buffered-but-unconsumed primes from the old
// direction are discarded since they were produced in the wrong order.
func (it *Iterator) switchDirection() {
	it.begin, it.end = 0, 0
	it.gen = nil
	it.dist = 0
	if it.havePos {
		it.cursor = it.pos
		it.includeCur = true
	}
}

// generateNext widens/refills the forward window until it has at least one
// buffered prime or an error occurs.
func (it *Iterator) generateNext() bool {
	for {
		if it.gen == nil {
			it.updateNext()
			if it.windowStart > config.MaxStop210 {
				it.err = errOutOfRange
				return false
			}
			if err := it.newGenerator(it.windowStart, it.windowStop); err != nil {
				it.err = err
				return false
			}
		}

		n := it.fillForward()
		if n > 0 {
			it.begin, it.end = 0, n
			return true
		}
		// Window exhausted with nothing found: widen and retry.
		it.gen = nil
	}
}

func (it *Iterator) generatePrev() bool {
	for {
		it.updatePrev()
		if it.windowStart > it.windowStop {
			it.end = 0
			return true
		}
		if err := it.newGenerator(it.windowStart, it.windowStop); err != nil {
			it.err = err
			return false
		}
		n := it.fillForward()
		it.gen = nil
		if n == 0 {
			if it.windowStart == 0 {
				it.end = 0
				return true
			}
			continue
		}
		it.begin, it.end = n, n
		return true
	}
}

func (it *Iterator) newGenerator(start, stop uint64) error {
	it.mp = pool.MemoryPool{}
	lo := start
	if lo < 7 {
		lo = 7
	}
	if lo > stop {
		it.gen = nil
		return nil
	}
	g := new(erat.Erat)
	if err := g.Init(lo, stop, config.MaxSieveSizeKiB, &it.mp); err != nil {
		return err
	}
	if err := g.GenerateSievingPrimes(); err != nil {
		return err
	}
	it.gen = g
	it.resumeByte = -1
	return nil
}

// fillForward drains it.gen's segments (plus 2/3/5 when the window starts
// below 7) into it.buf, stopping once the buffer is full or the generator
// is exhausted, and returns how many primes were written.
func (it *Iterator) fillForward() int {
	n := 0
	for _, p := range [...]uint64{2, 3, 5} {
		if n >= len(it.buf) {
			return n
		}
		if p >= it.windowStart && p <= it.windowStop {
			it.buf[n] = p
			n++
		}
	}
	if it.gen == nil {
		return n
	}
	for n < len(it.buf) {
		if it.resumeByte < 0 || it.resumeByte >= it.gen.Sieve.Len {
			if !it.gen.HasNextSegment() {
				break
			}
			it.segLow = it.gen.SegmentLow()
			it.gen.SieveSegment()
			it.resumeByte = 0
		}
		written, resume := extract.FillBuffer(it.gen.Sieve.Bytes[:it.gen.Sieve.Len], it.segLow, it.resumeByte, it.buf[n:])
		n += written
		it.resumeByte = resume
	}
	return n
}

// updateNext mirrors IteratorHelper::updateNext: pick the next window
// [windowStart, windowStop] to sieve, widening dist geometrically unless a
// stop hint lets us size the window tightly.
func (it *Iterator) updateNext() {
	var newStart uint64
	if it.includeCur {
		newStart = it.cursor
	} else {
		newStart = checkedAdd(it.windowStop, 1)
	}
	it.includeCur = false
	it.windowStart = newStart
	it.cursor = newStart
	it.dist = nextDist(it.windowStart, it.dist)

	if it.stopHint != NoStopHint && it.stopHint >= it.windowStart {
		it.windowStop = checkedAdd(it.stopHint, maxPrimeGap(it.stopHint))
	} else {
		it.windowStop = checkedAdd(it.windowStart, it.dist)
	}
	if it.windowStop > config.MaxStop210 {
		it.windowStop = config.MaxStop210
	}
}

// updatePrev mirrors IteratorHelper::updatePrev.
func (it *Iterator) updatePrev() {
	if it.includeCur {
		it.windowStop = it.cursor
	} else {
		it.windowStop = checkedSub(it.cursor, 1)
	}
	it.includeCur = false
	it.dist = prevDist(it.windowStop, it.dist)
	it.windowStart = checkedSub(it.windowStop, it.dist)

	if it.stopHint != NoStopHint && it.stopHint >= it.windowStart && it.stopHint <= it.windowStop {
		it.windowStart = checkedSub(it.stopHint, maxPrimeGap(it.stopHint))
	}
	it.cursor = it.windowStart
}

const minCachedPrime = 1 << 16

func nextDist(start, dist uint64) uint64 {
	minDist := erat.Isqrt(start)
	if minDist < minCachedPrime {
		minDist = minCachedPrime
	}
	const maxDist = uint64(1) << 60
	dist *= 4
	return inBetween(minDist, dist, maxDist)
}

func prevDist(stop, dist uint64) uint64 {
	x := math.Max(10, float64(stop))
	logx := uint64(math.Log(x))
	minDist := (config.MinCacheIteratorBytes / 8) * logx
	maxDist := (config.MaxCacheIteratorBytes / 8) * logx
	tinyDist := uint64(minCachedPrime) * 4
	defaultDist := uint64(math.Sqrt(x) * 2)

	dist *= 4
	minDist = inBetween(tinyDist, dist, minDist)
	return inBetween(minDist, defaultDist, maxDist)
}

// maxPrimeGap approximates the largest prime gap below x as ln(x)^2,
// matching primesieve's nthPrimeDist heuristic (original_source/src/
// primesieve/PrimeSieve-nthPrime.cpp).
func maxPrimeGap(x uint64) uint64 {
	if x < 4 {
		x = 4
	}
	logx := math.Log(float64(x))
	return uint64(logx * logx)
}

func inBetween(lo, x, hi uint64) uint64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func checkedAdd(a, b uint64) uint64 {
	s := a + b
	if s < a {
		return ^uint64(0)
	}
	return s
}

func checkedSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
