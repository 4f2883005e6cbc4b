// Package partition implements ParallelPartitioner: it splits [start, stop]
// into aligned chunks, runs one Erat session per chunk -- in parallel when
// the range is wide enough -- and merges the resulting counts.
//
// Grounded on original_source/src/ParallelSieve.cpp (idealNumThreads,
// getThreadDistance, align, tryUpdateStatus), reimplemented with
// golang.org/x/sync/errgroup in place of std::async + std::future so a
// worker's error (e.g. MemoryPool allocation failure) aborts the whole
// partition with the first error instead of silently returning partial
// counts, matching spec.md §7's "no partial success".
package partition

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/primesieve-go/primesieve/internal/config"
	"github.com/primesieve-go/primesieve/internal/cpuinfo"
	"github.com/primesieve-go/primesieve/internal/erat"
	"github.com/primesieve-go/primesieve/internal/extract"
	"github.com/primesieve-go/primesieve/internal/pool"
)

// minThreadDistance is the narrowest distance worth handing to its own
// thread, matching config::MIN_THREAD_DISTANCE.
const minThreadDistance = 10_000_000

// Counts holds the six counters from spec.md §6's sieve(start, stop, flags)
// result, indexed by extract.Kind.
type Counts [extract.NumKinds]uint64

func (c *Counts) add(o Counts) {
	for i := range c {
		c[i] += o[i]
	}
}

// Kinds selects which of the six counters a Sieve call computes; bit i
// corresponds to extract.Kind(i). Uncomputed kinds stay zero.
type Kinds uint8

func (k Kinds) has(kind extract.Kind) bool { return k&(1<<uint(kind)) != 0 }

// AllKinds requests every counter.
const AllKinds Kinds = 1<<extract.NumKinds - 1

// PrimesOnly requests only the prime count, the common case for
// count_primes-style callers.
const PrimesOnly Kinds = 1 << extract.Primes

// Options configures one Sieve call.
type Options struct {
	// Threads bounds worker count; 0 means "choose automatically", capped
	// by cpuinfo.LogicalCores().
	Threads int
	// SieveSizeKiB overrides each worker's segment size; 0 lets Erat pick
	// its own default.
	SieveSizeKiB uint64
	// Kinds selects which counters to accumulate. Zero value counts
	// nothing, which is valid when only OnPrime is wanted.
	Kinds Kinds
	// OnPrime, when non-nil, is invoked in increasing order for every
	// prime in [start, stop]. Per spec.md §5, cross-worker ordering is
	// only guaranteed single-threaded, so Sieve forces Threads=1 whenever
	// OnPrime is set.
	OnPrime func(uint64)
	// OnProgress, when non-nil, receives a best-effort percent-complete
	// update (0..100) as chunks finish. Calls are coalesced through a
	// try-lock exactly like ParallelSieve::tryUpdateStatus: a busy
	// receiver simply misses an update instead of blocking a worker.
	OnProgress func(float64)
}

// Sieve partitions [start, stop], runs Erat sessions over the pieces and
// sums their counts. It chooses a single-threaded path automatically when
// the range is too narrow to benefit from splitting.
func Sieve(start, stop uint64, opts Options) (Counts, error) {
	var zero Counts
	if start > stop {
		return zero, nil
	}
	if opts.OnPrime != nil {
		opts.Threads = 1
	}

	threads := idealNumThreads(start, stop, opts.Threads)
	if threads <= 1 {
		return sieveChunk(start, stop, opts)
	}

	dist := stop - start + 1
	threadDist := threadDistance(stop, dist, threads)
	iters := (dist-1)/threadDist + 1
	if iters < uint64(threads) {
		threads = int(iters)
	}

	results := make([]Counts, iters)
	var nextIdx uint64
	var idxMu sync.Mutex
	var progressMu sync.Mutex
	var completed uint64

	g := new(errgroup.Group)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			for {
				idxMu.Lock()
				i := nextIdx
				if i >= iters {
					idxMu.Unlock()
					return nil
				}
				nextIdx++
				idxMu.Unlock()

				chunkStart := start + threadDist*i
				chunkStop := checkedAdd(chunkStart, threadDist)
				chunkStop = alignBoundary(chunkStop, stop)
				if chunkStart > start {
					chunkStart = alignBoundary(chunkStart, stop) + 1
				}
				if chunkStart > chunkStop || chunkStart > stop {
					continue
				}

				c, err := sieveChunk(chunkStart, chunkStop, Options{
					SieveSizeKiB: opts.SieveSizeKiB,
					Kinds:        opts.Kinds,
				})
				if err != nil {
					return err
				}
				results[i] = c

				done := atomic.AddUint64(&completed, 1)
				if opts.OnProgress != nil && progressMu.TryLock() {
					opts.OnProgress(float64(done) / float64(iters) * 100)
					progressMu.Unlock()
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return zero, err
	}

	var total Counts
	for _, c := range results {
		total.add(c)
	}
	return total, nil
}

// sieveChunk runs a single Erat session over [start, stop] and accumulates
// counts/callbacks for it. Primes 2, 3 and 5 are handled directly since
// they are never representable in the engine's wheel-encoded BitSieve.
func sieveChunk(start, stop uint64, opts Options) (Counts, error) {
	var counts Counts
	if start > stop {
		return counts, nil
	}

	for _, p := range [...]uint64{2, 3, 5} {
		if p >= start && p <= stop {
			if opts.Kinds.has(extract.Primes) {
				counts[extract.Primes]++
			}
			if opts.OnPrime != nil {
				opts.OnPrime(p)
			}
		}
	}

	lo := start
	if lo < 7 {
		lo = 7
	}
	if lo > stop {
		return counts, nil
	}

	sieveSize := opts.SieveSizeKiB
	if sieveSize == 0 {
		sieveSize = config.MaxSieveSizeKiB
	}

	var mp pool.MemoryPool
	var e erat.Erat
	if err := e.Init(lo, stop, sieveSize, &mp); err != nil {
		return counts, err
	}
	if err := e.GenerateSievingPrimes(); err != nil {
		return counts, err
	}

	for e.HasNextSegment() {
		low := e.SegmentLow()
		e.SieveSegment()
		seg := e.Sieve.Bytes[:e.Sieve.Len]
		accumulate(&counts, opts.Kinds, seg, low, opts.OnPrime)
	}
	return counts, nil
}

func accumulate(counts *Counts, kinds Kinds, seg []byte, low uint64, onPrime func(uint64)) {
	if kinds.has(extract.Primes) {
		counts[extract.Primes] += extract.CountBits(seg)
	}
	for k := extract.Twins; k <= extract.Sextuplets; k++ {
		if kinds.has(k) {
			counts[k] += extract.CountTuplet(seg, k)
		}
	}
	if onPrime != nil {
		extract.ForEachPrime(seg, low, func(p uint64) bool {
			onPrime(p)
			return true
		})
	}
}

// idealNumThreads mirrors ParallelSieve::idealNumThreads: the distance must
// be several times wider than sqrt(stop)/5 (floored at minThreadDistance)
// for every requested thread to get meaningful work.
func idealNumThreads(start, stop uint64, requested int) int {
	if start > stop {
		return 1
	}
	maxThreads := cpuinfo.LogicalCores()
	if requested > 0 && requested < maxThreads {
		maxThreads = requested
	}
	if maxThreads < 1 {
		maxThreads = 1
	}

	threshold := erat.Isqrt(stop) / 5
	if threshold < minThreadDistance {
		threshold = minThreadDistance
	}
	threads := (stop - start + 1) / threshold
	if threads < 1 {
		threads = 1
	}
	if threads > uint64(maxThreads) {
		threads = uint64(maxThreads)
	}
	return int(threads)
}

// threadDistance mirrors ParallelSieve::getThreadDistance: balance between
// an ideal per-thread distance (sqrt(stop)*200) and an even split of the
// whole range, then round the iteration count to a multiple of threads so
// every worker finishes at roughly the same time, and align the result to
// a multiple of 30.
func threadDistance(stop, dist uint64, threads int) uint64 {
	balanced := erat.Isqrt(stop) * 200
	unbalanced := dist / uint64(threads)
	fastest := balanced
	if unbalanced < fastest {
		fastest = unbalanced
	}
	if fastest == 0 {
		fastest = 1
	}
	iters := dist / fastest
	iters = (iters / uint64(threads)) * uint64(threads)
	if iters < uint64(threads) {
		iters = uint64(threads)
	}

	threadDist := (dist-1)/iters + 1
	if threadDist < minThreadDistance {
		threadDist = minThreadDistance
	}
	threadDist += 30 - threadDist%30
	return threadDist
}

// alignBoundary rounds n up toward a "prime k-tuplets never straddle this"
// boundary, clipped to stop, matching ParallelSieve::align.
func alignBoundary(n, stop uint64) uint64 {
	n32 := checkedAdd(n, 32)
	if n32 >= stop {
		return stop
	}
	return n32 - n%30
}

func checkedAdd(a, b uint64) uint64 {
	s := a + b
	if s < a {
		return ^uint64(0)
	}
	return s
}
