// Package primesieve implements the engine API of spec.md §6: sieve,
// fill_primes, callback_primes and a bidirectional iterator, layered over
// internal/partition (parallel segmented sieving), internal/iterator
// (PrimeIterator) and internal/riemann (nth-prime estimation).
//
// Grounded on the teacher's prime/primes.go public surface (GeneratePrimes,
// ParallelSegmentedSieve) for the shape of a package that exposes a small
// set of range-sieving entry points over an internal engine; the
// implementation itself is the wheel/bitsieve engine under internal/, not
// the teacher's naive trial-division sieve.
package primesieve

import (
	"go.uber.org/zap"

	"github.com/primesieve-go/primesieve/internal/config"
	"github.com/primesieve-go/primesieve/internal/extract"
	"github.com/primesieve-go/primesieve/internal/iterator"
	"github.com/primesieve-go/primesieve/internal/obs"
	"github.com/primesieve-go/primesieve/internal/partition"
	"github.com/primesieve-go/primesieve/internal/riemann"
)

// CountKind selects one of the six counters spec.md §6's sieve(start, stop,
// flags) can report.
type CountKind = extract.Kind

const (
	Primes      = extract.Primes
	Twins       = extract.Twins
	Triplets    = extract.Triplets
	Quadruplets = extract.Quadruplets
	Quintuplets = extract.Quintuplets
	Sextuplets  = extract.Sextuplets
)

// MaxStop is the largest supported stop bound: 2^64 - 2^32*10, per spec.md
// §6's numerical limits.
var MaxStop = config.MaxStop210

// Counts holds the six counters from a Sieve call, indexed by CountKind.
type Counts = partition.Counts

// Flags selects which counters Sieve computes, as a bitmask of CountKind
// bits (1<<Primes, 1<<Twins, ...). AllCounts requests every counter.
type Flags = partition.Kinds

const AllCounts Flags = partition.AllKinds

// Options tunes a Sieve call. The zero value
// chooses automatic thread count and sieve size.
type Options struct {
	// Threads bounds worker count (spec.md §6 "num_threads"); 0 means
	// "choose automatically". Values above hardware concurrency are
	// clamped; a negative value is an InvalidConfig error.
	Threads int
	// SieveSizeKiB overrides the segment size (spec.md §6 "sieve_size_kib",
	// 16..8192); 0 lets the engine pick its own default. A non-zero value
	// outside [16, 8192] is an InvalidConfig error.
	SieveSizeKiB uint64
	// OnProgress, when set, receives best-effort percent-complete updates.
	OnProgress func(percent float64)
}

func (o Options) validate() error {
	if o.SieveSizeKiB != 0 && (o.SieveSizeKiB < config.MinSieveSizeKiB || o.SieveSizeKiB > config.MaxSieveSizeKiB) {
		return newError(InvalidConfig, "sieve_size_kib must be within [16, 8192]")
	}
	if o.Threads < 0 {
		return newError(InvalidConfig, "num_threads must be >= 0")
	}
	return nil
}

func checkRange(start, stop uint64) error {
	if start > stop {
		return newError(OutOfRange, "start exceeds stop")
	}
	if stop > MaxStop {
		return newError(OutOfRange, "stop exceeds the maximum supported value")
	}
	return nil
}

// Sieve counts primes (and, when flags selects them, k-tuplets) in
// [start, stop], matching spec.md §6's sieve(start, stop, flags) -> counts[6].
func Sieve(start, stop uint64, flags Flags, opts Options) (Counts, error) {
	var zero Counts
	if err := checkRange(start, stop); err != nil {
		return zero, err
	}
	if err := opts.validate(); err != nil {
		return zero, err
	}

	obs.L().Debug("sieve",
		zap.Uint64("start", start), zap.Uint64("stop", stop),
		zap.Int("threads", opts.Threads), zap.Uint64("sieve_size_kib", opts.SieveSizeKiB),
	)

	counts, err := partition.Sieve(start, stop, partition.Options{
		Threads:      opts.Threads,
		SieveSizeKiB: opts.SieveSizeKiB,
		Kinds:        flags,
		OnProgress:   opts.OnProgress,
	})
	if err != nil {
		return zero, wrapErr(Allocation, err)
	}
	return counts, nil
}

// FillPrimes writes every prime in [start, stop] into out, in increasing
// order, stopping once out is full. It returns the number of primes
// written, matching spec.md §6's fill_primes(start, stop, out_buffer).
func FillPrimes(start, stop uint64, out []uint64) (int, error) {
	if err := checkRange(start, stop); err != nil {
		return 0, err
	}
	n := 0
	_, err := partition.Sieve(start, stop, partition.Options{
		Threads: 1,
		OnPrime: func(p uint64) {
			if n < len(out) {
				out[n] = p
				n++
			}
		},
	})
	if err != nil {
		return n, wrapErr(Allocation, err)
	}
	return n, nil
}

// CallbackPrimes invokes fn(prime) in increasing order for every prime in
// [start, stop], single-threaded, matching spec.md §6's
// callback_primes(start, stop, fn).
func CallbackPrimes(start, stop uint64, fn func(prime uint64)) error {
	if err := checkRange(start, stop); err != nil {
		return err
	}
	_, err := partition.Sieve(start, stop, partition.Options{
		Threads: 1,
		OnPrime: fn,
	})
	if err != nil {
		return wrapErr(Allocation, err)
	}
	return nil
}

// Iterator is a bidirectional prime cursor, matching spec.md §6's
// iterator(start, stop_hint) with next()/previous().
type Iterator struct {
	it *iterator.Iterator
}

// NoStopHint disables stop_hint sizing, matching spec.md §4.12.
const NoStopHint = iterator.NoStopHint

// NewIterator creates an Iterator positioned at start. stopHint, when not
// NoStopHint, lets the iterator size its first forward window tightly
// instead of starting small and widening geometrically.
func NewIterator(start, stopHint uint64) *Iterator {
	return &Iterator{it: iterator.New(start, stopHint)}
}

// Next returns the next prime >= the cursor, in increasing order.
// ok is false once the engine's supported range is exhausted or an
// internal error occurred; check Err in that case.
func (it *Iterator) Next() (prime uint64, ok bool) {
	p, ok := it.it.Next()
	if !ok {
		return 0, false
	}
	return p, true
}

// Previous returns the next smaller prime, in decreasing order. It returns
// (0, true) once there is no smaller prime (the 0 sentinel of spec.md §8's
// boundary scenario), or (0, false) once it has latched an error.
func (it *Iterator) Previous() (prime uint64, ok bool) {
	return it.it.Previous()
}

// Reset rewinds the iterator to start over [start, stopHint), clearing any
// latched error.
func (it *Iterator) Reset(start, stopHint uint64) {
	it.it.Reset(start, stopHint)
}

// Err returns the latched IteratorError, if any, wrapped per spec.md §7.
func (it *Iterator) Err() error {
	if err := it.it.Err(); err != nil {
		return wrapErr(IteratorError, err)
	}
	return nil
}

// NthPrime returns the n-th prime (1-indexed: NthPrime(1) == 2), using a
// Riemann R estimate to pick a starting window and widening geometrically
// until the count matches, per spec.md §9's "nth_prime... counting with a
// growing window anchored by an R(x) estimate".
func NthPrime(n uint64) (uint64, error) {
	if n == 0 {
		return 0, newError(OutOfRange, "nth_prime(0) is undefined; n is 1-indexed")
	}
	if n == 1 {
		return 2, nil
	}

	hi := riemann.EstimateNthPrime(n)
	for {
		if hi > MaxStop {
			return 0, newError(OutOfRange, "nth_prime request exceeds the maximum supported stop")
		}
		counts, err := Sieve(2, hi, 1<<Primes, Options{})
		if err != nil {
			return 0, err
		}
		if counts[Primes] >= n {
			break
		}
		hi = hi*2 + 16
	}

	var count, result uint64
	err := CallbackPrimes(2, hi, func(p uint64) {
		count++
		if count == n && result == 0 {
			result = p
		}
	})
	if err != nil {
		return 0, err
	}
	if result == 0 {
		return 0, newError(OutOfRange, "nth_prime request exceeds the maximum supported stop")
	}
	return result, nil
}
