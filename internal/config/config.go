// Package config collects the tuning constants used throughout the sieving
// engine, grounded on original_source/include/primesieve/config.hpp and the
// factor constants referenced by Erat::initAlgorithms in
// original_source/src/Erat.cpp.
package config

const (
	// FactorSieveSize scales sqrt(stop) into an initial sieve size guess.
	FactorSieveSize = 2.0
	// FactorEratSmall scales minSieveSize into EratSmall's prime ceiling.
	FactorEratSmall = 0.2
	// FactorEratMedium scales sieveSize into EratMedium's prime ceiling.
	FactorEratMedium = 3.0

	// MinSieveSizeKiB and MaxSieveSizeKiB bound the sieve_size_kib tuning
	// knob from spec.md §6.
	MinSieveSizeKiB = 16
	MaxSieveSizeKiB = 8192

	// L1DCacheBytesDefault is used when CPU cache detection is unavailable.
	L1DCacheBytesDefault = 32 << 10

	// MinCacheIteratorBytes and MaxCacheIteratorBytes bound PrimeIterator's
	// backward-buffering window, mirroring config::MIN_CACHE_ITERATOR and
	// config::MAX_CACHE_ITERATOR.
	MinCacheIteratorBytes = 1 << 16
	MaxCacheIteratorBytes = 1 << 23

	// MaxUint32 is 2^32 - 1; MaxStop210 below is derived from it.
	MaxUint32 = 1<<32 - 1
)

// MaxStop210 is the largest supported stop bound: 2^64 - 2^32*10.
var MaxStop210 = ^uint64(0) - uint64(MaxUint32+1)*10 + 1
