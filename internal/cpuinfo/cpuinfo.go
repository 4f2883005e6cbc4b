// Package cpuinfo detects CPU cache sizes to tune sieve segment sizes,
// implementing spec.md's "CPU-cache detection... specified as interfaces
// only" as a thin wrapper, grounded on original_source/src/CpuInfo.cpp's
// hasL1Cache()/l1CacheBytes() but backed by the ecosystem's cpuid library
// instead of the original's platform-specific /proc and sysctl probing.
package cpuinfo

import (
	"github.com/klauspost/cpuid/v2"

	"github.com/primesieve-go/primesieve/internal/config"
)

// L1DataCacheSize returns the detected L1 data cache size in bytes and true,
// or (0, false) when the CPU topology could not be determined.
func L1DataCacheSize() (int, bool) {
	size := cpuid.CPU.Cache.L1D
	if size <= 0 {
		return 0, false
	}
	return size, true
}

// L1DataCacheSizeOrDefault returns the detected L1 cache size, falling back
// to config.L1DCacheBytesDefault.
func L1DataCacheSizeOrDefault() int {
	if size, ok := L1DataCacheSize(); ok {
		return size
	}
	return config.L1DCacheBytesDefault
}

// LogicalCores returns the number of logical CPUs, used to size the default
// thread count for ParallelPartitioner.
func LogicalCores() int {
	if cpuid.CPU.LogicalCores > 0 {
		return cpuid.CPU.LogicalCores
	}
	return 1
}
