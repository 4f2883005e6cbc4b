// Package pool implements the bucket-based bulk allocator for sieving
// primes used by EratMedium, and the packed SievingPrime record that
// EratSmall and EratMedium store.
//
// Grounded on original_source/include/primesieve/Bucket.hpp (SievingPrime,
// Bucket) and original_source/src/MemoryPool.hpp (MemoryPool), adapted to
// Go's garbage collector: buckets are still arena-allocated in bulk slices
// to keep allocation off the hot cross-off path, but the "cyclic raw
// pointer" ownership the C++ source relies on is replaced by ordinary Go
// pointers into arena-owned slices (see DESIGN.md, "ownership").
package pool

const (
	maxMultipleIndex = (1 << 23) - 1
	maxWheelIndex    = (1 << (32 - 23)) - 1
)

// SievingPrime is a packed record: a prime (divided by 30) and the
// position within the sieve array of its next multiple, plus the wheel
// state needed to compute the multiple after that.
type SievingPrime struct {
	indexes uint32 // multipleIndex (low 23 bits) | wheelIndex (high 9 bits)
	prime   uint32 // sievingPrime = prime / 30
}

// Set stores a new (prime, multipleIndex, wheelIndex) triple.
func (s *SievingPrime) Set(sievingPrime, multipleIndex, wheelIndex uint64) {
	if multipleIndex > maxMultipleIndex {
		panic("pool: multipleIndex overflows 23 bits")
	}
	if wheelIndex > maxWheelIndex {
		panic("pool: wheelIndex overflows 9 bits")
	}
	s.indexes = uint32(multipleIndex) | uint32(wheelIndex<<23)
	s.prime = uint32(sievingPrime)
}

// Prime returns prime/30, as stored by Set.
func (s *SievingPrime) Prime() uint64 { return uint64(s.prime) }

// MultipleIndex returns the byte offset of the prime's next multiple.
func (s *SievingPrime) MultipleIndex() uint64 { return uint64(s.indexes & maxMultipleIndex) }

// WheelIndex returns the current wheel state.
func (s *SievingPrime) WheelIndex() uint64 { return uint64(s.indexes >> 23) }

// SetMultipleIndex updates only the multiple-index bits.
func (s *SievingPrime) SetMultipleIndex(multipleIndex uint64) {
	if multipleIndex > maxMultipleIndex {
		panic("pool: multipleIndex overflows 23 bits")
	}
	s.indexes = (s.indexes &^ maxMultipleIndex) | uint32(multipleIndex)
}

// SetWheelIndex updates only the wheel-index bits.
func (s *SievingPrime) SetWheelIndex(wheelIndex uint64) {
	if wheelIndex > maxWheelIndex {
		panic("pool: wheelIndex overflows 9 bits")
	}
	s.indexes = (s.indexes & maxMultipleIndex) | uint32(wheelIndex<<23)
}
