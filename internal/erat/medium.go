package erat

import (
	"github.com/primesieve-go/primesieve/internal/pool"
	"github.com/primesieve-go/primesieve/internal/wheel"
)

const mediumLists = 64

// Medium crosses off multiples of sieving primes that have few hits per
// segment. Primes are kept in 64 bucket lists indexed by wheel state;
// crossOff snapshots the lists, drains them, and re-inserts each prime into
// the list matching its post-cross-off wheel state, which keeps access
// patterns predictable across segments for the branch predictor.
//
// Grounded on original_source/src/EratMedium.cpp.
type Medium struct {
	enabled  bool
	maxPrime uint64
	mp       *pool.MemoryPool
	lists    [mediumLists]*pool.Bucket
	count    int
}

// Init configures Medium and seeds one bucket per wheel-index list so the
// first AddSievingPrime call never needs a bulk refill mid-loop.
func (m *Medium) Init(maxPrime uint64, mp *pool.MemoryPool) {
	m.enabled = true
	m.maxPrime = maxPrime
	m.mp = mp
	for i := range m.lists {
		mp.AddBucket(&m.lists[i])
	}
}

// HasSievingPrimes reports whether CrossOff has anything to do.
func (m *Medium) HasSievingPrimes() bool { return m.enabled && m.count > 0 }

// AddSievingPrime registers prime as a sieving prime.
func (m *Medium) AddSievingPrime(prime, segmentLow, stop uint64) {
	multipleIndex, wheelIndex, ok := wheel.NextMultiple30(prime, segmentLow, stop)
	if !ok {
		return
	}
	m.count++
	storeInto(&m.lists, m.mp, wheelIndex, prime/30, multipleIndex)
}

// CrossOff clears the bits of every registered prime's multiples within
// sieve, re-bucketing each prime by its wheel state after crossing off.
func (m *Medium) CrossOff(sieve []byte) {
	old := m.lists
	var fresh [mediumLists]*pool.Bucket
	for i := range fresh {
		m.mp.AddBucket(&fresh[i])
	}

	for wi := 0; wi < mediumLists; wi++ {
		bucket := old[wi]
		for bucket != nil {
			primes := bucket.Begin()
			for i := range primes {
				sp := &primes[i]
				newMi, newWi := wheel.CrossOff30(sieve, sp.Prime(), sp.MultipleIndex(), sp.WheelIndex())
				storeInto(&fresh, m.mp, newWi, sp.Prime(), newMi)
			}
			processed := bucket
			bucket = bucket.Next()
			m.mp.FreeBucket(processed)
		}
	}

	m.lists = fresh
}

// storeInto appends (sievingPrime, multipleIndex, wheelIndex) to
// lists[wheelIndex], refilling from mp when the current head bucket fills.
func storeInto(lists *[mediumLists]*pool.Bucket, mp *pool.MemoryPool, wheelIndex, sievingPrime, multipleIndex uint64) {
	if !lists[wheelIndex].Store(sievingPrime, multipleIndex, wheelIndex) {
		mp.AddBucket(&lists[wheelIndex])
	}
}
