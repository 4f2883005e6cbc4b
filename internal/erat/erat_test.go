package erat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/primesieve-go/primesieve/internal/extract"
	"github.com/primesieve-go/primesieve/internal/pool"
)

// countPrimesGE7 sieves [start, stop] (start must be >= 7) and returns how
// many primes it found via the standard Init/GenerateSievingPrimes/
// SieveSegment loop, the same sequence every caller (partition, iterator)
// drives Erat through.
func countPrimesGE7(t *testing.T, start, stop uint64) uint64 {
	t.Helper()
	var mp pool.MemoryPool
	var e Erat
	require.NoError(t, e.Init(start, stop, 16, &mp))
	require.NoError(t, e.GenerateSievingPrimes())

	var n uint64
	for e.HasNextSegment() {
		e.SieveSegment()
		n += extract.CountBits(e.Sieve.Bytes[:e.Sieve.Len])
	}
	return n
}

func TestErat_CountPrimesKnownRanges(t *testing.T) {
	// Counts exclude 2, 3, 5 since the wheel-encoded BitSieve never
	// represents them; callers add those three back in separately.
	tests := []struct {
		name        string
		start, stop uint64
		want        uint64
	}{
		{"[7,10]", 7, 10, 1},      // 7
		{"[7,100]", 7, 100, 22},   // pi(100)=25, minus {2,3,5}
		{"[7,1000]", 7, 1000, 165}, // pi(1000)=168, minus {2,3,5}
		{"single prime", 11, 11, 1},
		{"single composite", 9, 9, 0},
		{"empty-ish single point", 7, 7, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, countPrimesGE7(t, tt.start, tt.stop))
		})
	}
}

func TestErat_MultiSegmentMatchesKnownCount(t *testing.T) {
	// pi(10000) = 1229; minus {2,3,5} = 1226. A 16KiB max sieve size at
	// this stop sieves in several segments, exercising SieveSegment's
	// advance-and-resize path and sieveLastSegment's partial-final-segment
	// path together.
	require.Equal(t, uint64(1226), countPrimesGE7(t, 7, 10000))
}

func TestErat_EratBigMatchesKnownCount(t *testing.T) {
	// With the 16KiB max sieve size countPrimesGE7 uses, maxEratMedium is
	// fixed at sieveSize*FactorEratMedium = 16384*3 = 49152, so any stop
	// with sqrt(stop) > 49152 (stop > ~2.4*10^9) routes its largest sieving
	// primes through EratBig. pi(2*10^10) = 882,206,716 is a published
	// prime-counting reference value; minus {2,3,5} = 882,206,713.
	require.Equal(t, uint64(882206713), countPrimesGE7(t, 7, 20_000_000_000))
}

func TestErat_RejectsStartGreaterThanStop(t *testing.T) {
	var mp pool.MemoryPool
	var e Erat
	require.Error(t, e.Init(10, 7, 16, &mp))
}

func TestErat_RejectsStartBelowSeven(t *testing.T) {
	var mp pool.MemoryPool
	var e Erat
	require.Error(t, e.Init(5, 100, 16, &mp))
}

func TestIsqrt(t *testing.T) {
	cases := map[uint64]uint64{
		0:   0,
		1:   1,
		3:   1,
		4:   2,
		8:   2,
		9:   3,
		99:  9,
		100: 10,
	}
	for n, want := range cases {
		require.Equal(t, want, isqrt(n), "isqrt(%d)", n)
	}
	// Large values near the engine's supported range must not overflow
	// the float64 round-trip used internally.
	require.Equal(t, uint64(4294967295), isqrt(4294967295*4294967295))
}
