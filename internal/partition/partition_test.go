package partition

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primesieve-go/primesieve/internal/extract"
)

func TestSieve_KnownCounts(t *testing.T) {
	tests := []struct {
		name        string
		start, stop uint64
		want        uint64
	}{
		{"[0,10]", 0, 10, 4},
		{"[1,100]", 1, 100, 25},
		{"[0,1000]", 0, 1000, 168},
		{"single prime", 2, 2, 1},
		{"single composite", 4, 4, 0},
		{"start greater than stop", 10, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts, err := Sieve(tt.start, tt.stop, Options{Kinds: PrimesOnly})
			require.NoError(t, err)
			assert.Equal(t, tt.want, counts[extract.Primes])
		})
	}
}

func TestSieve_ThreadCountInvariant(t *testing.T) {
	const start, stop = 0, 200_000
	base, err := Sieve(start, stop, Options{Kinds: PrimesOnly, Threads: 1})
	require.NoError(t, err)

	for _, threads := range []int{2, 4, 8} {
		t.Run("threads", func(t *testing.T) {
			counts, err := Sieve(start, stop, Options{Kinds: PrimesOnly, Threads: threads})
			require.NoError(t, err)
			assert.Equal(t, base[extract.Primes], counts[extract.Primes])
		})
	}
}

func TestSieve_OnPrimeForcesSingleThreadedOrdering(t *testing.T) {
	var mu sync.Mutex
	var got []uint64
	_, err := Sieve(0, 1000, Options{
		Threads: 8,
		OnPrime: func(p uint64) {
			mu.Lock()
			got = append(got, p)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i], "OnPrime must deliver primes in increasing order")
	}
	assert.Equal(t, uint64(2), got[0])
}

func TestSieve_KindsSelectsOnlyRequestedCounters(t *testing.T) {
	counts, err := Sieve(0, 1000, Options{Kinds: Kinds(1 << extract.Twins)})
	require.NoError(t, err)
	assert.Zero(t, counts[extract.Primes])
	assert.NotZero(t, counts[extract.Twins])
}

func TestIdealNumThreads_NarrowRangeStaysSingleThreaded(t *testing.T) {
	assert.Equal(t, 1, idealNumThreads(0, 1000, 0))
}

func TestAlignBoundary_ClipsToStop(t *testing.T) {
	assert.Equal(t, uint64(100), alignBoundary(90, 100))
}
