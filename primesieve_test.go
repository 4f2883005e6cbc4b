package primesieve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSieve_KnownCounts(t *testing.T) {
	// Scenarios from spec.md §8's testable properties.
	tests := []struct {
		name        string
		start, stop uint64
		want        uint64
	}{
		{"[0,10]", 0, 10, 4},
		{"[1,100]", 1, 100, 25},
		{"[0,1000]", 0, 1000, 168},
		{"start equals stop, prime", 7, 7, 1},
		{"start equals stop, composite", 8, 8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts, err := Sieve(tt.start, tt.stop, 1<<Primes, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, counts[Primes])
		})
	}
}

func TestSieve_RejectsStopBeyondMax(t *testing.T) {
	_, err := Sieve(0, MaxStop+1, 1<<Primes, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestSieve_RejectsStartGreaterThanStop(t *testing.T) {
	_, err := Sieve(100, 10, 1<<Primes, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestSieve_RejectsInvalidSieveSize(t *testing.T) {
	_, err := Sieve(0, 1000, 1<<Primes, Options{SieveSizeKiB: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestFillPrimes(t *testing.T) {
	buf := make([]uint64, 10)
	n, err := FillPrimes(0, 100, buf)
	require.NoError(t, err)
	require.Equal(t, 10, n)
	assert.Equal(t, []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}, buf)
}

func TestFillPrimes_StopsOnceBufferIsFull(t *testing.T) {
	buf := make([]uint64, 3)
	n, err := FillPrimes(0, 1000, buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []uint64{2, 3, 5}, buf)
}

func TestCallbackPrimes_OrderedAndComplete(t *testing.T) {
	var got []uint64
	err := CallbackPrimes(0, 50, func(p uint64) { got = append(got, p) })
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}, got)
}

func TestNthPrime(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{1, 2},
		{2, 3},
		{6, 13},
		{100, 541},
	}
	for _, tt := range tests {
		got, err := NthPrime(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "NthPrime(%d)", tt.n)
	}
}

func TestNthPrime_RejectsZero(t *testing.T) {
	_, err := NthPrime(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestIterator_RoundTripsThroughEngineAPI(t *testing.T) {
	it := NewIterator(0, NoStopHint)
	var forward []uint64
	for i := 0; i < 5; i++ {
		p, ok := it.Next()
		require.True(t, ok, "Err: %v", it.Err())
		forward = append(forward, p)
	}
	assert.Equal(t, []uint64{2, 3, 5, 7, 11}, forward)

	var backward []uint64
	for i := 0; i < 5; i++ {
		p, ok := it.Previous()
		require.True(t, ok)
		backward = append(backward, p)
	}
	assert.Equal(t, []uint64{11, 7, 5, 3, 2}, backward)
}
