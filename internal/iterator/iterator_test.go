package iterator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainNext(t *testing.T, it *Iterator, k int) []uint64 {
	t.Helper()
	var got []uint64
	for i := 0; i < k; i++ {
		p, ok := it.Next()
		require.True(t, ok, "Next() failed: %v", it.Err())
		got = append(got, p)
	}
	return got
}

func drainPrevious(t *testing.T, it *Iterator, k int) []uint64 {
	t.Helper()
	var got []uint64
	for i := 0; i < k; i++ {
		p, ok := it.Previous()
		require.True(t, ok, "Previous() failed: %v", it.Err())
		got = append(got, p)
	}
	return got
}

func TestIterator_ForwardFromZero(t *testing.T) {
	it := New(0, NoStopHint)
	got := drainNext(t, it, 10)
	assert.Equal(t, []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}, got)
}

func TestIterator_BackwardFromThirtyHitsSentinel(t *testing.T) {
	it := New(30, NoStopHint)
	got := drainPrevious(t, it, 10)
	assert.Equal(t, []uint64{29, 23, 19, 17, 13, 11, 7, 5, 3, 2}, got)

	p, ok := it.Previous()
	require.True(t, ok)
	assert.Zero(t, p, "Previous() below the smallest prime must return the 0 sentinel")
}

func TestIterator_RoundTripNextThenPrevious(t *testing.T) {
	for _, k := range []int{0, 1, 3, 7, 20} {
		it := New(0, NoStopHint)
		forward := drainNext(t, it, k)

		var reversed []uint64
		for i := len(forward) - 1; i >= 0; i-- {
			reversed = append(reversed, forward[i])
		}

		backward := drainPrevious(t, it, k)
		assert.Equal(t, reversed, backward, "k=%d", k)
	}
}

func TestIterator_RoundTripPreviousThenNext(t *testing.T) {
	it := New(1000, NoStopHint)
	backward := drainPrevious(t, it, 5)

	var reversed []uint64
	for i := len(backward) - 1; i >= 0; i-- {
		reversed = append(reversed, backward[i])
	}

	forward := drainNext(t, it, 5)
	assert.Equal(t, reversed, forward)
}

func TestIterator_ResetClearsState(t *testing.T) {
	it := New(0, NoStopHint)
	drainNext(t, it, 5)

	it.Reset(100, NoStopHint)
	p, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(101), p) // 101 is the first prime >= 100
}

func TestIterator_StopHintSizesFirstWindow(t *testing.T) {
	it := New(1, 1000)
	got := drainNext(t, it, 5)
	assert.Equal(t, []uint64{2, 3, 5, 7, 11}, got)
}
