package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primesieve-go/primesieve/internal/wheel"
)

// byteForResidues builds a single sieve byte with exactly the given
// residues (from wheel.BitValues' {7,11,13,17,19,23,29,31}) set.
func byteForResidues(residues ...uint64) byte {
	var b byte
	for i, r := range wheel.BitValues {
		for _, want := range residues {
			if r == want {
				b |= 1 << uint(i)
			}
		}
	}
	return b
}

func TestCountBits(t *testing.T) {
	tests := []struct {
		name  string
		sieve []byte
		want  uint64
	}{
		{"empty", nil, 0},
		{"single byte, no bits", []byte{0x00}, 0},
		{"single byte, all bits", []byte{0xFF}, 8},
		{"two bytes", []byte{0x0F, 0xF0}, 8},
		{"nine bytes crosses the 8-byte word boundary", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}, 65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountBits(tt.sieve))
		})
	}
}

func TestCountTupletTwins(t *testing.T) {
	// Residues 11 and 13 differ by 2: a twin pair.
	b := byteForResidues(11, 13)
	assert.Equal(t, uint64(1), CountTuplet([]byte{b}, Twins))
	assert.Equal(t, uint64(0), CountTuplet([]byte{b}, Triplets))
}

func TestCountTupletSextuplet(t *testing.T) {
	// 7,11,13,17,19,23 is the canonical sextuplet pattern within one byte.
	b := byteForResidues(7, 11, 13, 17, 19, 23)
	assert.Equal(t, uint64(1), CountTuplet([]byte{b}, Sextuplets))
	// A sextuplet also contains both quintuplet-shaped patterns, the
	// quadruplet pattern and four triplet-shaped patterns, but not a second,
	// distinct sextuplet.
	assert.LessOrEqual(t, CountTuplet([]byte{b}, Quintuplets), uint64(2))
}

func TestForEachPrime(t *testing.T) {
	b := byteForResidues(7, 11, 13)
	var got []uint64
	ForEachPrime([]byte{b}, 0, func(p uint64) bool {
		got = append(got, p)
		return true
	})
	assert.Equal(t, []uint64{7, 11, 13}, got)
}

func TestForEachPrimeStopsEarly(t *testing.T) {
	b := byteForResidues(7, 11, 13, 17)
	var got []uint64
	ForEachPrime([]byte{b}, 0, func(p uint64) bool {
		got = append(got, p)
		return len(got) < 2
	})
	assert.Equal(t, []uint64{7, 11}, got)
}

func TestForEachPrimeOffsetByLow(t *testing.T) {
	b := byteForResidues(7)
	var got []uint64
	ForEachPrime([]byte{0x00, b}, 100, func(p uint64) bool {
		got = append(got, p)
		return true
	})
	require.Len(t, got, 1)
	assert.Equal(t, uint64(100+30+7), got[0])
}

func TestFillBufferResumesAcrossCalls(t *testing.T) {
	b := byteForResidues(7, 11, 13, 17, 19)
	sieve := []byte{b}

	buf := make([]uint64, 2)
	n, resume := FillBuffer(sieve, 0, 0, buf)
	require.Equal(t, 2, n)
	assert.Equal(t, []uint64{7, 11}, buf)
	assert.Equal(t, 0, resume) // still mid-byte 0

	n2, resume2 := FillBuffer(sieve, 0, resume, buf)
	require.Equal(t, 2, n2)
	assert.Equal(t, []uint64{13, 17}, buf)

	n3, resume3 := FillBuffer(sieve, 0, resume2, buf[:1])
	require.Equal(t, 1, n3)
	assert.Equal(t, uint64(19), buf[0])
	assert.Equal(t, len(sieve), resume3)
}

func TestFillBufferExhaustsAtSieveEnd(t *testing.T) {
	sieve := []byte{byteForResidues(7)}
	buf := make([]uint64, 4)
	n, resume := FillBuffer(sieve, 0, 0, buf)
	assert.Equal(t, 1, n)
	assert.Equal(t, len(sieve), resume)
}
