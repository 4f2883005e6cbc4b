package main

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primesieve-go/primesieve"
)

func TestParseNumberExpr(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"100", 100},
		{"10^9", 1_000_000_000},
		{"10^9+10^6", 1_001_000_000},
		{"2*3", 6},
	}
	for _, tt := range tests {
		got, err := parseNumberExpr(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseNumberExpr_RejectsGarbage(t *testing.T) {
	_, err := parseNumberExpr("not-a-number")
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		dist        uint64
		wantStart   uint64
		wantStop    uint64
	}{
		{"single stop", []string{"100"}, 0, 0, 100},
		{"start and stop", []string{"10", "100"}, 0, 10, 100},
		{"dist from single start", []string{"10"}, 90, 10, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, stop, err := parseRange(tt.args, tt.dist)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantStop, stop)
		})
	}
}

func TestParseRange_RequiresAtLeastOneArg(t *testing.T) {
	_, _, err := parseRange(nil, 0)
	assert.Error(t, err)
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name        string
		count       string
		print       string
		want        primesieve.Flags
	}{
		{"default count", "1", "", primesieve.Flags(1 << primesieve.Primes)},
		{"empty falls back to primes", "", "", primesieve.Flags(1 << primesieve.Primes)},
		{"digits select multiple kinds", "13", "", primesieve.Flags(1<<primesieve.Primes | 1<<primesieve.Triplets)},
		{"print only", "", "2", primesieve.Flags(1 << primesieve.Twins)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKinds(tt.count, tt.print)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKinds_RejectsOutOfRangeDigit(t *testing.T) {
	_, err := parseKinds("7", "")
	assert.Error(t, err)
}

func TestFormatRate(t *testing.T) {
	tests := map[string]string{
		"0":          "0",
		"999":        "999",
		"1000":       "1,000",
		"1234567":    "1,234,567",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			f, err := strconv.ParseFloat(in, 64)
			require.NoError(t, err)
			assert.Equal(t, want, formatRate(f))
		})
	}
}
