// Package wheel provides the modulo-30 and modulo-210 wheel factorization
// tables used to skip multiples of the smallest primes while sieving.
//
// Grounded on original_source/src/Wheel.hpp, original_source/src/LookupTables.cpp
// and original_source/src/EratSmall.cpp (the per-state cross-off transitions).
package wheel

// BitValues maps a bit index (0..7) within a sieve byte to the residue it
// represents. A sieve byte spans 30 consecutive integers; bit j represents
// segmentLow + i*30 + BitValues[j].
var BitValues = [8]uint64{7, 11, 13, 17, 19, 23, 29, 31}

// Init pairs a next-multiple correction factor with the wheel state that
// results from applying it, indexed by quotient mod Modulo.
type Init struct {
	NextMultipleFactor uint8
	WheelIndex         uint8
}

// Init30 is used to find the next multiple of a prime that is coprime to
// 2, 3 and 5. Indexed by quotient mod 30.
var Init30 = [30]Init{
	{1, 0}, {0, 0}, {5, 1}, {4, 1}, {3, 1}, {2, 1}, {1, 1}, {0, 1},
	{3, 2}, {2, 2}, {1, 2}, {0, 2}, {1, 3}, {0, 3}, {3, 4}, {2, 4},
	{1, 4}, {0, 4}, {1, 5}, {0, 5}, {3, 6}, {2, 6}, {1, 6}, {0, 6},
	{5, 7}, {4, 7}, {3, 7}, {2, 7}, {1, 7}, {0, 7},
}

// Init210 is used to find the next multiple of a prime that is coprime to
// 2, 3, 5 and 7. Indexed by quotient mod 210.
var Init210 = [210]Init{
	{1, 0}, {0, 0}, {9, 1}, {8, 1}, {7, 1}, {6, 1}, {5, 1}, {4, 1},
	{3, 1}, {2, 1}, {1, 1}, {0, 1}, {1, 2}, {0, 2}, {3, 3}, {2, 3},
	{1, 3}, {0, 3}, {1, 4}, {0, 4}, {3, 5}, {2, 5}, {1, 5}, {0, 5},
	{5, 6}, {4, 6}, {3, 6}, {2, 6}, {1, 6}, {0, 6}, {1, 7}, {0, 7},
	{5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8}, {3, 9}, {2, 9},
	{1, 9}, {0, 9}, {1, 10}, {0, 10}, {3, 11}, {2, 11}, {1, 11}, {0, 11},
	{5, 12}, {4, 12}, {3, 12}, {2, 12}, {1, 12}, {0, 12}, {5, 13}, {4, 13},
	{3, 13}, {2, 13}, {1, 13}, {0, 13}, {1, 14}, {0, 14}, {5, 15}, {4, 15},
	{3, 15}, {2, 15}, {1, 15}, {0, 15}, {3, 16}, {2, 16}, {1, 16}, {0, 16},
	{1, 17}, {0, 17}, {5, 18}, {4, 18}, {3, 18}, {2, 18}, {1, 18}, {0, 18},
	{3, 19}, {2, 19}, {1, 19}, {0, 19}, {5, 20}, {4, 20}, {3, 20}, {2, 20},
	{1, 20}, {0, 20}, {7, 21}, {6, 21}, {5, 21}, {4, 21}, {3, 21}, {2, 21},
	{1, 21}, {0, 21}, {3, 22}, {2, 22}, {1, 22}, {0, 22}, {1, 23}, {0, 23},
	{3, 24}, {2, 24}, {1, 24}, {0, 24}, {1, 25}, {0, 25}, {3, 26}, {2, 26},
	{1, 26}, {0, 26}, {7, 27}, {6, 27}, {5, 27}, {4, 27}, {3, 27}, {2, 27},
	{1, 27}, {0, 27}, {5, 28}, {4, 28}, {3, 28}, {2, 28}, {1, 28}, {0, 28},
	{3, 29}, {2, 29}, {1, 29}, {0, 29}, {5, 30}, {4, 30}, {3, 30}, {2, 30},
	{1, 30}, {0, 30}, {1, 31}, {0, 31}, {3, 32}, {2, 32}, {1, 32}, {0, 32},
	{5, 33}, {4, 33}, {3, 33}, {2, 33}, {1, 33}, {0, 33}, {1, 34}, {0, 34},
	{5, 35}, {4, 35}, {3, 35}, {2, 35}, {1, 35}, {0, 35}, {5, 36}, {4, 36},
	{3, 36}, {2, 36}, {1, 36}, {0, 36}, {3, 37}, {2, 37}, {1, 37}, {0, 37},
	{1, 38}, {0, 38}, {3, 39}, {2, 39}, {1, 39}, {0, 39}, {5, 40}, {4, 40},
	{3, 40}, {2, 40}, {1, 40}, {0, 40}, {1, 41}, {0, 41}, {5, 42}, {4, 42},
	{3, 42}, {2, 42}, {1, 42}, {0, 42}, {3, 43}, {2, 43}, {1, 43}, {0, 43},
	{1, 44}, {0, 44}, {3, 45}, {2, 45}, {1, 45}, {0, 45}, {1, 46}, {0, 46},
	{9, 47}, {8, 47}, {7, 47}, {6, 47}, {5, 47}, {4, 47}, {3, 47}, {2, 47},
	{1, 47}, {0, 47},
}

// Offsets30 maps prime%30 to the base wheel-index offset (in units of the
// wheel's state-group size, 8 for the 30-wheel) for that residue class.
var Offsets30 = [30]uint32{
	0, 7, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 1,
	0, 2, 0, 0, 0, 3,
	0, 4, 0, 0, 0, 5,
	0, 0, 0, 0, 0, 6,
}

// MaxFactor30 is the largest gap between consecutive integers coprime to 30
// (1 to 7), i.e. the largest wheel stride in multiples of the prime.
const MaxFactor30 = 6

// MaxFactor210 is the largest gap between consecutive integers coprime to
// 210 (1 to 11); Big uses it to size its list array, and it matches
// getMaxStop() = maxUint64 - maxUint32*MaxFactor210 from WheelFactorization.hpp.
const MaxFactor210 = 10

// Element describes one state of the unrolled modulo-30 crossing-off state
// machine: the AND-mask that clears the current candidate's bit, the stride
// to the next multiple in units of (sievingPrime*Mult + Add), and the next
// state to transition to.
type Element struct {
	UnsetBit uint8
	Mult     uint64
	Add      uint64
	Next     uint8
}

// Wheel30 is the 64-state modulo-30 transition table shared by EratSmall and
// EratMedium, transcribed from the per-case bit patterns in
// original_source/src/EratSmall.cpp (identical in EratMedium.cpp).
var Wheel30 = [64]Element{
	// group 0: residue 7 (mod 30)
	{unsetMask(0), 6, 1, 1}, {unsetMask(4), 4, 1, 2}, {unsetMask(3), 2, 0, 3}, {unsetMask(7), 4, 1, 4},
	{unsetMask(6), 2, 1, 5}, {unsetMask(2), 4, 1, 6}, {unsetMask(1), 6, 1, 7}, {unsetMask(5), 2, 1, 0},
	// group 1: residue 11
	{unsetMask(1), 6, 2, 9}, {unsetMask(3), 4, 1, 10}, {unsetMask(7), 2, 1, 11}, {unsetMask(5), 4, 2, 12},
	{unsetMask(0), 2, 0, 13}, {unsetMask(6), 4, 2, 14}, {unsetMask(2), 6, 2, 15}, {unsetMask(4), 2, 1, 8},
	// group 2: residue 13
	{unsetMask(2), 6, 2, 17}, {unsetMask(7), 4, 2, 18}, {unsetMask(5), 2, 1, 19}, {unsetMask(4), 4, 2, 20},
	{unsetMask(1), 2, 1, 21}, {unsetMask(0), 4, 1, 22}, {unsetMask(6), 6, 3, 23}, {unsetMask(3), 2, 1, 16},
	// group 3: residue 17
	{unsetMask(3), 6, 3, 25}, {unsetMask(6), 4, 3, 26}, {unsetMask(0), 2, 1, 27}, {unsetMask(1), 4, 2, 28},
	{unsetMask(4), 2, 1, 29}, {unsetMask(5), 4, 2, 30}, {unsetMask(7), 6, 4, 31}, {unsetMask(2), 2, 1, 24},
	// group 4: residue 19
	{unsetMask(4), 6, 4, 33}, {unsetMask(2), 4, 2, 34}, {unsetMask(6), 2, 2, 35}, {unsetMask(0), 4, 2, 36},
	{unsetMask(5), 2, 1, 37}, {unsetMask(7), 4, 3, 38}, {unsetMask(3), 6, 4, 39}, {unsetMask(1), 2, 1, 32},
	// group 5: residue 23
	{unsetMask(5), 6, 5, 41}, {unsetMask(1), 4, 3, 42}, {unsetMask(2), 2, 1, 43}, {unsetMask(6), 4, 3, 44},
	{unsetMask(7), 2, 2, 45}, {unsetMask(3), 4, 3, 46}, {unsetMask(4), 6, 5, 47}, {unsetMask(0), 2, 1, 40},
	// group 6: residue 29
	{unsetMask(6), 6, 6, 49}, {unsetMask(5), 4, 4, 50}, {unsetMask(4), 2, 2, 51}, {unsetMask(3), 4, 4, 52},
	{unsetMask(2), 2, 2, 53}, {unsetMask(1), 4, 4, 54}, {unsetMask(0), 6, 5, 55}, {unsetMask(7), 2, 2, 48},
	// group 7: residue 31 (i.e. 1 mod 30 of next block)
	{unsetMask(7), 6, 1, 57}, {unsetMask(0), 4, 0, 58}, {unsetMask(1), 2, 0, 59}, {unsetMask(2), 4, 0, 60},
	{unsetMask(3), 2, 0, 61}, {unsetMask(4), 4, 0, 62}, {unsetMask(5), 6, 0, 63}, {unsetMask(6), 2, 0, 56},
}

func unsetMask(bit uint) uint8 {
	return ^(uint8(1) << bit)
}
