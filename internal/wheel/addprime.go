package wheel

// NextMultiple computes, for a sieving prime and the start of a segment
// (segmentLow, a multiple of 30), the byte offset (multipleIndex) and wheel
// state (wheelIndex) of the prime's first multiple that is coprime to the
// wheel's base primes and lies within [segmentLow, stop].
//
// modulo/maxFactor/init/offsets select the 30-wheel or 210-wheel variant.
// ok is false when the prime has no multiple in range (it is not needed for
// sieving this session), grounded on Wheel<MODULO,...>::addSievingPrime in
// original_source/src/Wheel.hpp.
func NextMultiple(prime, segmentLow, stop uint64, modulo uint64, init []Init, offsets []uint32, groupSize uint32) (multipleIndex, wheelIndex uint64, ok bool) {
	// The 8 bits of each byte correspond to offsets {7,11,...,31}, so the
	// first representable candidate in a segment is segmentLow+7; we are
	// looking for multiples strictly greater than segmentLow+6.
	low := segmentLow + 6

	quotient := low/prime + 1
	if quotient < prime {
		quotient = prime
	}
	multiple := prime * quotient
	if multiple > stop || multiple < low {
		return 0, 0, false
	}

	idx := init[quotient%modulo]
	nextMultiple := prime * uint64(idx.NextMultipleFactor)
	if nextMultiple > stop-multiple {
		return 0, 0, false
	}
	multiple += nextMultiple

	multipleIndex = (multiple - low) / 30
	wheelIndex = uint64(offsets[prime%30])*uint64(groupSize) + uint64(idx.WheelIndex)
	return multipleIndex, wheelIndex, true
}

// NextMultiple30 is NextMultiple specialized for the 30-wheel, as used by
// EratSmall and EratMedium. groupSize is 8 (one state group per residue).
func NextMultiple30(prime, segmentLow, stop uint64) (multipleIndex, wheelIndex uint64, ok bool) {
	return NextMultiple(prime, segmentLow, stop, 30, Init30[:], Offsets30[:], 8)
}
