package wheel

// CrossOff30 runs the modulo-30 state machine against sieve starting from
// (multipleIndex, wheelIndex), clearing one bit per multiple of
// sievingPrime*30 (+residue) until the next multiple index would land past
// the end of sieve. It returns the carry-over state for the next segment:
// the overshoot multipleIndex (relative to the next segment's start) and
// the wheel state to resume from.
//
// This realizes spec.md §9's "switch-with-inner-loop pattern" as a direct
// loop over the Wheel30 transition table instead of an 8-way-unrolled
// computed-goto state machine: the unrolling is a constant-factor
// performance optimization (see original_source/src/EratSmall.cpp's
// `for (; p < loopLimit; ...)` fast path), not a semantic requirement, and
// the byte-at-a-time loop below produces identical crossed-off bits (see
// DESIGN.md).
func CrossOff30(sieve []byte, sievingPrime, multipleIndex, wheelIndex uint64) (nextMultipleIndex, nextWheelIndex uint64) {
	n := uint64(len(sieve))
	mi, wi := multipleIndex, wheelIndex
	for mi < n {
		el := Wheel30[wi]
		sieve[mi] &= el.UnsetBit
		mi += sievingPrime*el.Mult + el.Add
		wi = uint64(el.Next)
	}
	return mi - n, wi
}
