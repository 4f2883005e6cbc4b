package wheel

// bigWheelPrimes are the primes EratBig's multiples must stay coprime to
// (2, 3, 5, 7 -- the 210-wheel's base).
var bigWheelPrimes = [4]uint64{2, 3, 5, 7}

// NextCoprimeMultiple returns the smallest multiple of prime that is
// strictly greater than after, at most stop, and coprime to 2, 3, 5 and 7.
// ok is false if no such multiple exists within [after+1, stop].
//
// EratBig's primes have few hits per segment, so unlike EratSmall/
// EratMedium (which reuse the precomputed Wheel30 state-transition table for
// their many-hits-per-segment hot loop) it is cheap to recompute the next
// multiple directly instead of threading a 210-wheel WheelElement jump
// table: the source declares such a table (`extern const WheelElement
// wheel210[48*8]`, original_source/include/primesieve/WheelFactorization.hpp)
// but its defining values are not present anywhere in the retrieved sources,
// only the legacy header's forward declaration. Recomputing arithmetically
// here is a deliberate, documented simplification (see DESIGN.md) — it
// preserves exact wheel-factorization semantics (only coprime-to-210
// multiples are ever produced) while avoiding an unverifiable transcription.
func NextCoprimeMultiple(prime, after, stop uint64) (multiple uint64, ok bool) {
	quotient := after/prime + 1
	if quotient < prime {
		quotient = prime
	}
	m := prime * quotient
	for {
		if m > stop {
			return 0, false
		}
		if m > after && isCoprime(m) {
			return m, true
		}
		m += prime
	}
}

func isCoprime(m uint64) bool {
	for _, p := range bigWheelPrimes {
		if m%p == 0 {
			return false
		}
	}
	return true
}
