// Package presieve precomputes byte patterns with multiples of small primes
// already crossed off, so Erat doesn't need to run EratSmall for the very
// smallest sieving primes on every segment.
//
// Grounded on spec.md §4.2 and original_source/src/Erat.cpp's preSieve()
// (which masks sieve_[0] after calling into PreSieve). The buffer contents
// here are generated at construction time rather than transcribed as a
// literal table: each buffer clears exactly the bits that are multiples of
// its assigned primes, which is how original_source/src/PreSieveTables
// derives them in the first place, and generating them keeps the
// partitioning in spec.md's table authoritative instead of duplicating a
// large literal array (see DESIGN.md).
package presieve

// MaxPrime is the largest prime cleared by any buffer; Erat only needs
// EratSmall/Medium/Big for sieving primes larger than this.
const MaxPrime = 163

// group partitions primes by the buffers in spec.md §4.2.
var groups = [][]int{
	{7, 23, 37},
	{11, 19, 31},
	{13, 17, 29},
	{41, 163},
	{43, 157},
	{47, 151},
	{53, 149},
	{59, 139},
	{61, 137},
	{67, 131},
	{71, 127},
	{73, 113},
	{79, 109},
	{83, 107},
	{89, 103},
	{97, 101},
}

// buffer is one precomputed byte pattern; len(bytes) is the LCM (in units
// of 30) of the primes it clears, so the pattern repeats exactly every
// len(bytes) bytes.
type buffer struct {
	bytes []byte
}

// PreSieve holds all buffers and combines them into a segment's sieve.
type PreSieve struct {
	buffers []buffer
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}

// New builds the full set of pre-sieve buffers.
func New() *PreSieve {
	p := &PreSieve{buffers: make([]buffer, len(groups))}
	for gi, primes := range groups {
		length := 1
		for _, pr := range primes {
			length = lcm(length, pr)
		}
		buf := make([]byte, length)
		for i := range buf {
			buf[i] = 0xff
		}
		for _, pr := range primes {
			clearMultiples(buf, pr)
		}
		p.buffers[gi] = buffer{bytes: buf}
	}
	return p
}

// clearMultiples clears, within one cycle of buf, every bit representing a
// multiple of pr. Because the pattern repeats, this includes the bit at
// pr's own position (pr + k*cycle is a multiple of pr for every k >= 1);
// Apply sets the bits of the buffered primes again for the segment that
// holds them.
func clearMultiples(buf []byte, pr int) {
	cycleLen := len(buf) * 30
	for m := pr * pr; m < cycleLen+pr*pr; m += pr {
		v := m % cycleLen
		byteIdx := v / 30
		res := v % 30
		if res == 1 {
			// 30*k + 1 is bit 31 of the previous byte.
			byteIdx = (byteIdx + len(buf) - 1) % len(buf)
		}
		bit := residueBit(res)
		if bit >= 0 {
			buf[byteIdx] &^= 1 << uint(bit)
		}
	}
}

var residues = [8]int{7, 11, 13, 17, 19, 23, 29, 31}

func residueBit(res int) int {
	if res == 1 {
		res = 31
	}
	for i, r := range residues {
		if r == res {
			return i
		}
	}
	return -1
}

// Apply overlays the combined pre-sieve pattern onto sieve (which must
// already be sized for the active segment), starting the pattern at the
// phase implied by segmentLow (a multiple of 30). The first buffer
// initializes the sieve; later buffers are ANDed in.
func (p *PreSieve) Apply(sieve []byte, segmentLow uint64) {
	blockIndex := segmentLow / 30
	for gi := range p.buffers {
		buf := p.buffers[gi].bytes
		n := len(buf)
		offset := int(blockIndex % uint64(n))
		if gi == 0 {
			copyWrapped(sieve, buf, offset)
		} else {
			andWrapped(sieve, buf, offset)
		}
	}

	// The buffers also clear the primes they sieve with; set those bits
	// again where the primes fall inside this segment.
	if segmentLow <= MaxPrime {
		for _, primes := range groups {
			for _, pr := range primes {
				if uint64(pr) < segmentLow+7 {
					continue
				}
				d := uint64(pr) - segmentLow - 7
				if i := d / 30; i < uint64(len(sieve)) {
					sieve[i] |= 1 << uint(residueBit(int(d%30)+7))
				}
			}
		}
	}
}

func copyWrapped(dst, src []byte, offset int) {
	n := len(src)
	for i := range dst {
		dst[i] = src[(offset+i)%n]
	}
}

func andWrapped(dst, src []byte, offset int) {
	n := len(src)
	for i := range dst {
		dst[i] &= src[(offset+i)%n]
	}
}
