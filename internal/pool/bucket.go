package pool

// BucketSize is the number of SievingPrime records per bucket. It must stay
// a power of two; 1024 matches primesieve's config::BUCKETSIZE tuning.
const BucketSize = 1024

// Bucket is a fixed-capacity node of a singly linked list of SievingPrimes,
// allocated only via MemoryPool.
type Bucket struct {
	primes [BucketSize]SievingPrime
	cursor int
	next   *Bucket
}

// Begin returns the slice of currently stored sieving primes.
func (b *Bucket) Begin() []SievingPrime { return b.primes[:b.cursor] }

// Next returns the next bucket in the list, or nil.
func (b *Bucket) Next() *Bucket { return b.next }

// HasNext reports whether this bucket has a successor.
func (b *Bucket) HasNext() bool { return b.next != nil }

// Empty reports whether the bucket holds no sieving primes.
func (b *Bucket) Empty() bool { return b.cursor == 0 }

// Full reports whether the bucket has no remaining capacity.
func (b *Bucket) Full() bool { return b.cursor == BucketSize }

// Reset clears the write cursor, discarding stored primes without
// releasing the backing array.
func (b *Bucket) Reset() { b.cursor = 0 }

// SetNext chains this bucket to next.
func (b *Bucket) SetNext(next *Bucket) { b.next = next }

// Store appends a sieving prime. It returns false if the bucket is now
// full (the caller must obtain a fresh bucket before the next Store).
func (b *Bucket) Store(sievingPrime, multipleIndex, wheelIndex uint64) bool {
	b.primes[b.cursor].Set(sievingPrime, multipleIndex, wheelIndex)
	b.cursor++
	return b.cursor != BucketSize
}
