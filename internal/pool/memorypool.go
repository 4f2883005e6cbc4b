package pool

import "unsafe"

// maxBulkBytes bounds how much memory a single refill may allocate, mirroring
// MemoryPool.cpp's informal "refills never exceed a few MiB" budget.
const maxBulkBytes = 16 << 20

// minFirstRefill guarantees EratMedium's 64 wheel-index lists can each get
// an initial bucket from a single allocation (see Erat.md / spec.md §4.3).
const minFirstRefill = 128

// MemoryPool is a bulk allocator of fixed-size Buckets. It owns all bucket
// storage; callers only ever see borrowed *Bucket pointers, never free them
// directly.
type MemoryPool struct {
	stock *Bucket
	count int
	arena [][]Bucket
}

// AddBucket pushes a fresh, empty bucket to the front of list, refilling the
// free-list stock in bulk first if it is empty.
func (m *MemoryPool) AddBucket(list **Bucket) {
	if m.stock == nil {
		m.allocate()
	}
	b := m.stock
	m.stock = b.next
	b.Reset()
	b.next = *list
	*list = b
}

// FreeBucket returns a bucket to the stock for reuse.
func (m *MemoryPool) FreeBucket(b *Bucket) {
	b.Reset()
	b.next = m.stock
	m.stock = b
}

func (m *MemoryPool) nextCount() int {
	if m.count == 0 {
		return minFirstRefill
	}
	n := m.count + m.count/8
	maxCount := maxBulkBytes / int(unsafe.Sizeof(Bucket{}))
	if n > maxCount {
		n = maxCount
	}
	if n < minFirstRefill {
		n = minFirstRefill
	}
	return n
}

// allocate bulk-allocates a new slab of buckets and threads them into stock.
func (m *MemoryPool) allocate() {
	m.count = m.nextCount()
	slab := make([]Bucket, m.count)
	m.arena = append(m.arena, slab)
	for i := range slab {
		slab[i].next = m.stock
		m.stock = &slab[i]
	}
}
