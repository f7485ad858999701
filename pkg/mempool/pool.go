// Package mempool serves small secret-bearing buffers out of a fixed set of
// locked pages. Each page is dedicated on demand to one size class and
// carved into slots tracked by a bitmap; slots are scrubbed when they come
// back and pages return to the blank list once empty. The pool never grows:
// when no slot fits, callers fall back to ordinary heap memory and accept
// that it is not locked.
package mempool

import (
	"math/bits"
	"sync"
	"unsafe"

	"github.com/cryptolith/bedrock/pkg/scrub"
)

// bucketSizes are the slot sizes the pool serves, smallest first. Requests
// above the largest class always miss.
var bucketSizes = []int{16, 32, 48, 64, 96, 128, 192, 256, 384, 512, 768, 1024, 1536, 2048, 4096}

// Config tunes pool behavior.
type Config struct {
	// ZeroOnRelease scrubs a slot as it returns to the pool, so secrets do
	// not linger between allocations.
	ZeroOnRelease bool
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{ZeroOnRelease: true}
}

// bucket is one page dedicated to a single size class.
type bucket struct {
	class int
	page  []byte
	used  []uint64 // one bit per slot; tail bits past the last slot stay set
	free  int
	slots int
}

// Pool is a mutex-guarded size-class allocator over caller-provided pages.
// It is shared by every allocation site in a process, so all methods are
// safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	cfg     Config
	buckets []*bucket
	blank   [][]byte
}

// NewPool takes ownership of pages, normally the Bytes of locked pages.
// Pages shorter than a size class simply never serve that class; empty
// entries are dropped.
func NewPool(pages [][]byte, cfg Config) *Pool {
	p := &Pool{cfg: cfg}
	for _, page := range pages {
		if len(page) > 0 {
			p.blank = append(p.blank, page)
		}
	}
	return p
}

// Get returns a buffer of length n with capacity rounded to the size class,
// or nil when n is out of range or no slot is free. A nil return is the
// pool's only failure mode; callers treat it as "use the heap".
func (p *Pool) Get(n int) []byte {
	if n <= 0 {
		return nil
	}
	class, ok := classFor(n)
	if !ok {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, b := range p.buckets {
		if b.class == class && b.free > 0 {
			return b.take(n)
		}
	}

	// Dedicate a blank page to this class.
	for len(p.blank) > 0 {
		page := p.blank[len(p.blank)-1]
		p.blank = p.blank[:len(p.blank)-1]
		b := newBucket(page, class)
		if b == nil {
			// Page too small for this class; it cannot serve any larger
			// one either, so drop it back and give up.
			p.blank = append(p.blank, page)
			return nil
		}
		p.buckets = append(p.buckets, b)
		return b.take(n)
	}

	return nil
}

// Put returns a buffer obtained from Get. It reports false for buffers the
// pool does not own, misaligned slices, and double frees, leaving the pool
// state untouched in every such case.
func (p *Pool) Put(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ptr := uintptr(unsafe.Pointer(&buf[0]))
	for i, b := range p.buckets {
		start := uintptr(unsafe.Pointer(&b.page[0]))
		if ptr < start || ptr >= start+uintptr(len(b.page)) {
			continue
		}

		off := int(ptr - start)
		if off%b.class != 0 || len(buf) > b.class {
			return false
		}
		idx := off / b.class
		word, bit := idx/64, uint(idx%64)
		if b.used[word]&(1<<bit) == 0 {
			return false // slot already free
		}

		if p.cfg.ZeroOnRelease {
			scrub.Bytes(b.page[off : off+b.class])
		}
		b.used[word] &^= 1 << bit
		b.free++

		// An empty bucket hands its page back for reuse by any class.
		if b.free == b.slots {
			p.buckets = append(p.buckets[:i], p.buckets[i+1:]...)
			p.blank = append(p.blank, b.page)
		}
		return true
	}

	return false
}

// Stats describes current pool occupancy.
type Stats struct {
	Pages      int // pages under pool management
	BlankPages int // pages not dedicated to a class
	SlotsInUse int
	BytesInUse int
}

// Stats returns a snapshot of pool occupancy.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		Pages:      len(p.buckets) + len(p.blank),
		BlankPages: len(p.blank),
	}
	for _, b := range p.buckets {
		inUse := b.slots - b.free
		s.SlotsInUse += inUse
		s.BytesInUse += inUse * b.class
	}
	return s
}

// classFor returns the smallest size class that fits n.
func classFor(n int) (int, bool) {
	for _, c := range bucketSizes {
		if n <= c {
			return c, true
		}
	}
	return 0, false
}

// newBucket dedicates page to class, or returns nil when the page cannot
// hold even one slot.
func newBucket(page []byte, class int) *bucket {
	slots := len(page) / class
	if slots == 0 {
		return nil
	}
	words := (slots + 63) / 64
	used := make([]uint64, words)
	// Mark the tail bits past the last slot as permanently taken so the
	// scan below never hands them out.
	for idx := slots; idx < words*64; idx++ {
		used[idx/64] |= 1 << uint(idx%64)
	}
	return &bucket{class: class, page: page, used: used, free: slots, slots: slots}
}

// take claims the first free slot. Callers hold the pool lock and have
// checked free > 0.
func (b *bucket) take(n int) []byte {
	for w, word := range b.used {
		inv := ^word
		if inv == 0 {
			continue
		}
		bit := bits.TrailingZeros64(inv)
		idx := w*64 + bit
		b.used[w] |= 1 << uint(bit)
		b.free--
		off := idx * b.class
		return b.page[off : off+n : off+b.class]
	}
	return nil
}
