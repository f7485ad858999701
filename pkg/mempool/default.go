package mempool

import (
	"sync"

	"github.com/cryptolith/bedrock/pkg/scrub"
	"github.com/cryptolith/bedrock/pkg/vmem"
)

var (
	defaultOnce sync.Once
	defaultPool *Pool

	// defaultPages pins the locked pages backing the default pool. They are
	// never released: the pool lives for the life of the process.
	defaultPages []*vmem.Page
)

// Default returns the process-wide pool, built on first use from the mlock
// budget. When the budget is zero or no page can be locked the pool is
// empty, every Get misses, and Alloc serves plain heap memory.
func Default() *Pool {
	defaultOnce.Do(func() {
		count := 0
		if budget := vmem.LockingLimit(); budget > 0 {
			count = budget / vmem.PageSize()
		}
		defaultPages = vmem.AllocateLockedPages(count)
		raw := make([][]byte, 0, len(defaultPages))
		for _, pg := range defaultPages {
			raw = append(raw, pg.Bytes())
		}
		defaultPool = NewPool(raw, DefaultConfig())
	})
	return defaultPool
}

// Alloc returns an n-byte buffer for secret material, preferring locked
// slots from the default pool. The heap fallback is indistinguishable to
// the caller apart from not being locked.
func Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	if buf := Default().Get(n); buf != nil {
		return buf
	}
	return make([]byte, n)
}

// Free scrubs buf and returns its slot when it came from the default pool.
// Heap fallback buffers are scrubbed in place and left to the garbage
// collector. Free of a nil or empty buffer is a no-op.
func Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	if Default().Put(buf) {
		return
	}
	scrub.Bytes(buf)
}
