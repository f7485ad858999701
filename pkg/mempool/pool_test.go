package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPageSize = 4096

func testPages(n int) [][]byte {
	pages := make([][]byte, n)
	for i := range pages {
		pages[i] = make([]byte, testPageSize)
	}
	return pages
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestPoolGetSizing(t *testing.T) {
	p := NewPool(testPages(4), DefaultConfig())

	cases := []struct {
		n, class int
	}{
		{1, 16},
		{16, 16},
		{17, 32},
		{100, 128},
		{4000, 4096},
		{4096, 4096},
	}
	for _, tc := range cases {
		buf := p.Get(tc.n)
		require.NotNil(t, buf, "Get(%d)", tc.n)
		if len(buf) != tc.n {
			t.Errorf("Get(%d) len = %d, want %d", tc.n, len(buf), tc.n)
		}
		if cap(buf) != tc.class {
			t.Errorf("Get(%d) cap = %d, want class %d", tc.n, cap(buf), tc.class)
		}
		p.Put(buf)
	}
}

func TestPoolGetOutOfRange(t *testing.T) {
	p := NewPool(testPages(1), DefaultConfig())

	for _, n := range []int{0, -1, testPageSize + 1, 1 << 20} {
		if buf := p.Get(n); buf != nil {
			t.Errorf("Get(%d) = %d bytes, want nil", n, len(buf))
		}
	}
}

func TestPoolPutRejectsForeignBuffers(t *testing.T) {
	p := NewPool(testPages(1), DefaultConfig())

	t.Run("heap buffer", func(t *testing.T) {
		if p.Put(make([]byte, 32)) {
			t.Error("Put accepted a buffer the pool never handed out")
		}
	})

	t.Run("misaligned slice", func(t *testing.T) {
		buf := p.Get(32)
		require.NotNil(t, buf)
		if p.Put(buf[1:]) {
			t.Error("Put accepted a slice not starting on a slot boundary")
		}
		if !p.Put(buf) {
			t.Error("Put rejected the original buffer")
		}
	})

	t.Run("double free", func(t *testing.T) {
		buf := p.Get(32)
		require.NotNil(t, buf)
		if !p.Put(buf) {
			t.Fatal("first Put failed")
		}
		if p.Put(buf) {
			t.Error("second Put of the same buffer succeeded")
		}
	})

	t.Run("nil and empty", func(t *testing.T) {
		if p.Put(nil) {
			t.Error("Put(nil) succeeded")
		}
		if p.Put([]byte{}) {
			t.Error("Put of empty slice succeeded")
		}
	})
}

func TestPoolExhaustion(t *testing.T) {
	p := NewPool(testPages(1), DefaultConfig())

	// One page of 64-byte slots.
	want := testPageSize / 64
	bufs := make([][]byte, 0, want)
	for {
		buf := p.Get(64)
		if buf == nil {
			break
		}
		bufs = append(bufs, buf)
	}
	if len(bufs) != want {
		t.Fatalf("got %d slots from one page, want %d", len(bufs), want)
	}

	// A different class cannot be served either: the only page is taken.
	if buf := p.Get(16); buf != nil {
		t.Error("Get(16) succeeded with every page dedicated and full")
	}

	// Returning one slot makes exactly one more Get succeed.
	require.True(t, p.Put(bufs[0]))
	if buf := p.Get(64); buf == nil {
		t.Error("Get(64) failed right after a slot was returned")
	}
}

func TestPoolPageRecycling(t *testing.T) {
	p := NewPool(testPages(1), DefaultConfig())

	big := p.Get(4096)
	require.NotNil(t, big)
	require.True(t, p.Put(big))

	// The page went back to the blank list and can serve a new class.
	small := p.Get(16)
	if small == nil {
		t.Fatal("Get(16) failed after the page's only slot was returned")
	}

	s := p.Stats()
	if s.Pages != 1 || s.BlankPages != 0 {
		t.Errorf("Stats = %+v, want 1 page, 0 blank", s)
	}
}

func TestPoolZeroOnRelease(t *testing.T) {
	p := NewPool(testPages(1), DefaultConfig())

	buf := p.Get(48)
	require.NotNil(t, buf)
	for i := range buf {
		buf[i] = 0xA5
	}
	require.True(t, p.Put(buf))

	again := p.Get(48)
	require.NotNil(t, again)
	if !allZero(again) {
		t.Error("slot still holds previous contents after Put")
	}
}

func TestPoolStats(t *testing.T) {
	p := NewPool(testPages(2), DefaultConfig())

	s := p.Stats()
	if s.Pages != 2 || s.BlankPages != 2 || s.SlotsInUse != 0 || s.BytesInUse != 0 {
		t.Fatalf("fresh pool Stats = %+v", s)
	}

	a := p.Get(100) // class 128
	b := p.Get(16)
	require.NotNil(t, a)
	require.NotNil(t, b)

	s = p.Stats()
	if s.Pages != 2 {
		t.Errorf("Pages = %d, want 2", s.Pages)
	}
	if s.BlankPages != 0 {
		t.Errorf("BlankPages = %d, want 0", s.BlankPages)
	}
	if s.SlotsInUse != 2 {
		t.Errorf("SlotsInUse = %d, want 2", s.SlotsInUse)
	}
	if want := 128 + 16; s.BytesInUse != want {
		t.Errorf("BytesInUse = %d, want %d", s.BytesInUse, want)
	}

	p.Put(a)
	p.Put(b)
	s = p.Stats()
	if s.SlotsInUse != 0 || s.BytesInUse != 0 {
		t.Errorf("Stats after returning everything = %+v", s)
	}
}

func TestPoolDropsEmptyPages(t *testing.T) {
	p := NewPool([][]byte{nil, {}}, DefaultConfig())
	if s := p.Stats(); s.Pages != 0 {
		t.Errorf("Pages = %d, want 0", s.Pages)
	}
	if buf := p.Get(16); buf != nil {
		t.Error("Get succeeded on a pool with no usable pages")
	}
}

func TestPoolConcurrentAccess(t *testing.T) {
	p := NewPool(testPages(8), DefaultConfig())

	var wg sync.WaitGroup
	sizes := []int{16, 33, 64, 200, 512}
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				buf := p.Get(sizes[(g+i)%len(sizes)])
				if buf == nil {
					continue // pool momentarily exhausted
				}
				for j := range buf {
					buf[j] = byte(g)
				}
				if !p.Put(buf) {
					t.Errorf("Put rejected a buffer from Get")
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if s := p.Stats(); s.SlotsInUse != 0 {
		t.Errorf("SlotsInUse = %d after all goroutines returned their buffers", s.SlotsInUse)
	}
}

func TestAllocFree(t *testing.T) {
	buf := Alloc(33)
	require.NotNil(t, buf)
	if len(buf) != 33 {
		t.Fatalf("Alloc(33) len = %d", len(buf))
	}
	for i := range buf {
		buf[i] = 0xFF
	}

	// Whether buf came from the pool or the heap, Free scrubs it in place.
	Free(buf)
	if !allZero(buf) {
		t.Error("buffer still holds contents after Free")
	}
}

func TestAllocOversize(t *testing.T) {
	// Far above the largest class: always a heap fallback.
	buf := Alloc(1 << 20)
	require.NotNil(t, buf)
	if len(buf) != 1<<20 {
		t.Fatalf("Alloc len = %d", len(buf))
	}
	buf[0] = 1
	Free(buf)
	if buf[0] != 0 {
		t.Error("oversize buffer not scrubbed by Free")
	}
}

func TestAllocZero(t *testing.T) {
	if buf := Alloc(0); buf != nil {
		t.Error("Alloc(0) returned a buffer")
	}
	Free(nil) // must not panic
}
