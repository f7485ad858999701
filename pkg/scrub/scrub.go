// Package scrub zeroizes buffers that held secret material. The write is
// performed by a non-inlinable function with a liveness barrier so the
// compiler cannot prove the buffer dead and elide the stores.
package scrub

import "runtime"

// Bytes overwrites every byte of b with zero. Safe on nil and empty slices.
// Callers scrub a buffer when the secret it held is no longer needed, before
// the slice is released to the allocator or the garbage collector.
//
//go:noinline
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// Keep b reachable until the zeroing stores have executed.
	runtime.KeepAlive(b)
}

// There is intentionally no variant for strings: Go strings are immutable
// and cannot be wiped in place. Secret material belongs in []byte.
