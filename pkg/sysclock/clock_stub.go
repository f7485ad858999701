//go:build !linux

package sysclock

// Non-Linux builds fall through to the generic sources in clock.go: the
// runtime monotonic reading for ticks and the runtime wall clock for
// timestamps.

func monotonicTicks() uint64 { return 0 }

func realtimeNanos() (uint64, bool) { return 0, false }

func cycleCounter() uint64 { return 0 }
