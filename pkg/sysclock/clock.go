// Package sysclock exposes the clock surface a cryptographic library leans
// on: an arbitrary-epoch high-resolution tick source for timing and entropy
// gathering, a wall clock that refuses to fabricate values, the raw CPU
// cycle counter, and strftime-style rendering for human-facing output.
package sysclock

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"
)

// ErrNotImplemented reports that no real-time clock source exists on this
// target. A fabricated wall-clock value would be actively misleading for
// certificate-validity or replay checks, so this error propagates instead.
var ErrNotImplemented = errors.New("sysclock: system timestamp not implemented on this platform")

// processStart anchors the generic fallback tick source.
var processStart = time.Now()

// HighResolutionClock returns monotonic ticks from an arbitrary epoch,
// taking the best source available: the hardware cycle counter, then the
// OS monotonic clocks, then the runtime's own monotonic reading. Never
// fails; 0 means no source exists and is itself a valid result.
func HighResolutionClock() uint64 {
	if c := cycleCounter(); c != 0 {
		return c
	}
	if t := monotonicTicks(); t != 0 {
		return t
	}
	if d := time.Since(processStart); d > 0 {
		return uint64(d.Nanoseconds())
	}
	return 0
}

// SystemTimestampNS returns wall-clock nanoseconds since the Unix epoch.
// Unlike the monotonic variant this fails hard with ErrNotImplemented
// rather than inventing a value when no real-time source exists.
func SystemTimestampNS() (uint64, error) {
	if ns, ok := realtimeNanos(); ok {
		return ns, nil
	}
	if now := time.Now().UnixNano(); now > 0 {
		return uint64(now), nil
	}
	return 0, ErrNotImplemented
}

// CycleCounter reads the hardware CPU cycle counter for this process.
// Returns 0 where no counter is accessible; best effort like the monotonic
// clock, never an error.
func CycleCounter() uint64 { return cycleCounter() }

// FormatTime renders t in the local time zone according to a
// strftime-style pattern, for example "%Y-%m-%d %H:%M:%S". Pure function of
// its inputs; the only failure is a malformed pattern.
func FormatTime(t time.Time, format string) (string, error) {
	s, err := strftime.Format(format, t.Local())
	if err != nil {
		return "", fmt.Errorf("sysclock: format %q: %w", format, err)
	}
	return s, nil
}
