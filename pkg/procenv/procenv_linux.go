//go:build linux

package procenv

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/cryptolith/bedrock/internal/auxv"
)

var (
	atSecureOnce sync.Once
	atSecure     bool
)

// Prime the latch at startup, before anything can clear the dumpable
// attribute and cut off /proc/self/auxv.
func init() { secureExecution() }

// secureExecution reports the AT_SECURE flag from the auxiliary vector: the
// kernel sets it when the binary gained privilege at exec time (setuid,
// setgid, file capabilities). This catches cases the uid/gid comparison
// misses, such as a setuid program that already dropped back to the real
// uid. The flag is exec-time constant, so it is read once and latched:
// /proc/self/auxv becomes unreadable after the process clears its dumpable
// attribute, and a late read would silently report false.
func secureExecution() bool {
	atSecureOnce.Do(func() {
		atSecure = auxv.Read().Secure
	})
	return atSecure
}

// SetThreadName labels the calling thread, visible in /proc and thread-aware
// tooling. The kernel truncates names to 15 bytes.
func SetThreadName(name string) error {
	if len(name) > 15 {
		name = name[:15]
	}

	// PR_SET_NAME expects a null-terminated buffer.
	nameBytes := make([]byte, 16)
	copy(nameBytes, name)

	if err := unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&nameBytes[0])), 0, 0, 0); err != nil {
		return fmt.Errorf("procenv: prctl PR_SET_NAME failed: %w", err)
	}

	return nil
}
