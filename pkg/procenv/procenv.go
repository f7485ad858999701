// Package procenv reads process identity and environment configuration with
// the privilege rules a security library needs: a process that appears to be
// running under an elevated-privilege transition (setuid/setgid execution,
// secure-execution mode) must not trust ambient environment variables, so
// every lookup there reports "not found", indistinguishable from a variable
// that was never set.
package procenv

import (
	"os"
	"strconv"
)

// privileged is re-evaluated on every environment read; overridable so
// tests can simulate the elevated state.
var privileged = runningPrivileged

// RunningPrivileged reports whether the process appears to run with
// elevated rights relative to its invoking user: real and effective user or
// group IDs differ, or the kernel flagged secure execution at exec time.
// Platforms without these concepts always report false.
func RunningPrivileged() bool { return privileged() }

func runningPrivileged() bool {
	if os.Getuid() != os.Geteuid() || os.Getgid() != os.Getegid() {
		return true
	}
	return secureExecution()
}

// ReadVariable looks up an environment variable by exact name. In a
// privileged process it reports ("", false) without inspecting the
// environment at all. Privilege is re-checked on every call.
func ReadVariable(name string) (string, bool) {
	if privileged() {
		return "", false
	}
	return os.LookupEnv(name)
}

// ReadVariableSize reads a non-negative integer environment variable.
// Missing, malformed, or negative values yield def, as does any lookup in a
// privileged process.
func ReadVariableSize(name string, def int) int {
	v, ok := ReadVariable(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// ProcessID returns the current process ID. The value 0 is reserved for
// targets with no process concept and must be treated as "unknown", never
// as a real PID.
func ProcessID() uint32 {
	return uint32(os.Getpid())
}
