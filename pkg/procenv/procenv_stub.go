//go:build !linux

package procenv

// secureExecution reports false: there is no secure-execution flag here, so
// privilege detection rests on the uid/gid comparison alone.
func secureExecution() bool { return false }

// SetThreadName is a no-op on platforms without thread naming.
func SetThreadName(name string) error { return nil }
