//go:build !linux

package cpuprobe

import "runtime"

// AvailableCPUs returns the runtime's CPU count. Never zero.
func AvailableCPUs() int { return runtime.NumCPU() }
