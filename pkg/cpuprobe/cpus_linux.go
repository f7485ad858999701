//go:build linux

package cpuprobe

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// AvailableCPUs returns the number of CPUs this process may run on, from
// the current affinity mask. Best effort and never zero: if the mask cannot
// be read the runtime's startup count stands in.
func AvailableCPUs() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		if n := set.Count(); n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}
