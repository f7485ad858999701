//go:build linux

package sysclock

import (
	"encoding/binary"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Monotonic clock sources, best first. CLOCK_MONOTONIC_RAW is immune to NTP
// slewing; the cputime clocks are last-resort sources that still satisfy
// the non-decreasing contract.
var monotonicClocks = []int32{
	unix.CLOCK_MONOTONIC_RAW,
	unix.CLOCK_MONOTONIC,
	unix.CLOCK_PROCESS_CPUTIME_ID,
	unix.CLOCK_THREAD_CPUTIME_ID,
}

func monotonicTicks() uint64 {
	var ts unix.Timespec
	for _, id := range monotonicClocks {
		if err := unix.ClockGettime(id, &ts); err == nil {
			return uint64(ts.Sec)*1e9 + uint64(ts.Nsec)
		}
	}
	return 0
}

func realtimeNanos() (uint64, bool) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return 0, false
	}
	return uint64(ts.Sec)*1e9 + uint64(ts.Nsec), true
}

// cycleFD is the perf descriptor counting this process's CPU cycles,
// opened once on first use. -1 means the counter is unavailable
// (perf_event_paranoid restrictions, missing PMU) and reads degrade to 0.
var (
	cycleOnce sync.Once
	cycleFD   = -1
)

func cycleCounter() uint64 {
	cycleOnce.Do(openCycleCounter)
	if cycleFD < 0 {
		return 0
	}
	var buf [8]byte
	n, err := unix.Read(cycleFD, buf[:])
	if err != nil || n != 8 {
		return 0
	}
	return binary.NativeEndian.Uint64(buf[:])
}

func openCycleCounter() {
	attr := unix.PerfEventAttr{
		Type:   unix.PERF_TYPE_HARDWARE,
		Size:   uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
		Config: unix.PERF_COUNT_HW_CPU_CYCLES,
		// User-space cycles only: counting kernel time needs more privilege
		// than perf_event_paranoid allows unprivileged processes.
		Bits: unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
	}
	fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
	if err != nil {
		return
	}
	cycleFD = fd
}
