package cpuprobe

import (
	"runtime"
	"testing"
)

func TestRunInstructionProbe(t *testing.T) {
	t.Run("return value passes through", func(t *testing.T) {
		if got := RunInstructionProbe(func() int { return 42 }); got != 42 {
			t.Errorf("probe result = %d, want 42", got)
		}
	})

	t.Run("zero passes through", func(t *testing.T) {
		if got := RunInstructionProbe(func() int { return 0 }); got != 0 {
			t.Errorf("probe result = %d, want 0", got)
		}
	})

	t.Run("probe-owned negative values pass through", func(t *testing.T) {
		if got := RunInstructionProbe(func() int { return -7 }); got != -7 {
			t.Errorf("probe result = %d, want -7", got)
		}
	})

	t.Run("panicking body reports ProbeFaulted", func(t *testing.T) {
		got := RunInstructionProbe(func() int {
			var p *int
			return *p // nil dereference faults inside the trap
		})
		if got != ProbeFaulted {
			t.Errorf("probe result = %d, want %d", got, ProbeFaulted)
		}
	})

	t.Run("trap state is restored after the probe", func(t *testing.T) {
		RunInstructionProbe(func() int { return 1 })
		// A panic after the probe must be an ordinary recoverable panic,
		// not influenced by leftover fault-trap state.
		defer func() {
			if recover() == nil {
				t.Error("expected ordinary panic to propagate")
			}
		}()
		panic("ordinary panic")
	})
}

func TestReadHWCap(t *testing.T) {
	caps, ok := ReadHWCap()
	if runtime.GOOS != "linux" {
		if ok {
			t.Errorf("ReadHWCap on %s reported present", runtime.GOOS)
		}
		return
	}
	if !ok {
		t.Skip("auxiliary vector not readable in this environment")
	}
	_ = caps.HWCap
	_ = caps.HWCap2
}

func TestAvailableCPUs(t *testing.T) {
	n := AvailableCPUs()
	if n < 1 {
		t.Errorf("AvailableCPUs() = %d, want >= 1", n)
	}
	if limit := runtime.NumCPU() * 8; n > limit {
		t.Errorf("AvailableCPUs() = %d, implausibly large (NumCPU=%d)", n, runtime.NumCPU())
	}
}
