package cpuprobe

import "runtime/debug"

// ProbeFaulted is the result of a probe body that faulted or panicked
// instead of completing.
const ProbeFaulted = -1

// RunInstructionProbe executes probe on the calling goroutine inside a
// fault trap. If the body completes, its return value passes through
// unchanged, negative values included; they belong to the probe. If the
// body triggers a hardware memory fault (SIGSEGV, SIGBUS) or panics, the
// trap converts it to ProbeFaulted.
//
// Contract: call only during single-threaded initialization and keep the
// probe body minimal, with no allocation and no goroutines. The trap covers
// the calling goroutine only, and illegal-instruction signals are fatal to
// the runtime and cannot be trapped here: a probe tests instruction support
// through faultable reads (capability-gated pages, device interfaces), and
// raw instruction bits come from ReadHWCap instead.
func RunInstructionProbe(probe func() int) (result int) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if r := recover(); r != nil {
			result = ProbeFaulted
		}
	}()
	return probe()
}
