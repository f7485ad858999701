// Package cpuprobe answers "can this hardware do X" two ways: by reading
// the kernel-provided capability words from the auxiliary vector, and by
// running a caller-supplied micro-probe inside a fault trap so an
// unsupported operation reports failure instead of killing the process.
// Probing is an initialization-time, single-threaded activity by contract.
package cpuprobe
