// Package auxv reads the ELF auxiliary vector the kernel hands a process at
// exec time. The vector is the authoritative source for the hardware
// capability words (AT_HWCAP, AT_HWCAP2) and the secure-execution flag
// (AT_SECURE) that the capability and environment layers consume.
package auxv

import (
	"encoding/binary"
	"os"
	"unsafe"
)

// Entry types from the Linux ABI (include/uapi/linux/auxvec.h).
const (
	atNull   = 0
	atHWCap  = 16
	atSecure = 23
	atHWCap2 = 26
)

// Auxiliary vector entries are (type, value) pairs of target-pointer-size
// words in native byte order.
const wordBytes = int(unsafe.Sizeof(uintptr(0)))

// Values holds the auxiliary vector entries this library consumes. The
// Found* fields report whether the corresponding entry was present; a zero
// value with Found*=false means the interface did not supply it.
type Values struct {
	HWCap  uint64
	HWCap2 uint64
	Secure bool

	FoundHWCap  bool
	FoundHWCap2 bool
	FoundSecure bool
}

// Read parses /proc/self/auxv. A missing or unreadable file (non-Linux
// builds, restrictive procfs mounts) yields the zero Values, which callers
// treat as "interface absent" rather than an error.
func Read() Values {
	raw, err := os.ReadFile("/proc/self/auxv")
	if err != nil {
		return Values{}
	}
	return Parse(raw)
}

// Parse decodes a raw auxiliary vector and picks out the entries in Values.
// The vector terminates at an AT_NULL entry; truncated input is tolerated
// and every complete pair before the truncation point is honored.
func Parse(raw []byte) Values {
	var v Values
	for off := 0; off+2*wordBytes <= len(raw); off += 2 * wordBytes {
		typ := readWord(raw[off:])
		val := readWord(raw[off+wordBytes:])
		switch typ {
		case atNull:
			return v
		case atHWCap:
			v.HWCap = val
			v.FoundHWCap = true
		case atHWCap2:
			v.HWCap2 = val
			v.FoundHWCap2 = true
		case atSecure:
			v.Secure = val != 0
			v.FoundSecure = true
		}
	}
	return v
}

// readWord decodes one native-endian pointer-size word. b has at least
// wordBytes bytes; callers guarantee the bound.
func readWord(b []byte) uint64 {
	if wordBytes == 8 {
		return binary.NativeEndian.Uint64(b)
	}
	return uint64(binary.NativeEndian.Uint32(b))
}
