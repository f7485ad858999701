package cpuprobe

import "github.com/cryptolith/bedrock/internal/auxv"

// CapabilitySet holds the two hardware capability words the kernel reports
// in the auxiliary vector. The bit meanings are platform defined (on arm64
// for example AT_HWCAP bit 3 is AES); callers own the decoding.
type CapabilitySet struct {
	HWCap  uint64
	HWCap2 uint64
}

// ReadHWCap returns the capability words, or ok=false on platforms where
// the auxiliary vector interface is absent. The words are read fresh on
// every call; callers may cache.
func ReadHWCap() (CapabilitySet, bool) {
	v := auxv.Read()
	if !v.FoundHWCap {
		return CapabilitySet{}, false
	}
	return CapabilitySet{HWCap: v.HWCap, HWCap2: v.HWCap2}, true
}
