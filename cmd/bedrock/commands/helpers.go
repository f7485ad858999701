package commands

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// cpuFlags returns short names for detected CPU features relevant to
// cryptographic workloads, in a stable order. The list is empty on
// architectures the probe does not know about.
func cpuFlags() []string {
	type flag struct {
		name string
		on   bool
	}

	var flags []flag
	switch runtime.GOARCH {
	case "amd64", "386":
		flags = []flag{
			{"sse2", cpu.X86.HasSSE2},
			{"ssse3", cpu.X86.HasSSSE3},
			{"sse4.1", cpu.X86.HasSSE41},
			{"sse4.2", cpu.X86.HasSSE42},
			{"aesni", cpu.X86.HasAES},
			{"pclmul", cpu.X86.HasPCLMULQDQ},
			{"avx", cpu.X86.HasAVX},
			{"avx2", cpu.X86.HasAVX2},
			{"avx512f", cpu.X86.HasAVX512F},
			{"bmi2", cpu.X86.HasBMI2},
			{"popcnt", cpu.X86.HasPOPCNT},
			{"rdrand", cpu.X86.HasRDRAND},
			{"rdseed", cpu.X86.HasRDSEED},
		}
	case "arm64":
		flags = []flag{
			{"asimd", cpu.ARM64.HasASIMD},
			{"aes", cpu.ARM64.HasAES},
			{"pmull", cpu.ARM64.HasPMULL},
			{"sha1", cpu.ARM64.HasSHA1},
			{"sha2", cpu.ARM64.HasSHA2},
			{"sha3", cpu.ARM64.HasSHA3},
			{"sha512", cpu.ARM64.HasSHA512},
			{"crc32", cpu.ARM64.HasCRC32},
			{"atomics", cpu.ARM64.HasATOMICS},
			{"sve", cpu.ARM64.HasSVE},
		}
	case "arm":
		flags = []flag{
			{"neon", cpu.ARM.HasNEON},
			{"aes", cpu.ARM.HasAES},
			{"pmull", cpu.ARM.HasPMULL},
			{"sha1", cpu.ARM.HasSHA1},
			{"sha2", cpu.ARM.HasSHA2},
			{"crc32", cpu.ARM.HasCRC32},
		}
	case "s390x":
		flags = []flag{
			{"aes", cpu.S390X.HasAES},
			{"aes-gcm", cpu.S390X.HasAESGCM},
			{"ghash", cpu.S390X.HasGHASH},
			{"sha256", cpu.S390X.HasSHA256},
			{"sha512", cpu.S390X.HasSHA512},
			{"vx", cpu.S390X.HasVX},
		}
	}

	var names []string
	for _, f := range flags {
		if f.on {
			names = append(names, f.name)
		}
	}
	return names
}
