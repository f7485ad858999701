//go:build linux

package vmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/cryptolith/bedrock/pkg/procenv"
	"github.com/cryptolith/bedrock/pkg/scrub"
)

// poolRegionLabel tags pool mappings in /proc/<pid>/maps on kernels with
// anonymous VMA naming (5.17+).
const poolRegionLabel = "bedrock locked pool"

// AllocateLockedPages maps up to count single pages of secret-bearing
// memory. Each page sits in its own three-page mapping with the first and
// last page set PROT_NONE as guards; the middle page is mlocked and marked
// MADV_DONTDUMP. Allocation stops at the first failure (typically the
// RLIMIT_MEMLOCK quota) and whatever was mapped so far is returned: fewer
// pages, or none, is a valid outcome and never an error.
func AllocateLockedPages(count int) []*Page {
	if count <= 0 {
		return nil
	}
	pageSize := PageSize()
	pages := make([]*Page, 0, count)

	for i := 0; i < count; i++ {
		full, err := unix.Mmap(-1, 0, 3*pageSize,
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			break
		}
		data := full[pageSize : 2*pageSize]

		// Guard pages: any access walking off either end of the usable
		// page faults instead of touching adjacent memory.
		if err := unix.Mprotect(full[:pageSize], unix.PROT_NONE); err != nil {
			_ = unix.Munmap(full)
			break
		}
		if err := unix.Mprotect(full[2*pageSize:], unix.PROT_NONE); err != nil {
			_ = unix.Munmap(full)
			break
		}

		// Pin the usable page so it cannot be swapped to disk. A locking
		// quota failure here ends the batch; pages already locked are kept.
		if err := unix.Mlock(data); err != nil {
			_ = unix.Munmap(full)
			break
		}

		// Keep secret pages out of core dumps. Best effort.
		_ = unix.Madvise(data, unix.MADV_DONTDUMP)

		NameRegion(data, poolRegionLabel)

		pages = append(pages, &Page{full: full, data: data})
	}

	return pages
}

// FreeLockedPages scrubs and unmaps every page in pages, guard pages
// included, and consumes the handles. Nil entries and already-freed handles
// are skipped. Freeing pages not produced by AllocateLockedPages is a
// caller error.
func FreeLockedPages(pages []*Page) {
	for _, p := range pages {
		if p == nil || p.full == nil {
			continue
		}
		// The caller may free a page it left prohibited; restore access
		// so the scrub can write.
		_ = unix.Mprotect(p.data, unix.PROT_READ|unix.PROT_WRITE)
		scrub.Bytes(p.data)
		_ = unix.Munlock(p.data)
		_ = unix.Munmap(p.full)
		p.full = nil
		p.data = nil
	}
}

// ProhibitAccess removes all access rights from a mapped region. The region
// must be page-aligned and a whole number of pages, as returned by
// AllocateLockedPages or mmap. Size and address are unchanged.
func ProhibitAccess(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	if err := unix.Mprotect(region, unix.PROT_NONE); err != nil {
		return fmt.Errorf("vmem: mprotect PROT_NONE failed: %w", err)
	}
	return nil
}

// AllowAccess restores read/write access to a region previously passed to
// ProhibitAccess.
func AllowAccess(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return fmt.Errorf("vmem: mprotect PROT_READ|PROT_WRITE failed: %w", err)
	}
	return nil
}

// NameRegion tags an anonymous mapping with a label visible in
// /proc/<pid>/maps. Failure is silently ignored: naming is diagnostic only
// and the prctl is rejected on kernels before 5.17 or for labels with
// characters the kernel refuses.
func NameRegion(region []byte, label string) {
	if len(region) == 0 {
		return
	}
	name, err := unix.BytePtrFromString(label)
	if err != nil {
		return
	}
	_ = unix.Prctl(unix.PR_SET_VMA, uintptr(unix.PR_SET_VMA_ANON_NAME),
		uintptr(unsafe.Pointer(&region[0])), uintptr(len(region)),
		uintptr(unsafe.Pointer(name)))
}

// LockingLimit returns the number of bytes the pool may ask the OS to lock:
// the PoolSizeEnv request (512 KiB by default, also the hard cap) bounded
// by RLIMIT_MEMLOCK. The soft limit is raised toward the hard limit first
// so the budget reflects what mlock will actually admit. Returns 0 when
// pooling is disabled or no locking is permitted.
func LockingLimit() int {
	requested := procenv.ReadVariableSize(PoolSizeEnv, maxPoolBytes)
	if requested <= 0 {
		return 0
	}
	if requested > maxPoolBytes {
		requested = maxPoolBytes
	}

	var lim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &lim); err != nil {
		return 0
	}
	if lim.Cur < lim.Max {
		lim.Cur = lim.Max
		_ = unix.Setrlimit(unix.RLIMIT_MEMLOCK, &lim)
		_ = unix.Getrlimit(unix.RLIMIT_MEMLOCK, &lim)
	}
	if lim.Cur != unix.RLIM_INFINITY && uint64(requested) > lim.Cur {
		return int(lim.Cur)
	}
	return requested
}

// DisableCoreDumps prevents the process from producing core dumps: the
// dumpable attribute is cleared (which also restricts /proc/<pid> access
// from other users) and RLIMIT_CORE is forced to zero.
func DisableCoreDumps() error {
	if err := unix.Prctl(unix.PR_SET_DUMPABLE, 0, 0, 0, 0); err != nil {
		return fmt.Errorf("vmem: prctl PR_SET_DUMPABLE failed: %w", err)
	}
	rlim := unix.Rlimit{Cur: 0, Max: 0}
	if err := unix.Setrlimit(unix.RLIMIT_CORE, &rlim); err != nil {
		return fmt.Errorf("vmem: setrlimit RLIMIT_CORE failed: %w", err)
	}
	return nil
}
