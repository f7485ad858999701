//go:build !linux

package vmem

import "github.com/cryptolith/bedrock/pkg/scrub"

// Non-Linux builds carry the degraded contract: no locked pages, a zero
// locking budget, and explicit errors from the protection toggles. Callers
// that tolerate unlocked memory fall back to ordinary allocation.

// AllocateLockedPages returns nil: page locking is unavailable here.
func AllocateLockedPages(count int) []*Page { return nil }

// FreeLockedPages scrubs and consumes any handles it is given.
func FreeLockedPages(pages []*Page) {
	for _, p := range pages {
		if p == nil {
			continue
		}
		scrub.Bytes(p.data)
		p.full = nil
		p.data = nil
	}
}

// ProhibitAccess reports ErrUnsupported: there is no page protection
// control on this platform.
func ProhibitAccess(region []byte) error { return ErrUnsupported }

// AllowAccess reports ErrUnsupported.
func AllowAccess(region []byte) error { return ErrUnsupported }

// NameRegion is a no-op.
func NameRegion(region []byte, label string) {}

// LockingLimit returns 0: locked pooling is disabled on this platform.
func LockingLimit() int { return 0 }

// DisableCoreDumps reports ErrUnsupported.
func DisableCoreDumps() error { return ErrUnsupported }
