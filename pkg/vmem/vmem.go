package vmem

import (
	"errors"
	"os"
)

// PoolSizeEnv is the environment variable that overrides the locked pool
// budget in bytes. A value of "0" disables locked pooling entirely. The
// variable is read through the privilege-aware environment accessor, so it
// is ignored in setuid/setgid contexts.
const PoolSizeEnv = "BEDROCK_MLOCK_POOL_SIZE"

// maxPoolBytes is the locking budget when PoolSizeEnv is unset, and the
// ceiling regardless of what PoolSizeEnv requests: the variable can lower
// or disable the budget, never raise it.
const maxPoolBytes = 512 * 1024

// ErrUnsupported is returned by the protection toggles on platforms without
// page protection control.
var ErrUnsupported = errors.New("vmem: not supported on this platform")

// Page is one locked, guard-flanked page. Ownership transfers to the caller
// on allocation and is consumed by FreeLockedPages; handles must not be
// copied and a freed Page returns nil from Bytes.
type Page struct {
	full []byte // whole mapping: guard | data | guard
	data []byte // usable page exposed through Bytes
}

// Bytes returns the usable page-sized region, or nil once freed.
func (p *Page) Bytes() []byte { return p.data }

// Size returns the usable size in bytes, 0 once freed.
func (p *Page) Size() int { return len(p.data) }

// Prohibit removes all access rights from the page. The mapping keeps its
// address and size; contents are preserved and become readable again after
// Allow.
func (p *Page) Prohibit() error { return ProhibitAccess(p.data) }

// Allow restores read/write access to a page previously prohibited.
func (p *Page) Allow() error { return AllowAccess(p.data) }

// PageSize returns the platform memory page size in bytes.
func PageSize() int { return os.Getpagesize() }
