// Package vmem provides page-granular memory for secret material: each
// allocated page is pinned to physical memory (mlock) so secrets cannot
// reach swap, flanked by inaccessible guard pages so out-of-bounds access
// faults immediately instead of corrupting neighbors, excluded from core
// dumps, and scrubbed before release. The raw protection toggles and the
// process locking budget are exposed for callers managing their own
// mappings. Linux is the native target; other platforms degrade to empty
// allocations and explicit unsupported errors.
package vmem
