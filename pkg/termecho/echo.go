// Package termecho suppresses terminal echo around passphrase entry and
// guarantees the terminal is handed back the way it was found. Acquisition
// returns a Guard; releasing it is idempotent, and a Guard dropped while
// active restores echo through a finalizer with the error discarded, since
// terminal cleanup must never crash unrelated code.
package termecho

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"golang.org/x/term"
)

var (
	// ErrNoTerminal reports that stdin is not attached to a terminal.
	ErrNoTerminal = errors.New("termecho: stdin is not a terminal")

	// ErrUnsupported reports that this platform offers no echo control.
	ErrUnsupported = errors.New("termecho: echo control not supported on this platform")
)

// Guard holds a suppressed-echo terminal state. It is Active on creation
// and Restored after the first Reenable (or Close, or finalization).
type Guard struct {
	mu      sync.Mutex
	restore func() error
}

// Suppress disables echo on the controlling terminal. It returns
// ErrNoTerminal when stdin is not a terminal and ErrUnsupported where the
// platform has no echo control; both mean "no guard to release" and the
// returned Guard is nil.
func Suppress() (*Guard, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}
	return suppressFD(fd)
}

// suppressFD acquires the guard on an explicit descriptor.
func suppressFD(fd int) (*Guard, error) {
	restore, err := disableEcho(fd)
	if err != nil {
		return nil, err
	}
	g := &Guard{restore: restore}
	// Safety net: a guard dropped while Active still restores echo once,
	// errors discarded.
	runtime.SetFinalizer(g, func(g *Guard) { _ = g.Reenable() })
	return g, nil
}

// Reenable restores the saved terminal state. The first call performs the
// restore and reports its error; every later call is a no-op returning nil.
func (g *Guard) Reenable() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.restore == nil {
		return nil
	}
	restore := g.restore
	g.restore = nil
	runtime.SetFinalizer(g, nil)
	return restore()
}

// Close re-enables echo and discards any failure, so it can sit in a defer
// on every exit path. Always returns nil.
func (g *Guard) Close() error {
	_ = g.Reenable()
	return nil
}
