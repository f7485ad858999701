//go:build !linux

package termecho

// disableEcho reports ErrUnsupported: no termios control on this platform.
func disableEcho(fd int) (func() error, error) {
	return nil, ErrUnsupported
}
