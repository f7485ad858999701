//go:build linux

package termecho

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// disableEcho clears the ECHO flag on fd and returns a closure that puts
// back the prior termios verbatim. Canonical mode is left on so the line
// editor still works; callers print their own newline after the read since
// the terminal swallows the typed one along with the echo.
func disableEcho(fd int) (func() error, error) {
	saved, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("termecho: tcgetattr: %w", err)
	}

	updated := *saved
	updated.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &updated); err != nil {
		return nil, fmt.Errorf("termecho: tcsetattr: %w", err)
	}

	return func() error {
		if err := unix.IoctlSetTermios(fd, unix.TCSETS, saved); err != nil {
			return fmt.Errorf("termecho: restore: %w", err)
		}
		return nil
	}, nil
}
