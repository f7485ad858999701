// Package shared provides small utility functions used by the bedrock CLI
// commands.
package shared

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// GetHostname returns the system hostname, or "" on error.
func GetHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}
	return h
}

// GetUsername returns the current user's name, or "" on error.
func GetUsername() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

// GetUID returns the current user's numeric UID, or -1 on error.
func GetUID() int {
	u, err := user.Current()
	if err != nil {
		return -1
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return -1
	}
	return uid
}

// FormatBytes renders n as a short human-readable byte count. Sizes below
// one KiB print as plain bytes; larger sizes use binary units with one
// decimal place.
func FormatBytes(n int) string {
	const (
		kib = 1024
		mib = 1024 * kib
		gib = 1024 * mib
	)
	switch {
	case n < 0:
		return "unknown"
	case n < kib:
		return strconv.Itoa(n) + " B"
	case n < mib:
		return fmt.Sprintf("%.1f KiB", float64(n)/kib)
	case n < gib:
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	default:
		return fmt.Sprintf("%.1f GiB", float64(n)/gib)
	}
}
