//go:build !windows

package diagnostics

import (
	"os"

	"golang.org/x/sys/unix"
)

// CountFDs returns the number of open file descriptors and the maximum allowed.
func CountFDs() (open, limit int) {
	// /proc/self/fd on Linux, /dev/fd on macOS and the BSDs
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		entries, err = os.ReadDir("/dev/fd")
		if err != nil {
			return 0, 0
		}
	}
	open = len(entries)

	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err == nil {
		// #nosec G115 -- rlimit values are within int range on supported platforms
		limit = int(rlim.Cur)
	}
	return open, limit
}
