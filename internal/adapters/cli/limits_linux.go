//go:build linux

package cli

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// applyLimits caps address space and CPU time of a started child. The child
// runs briefly without caps between exec and this call.
func applyLimits(pid int, limits Limits) error {
	if limits.MemoryBytes > 0 {
		rlim := &unix.Rlimit{Cur: limits.MemoryBytes, Max: limits.MemoryBytes}
		if err := unix.Prlimit(pid, unix.RLIMIT_AS, rlim, nil); err != nil {
			return fmt.Errorf("prlimit RLIMIT_AS: %w", err)
		}
	}
	if limits.CPUSeconds > 0 {
		rlim := &unix.Rlimit{Cur: limits.CPUSeconds, Max: limits.CPUSeconds}
		if err := unix.Prlimit(pid, unix.RLIMIT_CPU, rlim, nil); err != nil {
			return fmt.Errorf("prlimit RLIMIT_CPU: %w", err)
		}
	}
	return nil
}
