//go:build !linux

package cli

// applyLimits is a no-op where prlimit(2) is unavailable.
func applyLimits(_ int, _ Limits) error { return nil }
