//go:build windows

package diagnostics

// CountFDs reports 0, 0: descriptor counts are not available on Windows.
func CountFDs() (open, limit int) {
	return 0, 0
}
