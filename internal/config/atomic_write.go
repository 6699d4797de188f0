package config

import "os"

// filePerm keeps the mode of an existing file, defaulting to 0600.
func filePerm(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o600
}
