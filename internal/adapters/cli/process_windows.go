//go:build windows

package cli

import "os/exec"

// configureProcAttr is a no-op on Windows (Setpgid not supported); the
// default Cancel kills the direct child only.
func configureProcAttr(_ *exec.Cmd) {}
