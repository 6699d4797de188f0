//go:build !windows

package cli

import (
	"errors"
	"os/exec"
	"syscall"
)

// configureProcAttr starts the child in its own process group and makes
// context cancellation kill the whole group, not just the leader.
func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return err
	}
}
