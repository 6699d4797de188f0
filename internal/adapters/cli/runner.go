// Package cli runs external AI command-line tools as child processes.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
	"unicode/utf8"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/logging"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/security"
)

// Limits bounds a single tool invocation.
type Limits struct {
	Timeout     time.Duration
	MemoryBytes uint64
	CPUSeconds  uint64
}

// DefaultLimits returns the fixed per-tool caps.
func DefaultLimits() Limits {
	return Limits{
		Timeout:     core.ToolTimeout,
		MemoryBytes: core.MemoryLimitMB * 1024 * 1024,
		CPUSeconds:  core.CPULimitSeconds,
	}
}

// killGrace is how long Wait keeps reading pipes after the group was killed.
const killGrace = 2 * time.Second

// Runner executes tool specs. It is safe for concurrent use.
type Runner struct {
	limits Limits
	logger *logging.Logger
}

// NewRunner creates a runner with the given limits.
func NewRunner(limits Limits, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if limits.Timeout <= 0 {
		limits.Timeout = core.ToolTimeout
	}
	return &Runner{limits: limits, logger: logger}
}

// RunTool runs spec with prompt substituted into its argument template and
// returns stdout followed by stderr. A nonzero exit is an execution error;
// exceeding the timeout kills the process group and yields ToolTimeout.
func (r *Runner) RunTool(ctx context.Context, spec core.ToolSpec, prompt string) (string, error) {
	if err := security.ValidateCommand(spec.Command); err != nil {
		return "", err
	}
	args, err := security.SanitizeArgs(spec.Args, prompt)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, r.limits.Timeout)
	defer cancel()

	// #nosec G204 -- command is allowlisted and args are sanitized
	cmd := exec.CommandContext(ctx, spec.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = nil
	configureProcAttr(cmd)
	cmd.WaitDelay = killGrace

	log := r.logger.WithTool(spec.Key)
	log.Debug("cli: executing command",
		"command", spec.Command,
		"args_count", len(args),
		"timeout", r.limits.Timeout,
	)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		log.Error("cli: spawn failed", "command", spec.Command, "error", err)
		return "", core.ErrExecution(spec.Key, core.CodeSpawnFailed,
			fmt.Sprintf("failed to start %s", spec.Command)).WithCause(err)
	}
	if err := applyLimits(cmd.Process.Pid, r.limits); err != nil {
		log.Warn("cli: resource limits not applied", "pid", cmd.Process.Pid, "error", err)
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Info("cli: command timeout",
			"duration", duration,
			"timeout", r.limits.Timeout,
			"stderr_preview", truncateForLog(stderr.String(), 500),
		)
		return "", core.ErrToolTimeout(spec.Key, r.limits.Timeout)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		log.Info("cli: command cancelled", "duration", duration)
		return "", core.ErrExecution(spec.Key, core.CodeCancelled, "cancelled").WithCause(ctx.Err())
	}

	// A clean exit whose output pipes were held open by a background
	// descendant still produced an answer; reap the leftover group.
	if errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		log.Info("cli: output left open by a background process", "duration", duration)
		if cmd.Cancel != nil {
			_ = cmd.Cancel()
		}
		waitErr = nil
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			log.Info("cli: command failed",
				"exit_code", exitErr.ExitCode(),
				"duration", duration,
				"stderr", truncateForLog(stderr.String(), 1000),
			)
			domErr := core.ErrExecution(spec.Key, core.CodeNonZeroExit,
				fmt.Sprintf("exited with status %d", exitErr.ExitCode()))
			domErr.ExitCode = exitErr.ExitCode()
			// Keep the text so auth phrases printed before a failing exit
			// still reach the classifier.
			domErr.Output = combine(stdout.Bytes(), stderr.Bytes())
			return "", domErr
		}
		log.Error("cli: command execution error", "error", waitErr, "duration", duration)
		return "", core.ErrExecution(spec.Key, core.CodeSpawnFailed, "wait failed").WithCause(waitErr)
	}

	log.Debug("cli: command completed",
		"duration", duration,
		"stdout_length", stdout.Len(),
		"stderr_length", stderr.Len(),
	)
	return combine(stdout.Bytes(), stderr.Bytes()), nil
}

func combine(stdout, stderr []byte) string {
	out := make([]byte, 0, len(stdout)+len(stderr))
	out = append(out, stdout...)
	out = append(out, stderr...)
	return string(out)
}

// truncateForLog cuts s to at most maxLen bytes on a rune boundary.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "... [truncated]"
}
