package core

import (
	"context"
	"time"
)

// ToolRunner executes a single tool invocation.
type ToolRunner interface {
	// RunTool runs spec with prompt substituted into its arguments and
	// returns the combined captured output.
	RunTool(ctx context.Context, spec ToolSpec, prompt string) (string, error)
}

// AvailabilityProber checks whether tools can be launched.
type AvailabilityProber interface {
	IsAvailable(spec ToolSpec) bool
	CheckAvailability(keys []string, registry *Registry) (available []Solver, unavailable []string)
}

// ProgressReporter receives run progress for display. All methods may be
// called from the caller goroutine only; solver completions are reported
// after the fan-in join.
type ProgressReporter interface {
	SolversStarted(count int)
	SolverFinished(outcome SolverOutcome)
	SolversFinished(elapsed time.Duration)
	ToolsSkipped(keys []string)
	ConsensusStarted()
	ConsensusFinished(elapsed time.Duration)
}

// PreflightChecker inspects host resources before a fan-out.
type PreflightChecker interface {
	Check(solverCount int) (warnings []string)
}
