// Package service runs solver tools in parallel and reduces their answers to
// one consensus answer.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/logging"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/security"
)

// SolverExecutor fans a prompt out to several tools at once.
type SolverExecutor struct {
	runner core.ToolRunner
	logger *logging.Logger
}

// NewSolverExecutor creates a solver executor.
func NewSolverExecutor(runner core.ToolRunner, logger *logging.Logger) *SolverExecutor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SolverExecutor{runner: runner, logger: logger}
}

// RunSolvers runs every solver concurrently and joins once. A failing solver
// never cancels its siblings. Outcomes are recorded in completion order.
// When no solver succeeds the report is returned with AllSolversFailed.
func (e *SolverExecutor) RunSolvers(ctx context.Context, solvers []core.Solver, prompt string) (*core.ExecutionReport, error) {
	outcomes := make(chan core.SolverOutcome, len(solvers))

	var g errgroup.Group
	for _, solver := range solvers {
		g.Go(func() error {
			outcomes <- e.runSolver(ctx, solver, prompt)
			return nil
		})
	}
	_ = g.Wait() // solver goroutines never return errors
	close(outcomes)

	report := &core.ExecutionReport{}
	for o := range outcomes {
		report.Add(o)
	}

	if len(report.SuccessfulResponses) == 0 {
		return report, core.ErrAllSolversFailed(report.FailedKeys)
	}
	return report, nil
}

func (e *SolverExecutor) runSolver(ctx context.Context, solver core.Solver, prompt string) core.SolverOutcome {
	task := newSolverTask(solver.Key)
	log := e.logger.WithTool(solver.Key)

	task.advance(core.SolverRunning)
	log.Debug("solver started", "command", solver.Spec.Command)

	start := time.Now()
	text, err := e.runner.RunTool(ctx, solver.Spec, prompt)
	outcome := Classify(solver.Key, text, err)
	outcome.Duration = time.Since(start)
	task.advance(outcome.State)

	switch outcome.State {
	case core.SolverSucceeded:
		log.Info("solver succeeded", "duration", outcome.Duration, "output_length", len(text))
	default:
		log.Info("solver failed",
			"state", outcome.State.String(),
			"duration", outcome.Duration,
			"error", outcome.Err,
		)
	}
	return outcome
}

// Classify maps one tool result to a terminal solver outcome. Output that
// mentions an authentication phrase is rejected even when the tool exited
// cleanly, which can discard a legitimate answer that talks about API keys.
func Classify(key, text string, err error) core.SolverOutcome {
	if err == nil {
		if security.IsAuthenticationError(text) {
			return core.SolverOutcome{
				Key:   key,
				State: core.SolverAuthRejected,
				Err:   core.ErrAuthenticationFailed(key, "authentication error detected in output"),
			}
		}
		return core.SolverOutcome{Key: key, State: core.SolverSucceeded, Text: text}
	}

	var domErr *core.DomainError
	if errors.As(err, &domErr) {
		switch {
		case domErr.Kind == core.KindToolTimeout:
			return core.SolverOutcome{Key: key, State: core.SolverTimedOut, Err: err}
		case domErr.Kind == core.KindExecution && security.IsAuthenticationError(domErr.Output):
			return core.SolverOutcome{
				Key:   key,
				State: core.SolverAuthRejected,
				Err:   core.ErrAuthenticationFailed(key, "authentication error detected in output").WithCause(err),
			}
		}
	}
	return core.SolverOutcome{Key: key, State: core.SolverFailed, Err: err}
}

// solverTask tracks one solver through Pending -> Running -> terminal.
type solverTask struct {
	key   string
	state core.SolverState
}

func newSolverTask(key string) *solverTask {
	return &solverTask{key: key, state: core.SolverPending}
}

// advance moves the task to next. An illegal move is a programming error.
func (t *solverTask) advance(next core.SolverState) {
	if !t.state.CanTransition(next) {
		panic(fmt.Sprintf("solver %s: invalid transition %s -> %s", t.key, t.state, next))
	}
	t.state = next
}
