package core

import (
	"fmt"
	"time"
)

// SolverState is the lifecycle state of one solver task.
type SolverState int

const (
	SolverPending SolverState = iota
	SolverRunning
	SolverSucceeded
	SolverAuthRejected
	SolverFailed
	SolverTimedOut
)

func (s SolverState) String() string {
	switch s {
	case SolverPending:
		return "pending"
	case SolverRunning:
		return "running"
	case SolverSucceeded:
		return "succeeded"
	case SolverAuthRejected:
		return "auth_rejected"
	case SolverFailed:
		return "failed"
	case SolverTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("SolverState(%d)", int(s))
	}
}

// IsTerminal reports whether no further transition is possible.
func (s SolverState) IsTerminal() bool {
	switch s {
	case SolverSucceeded, SolverAuthRejected, SolverFailed, SolverTimedOut:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is allowed:
// Pending -> Running -> one terminal state.
func (s SolverState) CanTransition(next SolverState) bool {
	switch s {
	case SolverPending:
		return next == SolverRunning
	case SolverRunning:
		return next.IsTerminal()
	default:
		return false
	}
}

// SolverOutcome is the classified result of one solver task.
type SolverOutcome struct {
	Key      string
	State    SolverState
	Text     string // set only when State is SolverSucceeded
	Err      error
	Duration time.Duration
}

// ExecutionReport is the fan-in result of one solver run.
type ExecutionReport struct {
	// SuccessfulResponses are in completion order.
	SuccessfulResponses []string
	// FailedKeys holds each failed solver key once, in completion order.
	FailedKeys []string
	// Outcomes holds every outcome in completion order.
	Outcomes []SolverOutcome
}

// Add records an outcome in the report.
func (r *ExecutionReport) Add(o SolverOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.State == SolverSucceeded {
		r.SuccessfulResponses = append(r.SuccessfulResponses, o.Text)
		return
	}
	for _, k := range r.FailedKeys {
		if k == o.Key {
			return
		}
	}
	r.FailedKeys = append(r.FailedKeys, o.Key)
}
