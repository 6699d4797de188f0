package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolverState_Transitions(t *testing.T) {
	t.Parallel()

	terminal := []SolverState{SolverSucceeded, SolverAuthRejected, SolverFailed, SolverTimedOut}

	assert.True(t, SolverPending.CanTransition(SolverRunning))
	assert.False(t, SolverPending.CanTransition(SolverSucceeded))
	assert.False(t, SolverRunning.CanTransition(SolverPending))

	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s.String())
		assert.True(t, SolverRunning.CanTransition(s), s.String())
		assert.False(t, s.CanTransition(SolverRunning), s.String())
		for _, next := range terminal {
			assert.False(t, s.CanTransition(next), "%s -> %s", s, next)
		}
	}
	assert.False(t, SolverPending.IsTerminal())
	assert.False(t, SolverRunning.IsTerminal())
}

func TestSolverState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "timed_out", SolverTimedOut.String())
	assert.Equal(t, "auth_rejected", SolverAuthRejected.String())
	assert.Equal(t, "SolverState(42)", SolverState(42).String())
}

func TestExecutionReport_Add(t *testing.T) {
	t.Parallel()

	var r ExecutionReport
	r.Add(SolverOutcome{Key: "gemini", State: SolverSucceeded, Text: "4"})
	r.Add(SolverOutcome{Key: "q", State: SolverTimedOut})
	r.Add(SolverOutcome{Key: "claude", State: SolverSucceeded, Text: "four"})
	r.Add(SolverOutcome{Key: "q", State: SolverFailed})

	assert.Equal(t, []string{"4", "four"}, r.SuccessfulResponses)
	assert.Equal(t, []string{"q"}, r.FailedKeys)
	assert.Len(t, r.Outcomes, 4)
}
