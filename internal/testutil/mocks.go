package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
)

// MockCall records a call to the mock.
type MockCall struct {
	Tool      string
	Prompt    string
	Timestamp time.Time
}

// ToolResponse is the canned result of one tool.
type ToolResponse struct {
	Output string
	Err    error
	Delay  time.Duration
}

// MockRunner implements core.ToolRunner for testing.
type MockRunner struct {
	responses map[string]ToolResponse
	runFunc   func(context.Context, core.ToolSpec, string) (string, error)
	calls     []MockCall
	mu        sync.Mutex
}

// NewMockRunner creates a new mock runner. Unknown tools echo "ok".
func NewMockRunner() *MockRunner {
	return &MockRunner{responses: make(map[string]ToolResponse)}
}

// On sets the response for a tool key.
func (m *MockRunner) On(key string, resp ToolResponse) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[key] = resp
	return m
}

// WithRunFunc overrides every invocation.
func (m *MockRunner) WithRunFunc(fn func(context.Context, core.ToolSpec, string) (string, error)) *MockRunner {
	m.runFunc = fn
	return m
}

// RunTool mocks a tool invocation.
func (m *MockRunner) RunTool(ctx context.Context, spec core.ToolSpec, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Tool: spec.Key, Prompt: prompt, Timestamp: time.Now()})
	resp, ok := m.responses[spec.Key]
	fn := m.runFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, spec, prompt)
	}
	if !ok {
		return "ok", nil
	}
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return resp.Output, resp.Err
}

// Calls returns all recorded calls.
func (m *MockRunner) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of invocations of a tool key.
func (m *MockRunner) CallCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Tool == key {
			n++
		}
	}
	return n
}

// MockProber implements core.AvailabilityProber with a fixed set of
// installed tool keys.
type MockProber struct {
	Installed map[string]bool
}

// NewMockProber marks the given keys as installed.
func NewMockProber(installed ...string) *MockProber {
	m := &MockProber{Installed: make(map[string]bool)}
	for _, k := range installed {
		m.Installed[k] = true
	}
	return m
}

// IsAvailable reports whether spec's key is installed.
func (m *MockProber) IsAvailable(spec core.ToolSpec) bool {
	return m.Installed[spec.Key]
}

// CheckAvailability partitions keys in input order.
func (m *MockProber) CheckAvailability(keys []string, registry *core.Registry) ([]core.Solver, []string) {
	var available []core.Solver
	var unavailable []string
	for _, k := range keys {
		spec, ok := registry.Get(k)
		if ok && m.IsAvailable(spec) {
			available = append(available, core.Solver{Key: k, Spec: spec})
		} else {
			unavailable = append(unavailable, k)
		}
	}
	return available, unavailable
}

// RecordingReporter implements core.ProgressReporter and keeps every event.
type RecordingReporter struct {
	mu       sync.Mutex
	Started  int
	Finished []core.SolverOutcome
	Skipped  []string
	Events   []string
}

func (r *RecordingReporter) record(ev string) {
	r.Events = append(r.Events, ev)
}

// SolversStarted records the fan-out size.
func (r *RecordingReporter) SolversStarted(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Started = count
	r.record("solvers_started")
}

// SolverFinished records one outcome.
func (r *RecordingReporter) SolverFinished(o core.SolverOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Finished = append(r.Finished, o)
	r.record("solver_finished:" + o.Key)
}

// SolversFinished records the join.
func (r *RecordingReporter) SolversFinished(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("solvers_finished")
}

// ToolsSkipped records unavailable tools.
func (r *RecordingReporter) ToolsSkipped(keys []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, keys...)
	r.record("tools_skipped")
}

// ConsensusStarted records the consensus phase start.
func (r *RecordingReporter) ConsensusStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("consensus_started")
}

// ConsensusFinished records the consensus phase end.
func (r *RecordingReporter) ConsensusFinished(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("consensus_finished")
}
