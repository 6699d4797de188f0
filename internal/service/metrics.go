package service

import (
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
)

// MetricsCollector collects run metrics.
type MetricsCollector struct {
	run   RunMetrics
	tools map[string]*ToolMetrics
	mu    sync.RWMutex
}

// RunMetrics holds run-level metrics.
type RunMetrics struct {
	StartTime         time.Time     `json:"start_time"`
	EndTime           time.Time     `json:"end_time"`
	TotalDuration     time.Duration `json:"total_duration"`
	SolverDuration    time.Duration `json:"solver_duration"`
	ConsensusDuration time.Duration `json:"consensus_duration"`
	SolversTotal      int           `json:"solvers_total"`
	SolversSucceeded  int           `json:"solvers_succeeded"`
	SolversFailed     int           `json:"solvers_failed"`
	SolversSkipped    int           `json:"solvers_skipped"`
}

// ToolMetrics holds per-tool metrics.
type ToolMetrics struct {
	Key      string        `json:"key"`
	State    string        `json:"state"`
	Duration time.Duration `json:"duration"`
	ErrorMsg string        `json:"error,omitempty"`
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{tools: make(map[string]*ToolMetrics)}
}

// StartRun marks run start.
func (m *MetricsCollector) StartRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run.StartTime = time.Now()
}

// EndRun marks run end.
func (m *MetricsCollector) EndRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run.EndTime = time.Now()
	m.run.TotalDuration = m.run.EndTime.Sub(m.run.StartTime)
}

// RecordSkipped counts tools left out because they are not installed.
func (m *MetricsCollector) RecordSkipped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run.SolversSkipped += n
}

// RecordReport records every outcome of a solver run.
func (m *MetricsCollector) RecordReport(report *core.ExecutionReport, elapsed time.Duration) {
	if report == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.run.SolverDuration = elapsed
	for _, o := range report.Outcomes {
		tm := &ToolMetrics{Key: o.Key, State: o.State.String(), Duration: o.Duration}
		if o.Err != nil {
			tm.ErrorMsg = o.Err.Error()
		}
		m.tools[o.Key] = tm
		m.run.SolversTotal++
		if o.State == core.SolverSucceeded {
			m.run.SolversSucceeded++
		} else {
			m.run.SolversFailed++
		}
	}
}

// RecordConsensus records the consensus call duration.
func (m *MetricsCollector) RecordConsensus(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.run.ConsensusDuration = elapsed
}

// Run returns a snapshot of run metrics.
func (m *MetricsCollector) Run() RunMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.run
}

// Tool returns a copy of the metrics recorded for key.
func (m *MetricsCollector) Tool(key string) (ToolMetrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tm, ok := m.tools[key]
	if !ok {
		return ToolMetrics{}, false
	}
	return *tm, true
}
