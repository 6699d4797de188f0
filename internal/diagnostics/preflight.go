package diagnostics

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
)

// fdsPerSolver is the descriptors one solver holds: two capture pipes plus
// the child's inherited ends.
const fdsPerSolver = 4

// Preflight checks whether the host can comfortably run a solver fan-out.
type Preflight struct {
	enabled     bool
	perSolverMB float64
	collect     func() SystemMetrics
}

// NewPreflight creates a preflight checker budgeting the per-process memory
// cap for every solver.
func NewPreflight(enabled bool) *Preflight {
	return &Preflight{
		enabled:     enabled,
		perSolverMB: core.MemoryLimitMB,
		collect:     CollectSystemMetrics,
	}
}

// Check returns human-readable warnings; an empty result means no concern.
func (p *Preflight) Check(solverCount int) []string {
	if !p.enabled || solverCount <= 0 {
		return nil
	}
	stats := p.collect()

	var warnings []string
	needMB := float64(solverCount) * p.perSolverMB
	if stats.MemAvailableMB > 0 && stats.MemAvailableMB < needMB {
		warnings = append(warnings, fmt.Sprintf(
			"low memory: %.0f MB available, %d solver(s) may use up to %.0f MB",
			stats.MemAvailableMB, solverCount, needMB))
	}

	if stats.FDLimit > 0 {
		free := stats.FDLimit - stats.FDOpen
		if need := solverCount * fdsPerSolver; free < need {
			warnings = append(warnings, fmt.Sprintf(
				"few file descriptors left: %d free, %d needed", free, need))
		}
	}

	if stats.CPUThreads > 0 && stats.LoadAvg1 > float64(stats.CPUThreads)*2 {
		warnings = append(warnings, fmt.Sprintf(
			"host is busy: load %.1f on %d threads", stats.LoadAvg1, stats.CPUThreads))
	}
	return warnings
}
