package cli

import (
	"os/exec"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/security"
)

// Prober reports which registry tools can be launched on this host.
type Prober struct{}

// NewProber creates a prober.
func NewProber() *Prober { return &Prober{} }

// IsAvailable reports whether spec names an allowlisted command found on PATH.
func (p *Prober) IsAvailable(spec core.ToolSpec) bool {
	if security.ValidateCommand(spec.Command) != nil {
		return false
	}
	_, err := exec.LookPath(spec.Command)
	return err == nil
}

// CheckAvailability partitions keys into launchable solvers and the rest,
// preserving input order. Keys missing from the registry count as unavailable.
func (p *Prober) CheckAvailability(keys []string, registry *core.Registry) ([]core.Solver, []string) {
	var available []core.Solver
	var unavailable []string
	for _, key := range keys {
		spec, ok := registry.Get(key)
		if ok && p.IsAvailable(spec) {
			available = append(available, core.Solver{Key: key, Spec: spec})
			continue
		}
		unavailable = append(unavailable, key)
	}
	return available, unavailable
}

// ResolvePath returns the resolved executable path for spec, or "".
func (p *Prober) ResolvePath(spec core.ToolSpec) string {
	if security.ValidateCommand(spec.Command) != nil {
		return ""
	}
	path, err := exec.LookPath(spec.Command)
	if err != nil {
		return ""
	}
	return path
}
