package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/adapters/cli"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/config"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/diagnostics"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configured tools and host resources",
		Long:  "Verify that the configured AI tools are installed and the host can run them in parallel.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := config.LoadRegistry(opts.configPath)
			if err != nil {
				return err
			}
			return runDoctor(cmd.OutOrStdout(), doc, cli.NewProber(), diagnostics.CollectSystemMetrics(),
				diagnostics.NewPreflight(true))
		},
	}
}

// toolResolver is the part of the prober doctor needs.
type toolResolver interface {
	IsAvailable(spec core.ToolSpec) bool
	ResolvePath(spec core.ToolSpec) string
}

func runDoctor(w io.Writer, doc *config.Document, prober toolResolver, stats diagnostics.SystemMetrics, preflight core.PreflightChecker) error {
	_, _ = fmt.Fprintf(w, "Config: %s (%s)\n\n", doc.Path, doc.Format)
	_, _ = fmt.Fprintln(w, "Checking tools...")
	_, _ = fmt.Fprintln(w)

	installed := 0
	for _, spec := range doc.Registry.Tools() {
		if prober.IsAvailable(spec) {
			installed++
			_, _ = fmt.Fprintf(w, "  ✓ %-12s %s\n", spec.Key, prober.ResolvePath(spec))
			continue
		}
		_, _ = fmt.Fprintf(w, "  ✗ %-12s %s not found in PATH\n", spec.Key, spec.Command)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "Host resources...")
	_, _ = fmt.Fprintln(w)
	if stats.CPUModel != "" {
		_, _ = fmt.Fprintf(w, "  CPU:     %s (%d threads)\n", stats.CPUModel, stats.CPUThreads)
	} else {
		_, _ = fmt.Fprintf(w, "  CPU:     %d threads\n", stats.CPUThreads)
	}
	if stats.MemTotalMB > 0 {
		_, _ = fmt.Fprintf(w, "  Memory:  %.0f MB available of %.0f MB (%.0f%% used)\n",
			stats.MemAvailableMB, stats.MemTotalMB, stats.MemPercent)
	}
	if stats.LoadAvg1 > 0 {
		_, _ = fmt.Fprintf(w, "  Load:    %.2f\n", stats.LoadAvg1)
	}
	if stats.FDLimit > 0 {
		_, _ = fmt.Fprintf(w, "  FDs:     %d open, limit %d\n", stats.FDOpen, stats.FDLimit)
	}
	_, _ = fmt.Fprintln(w)

	warnings := preflight.Check(installed)
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "  ⚠ %s\n", warning)
	}

	_, _ = fmt.Fprintf(w, "%d of %d tool(s) available\n", installed, doc.Registry.Len())
	if installed == 0 {
		return fmt.Errorf("no configured tool is installed")
	}
	return nil
}
