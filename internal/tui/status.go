package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
)

// StatusPrinter writes compact progress lines:
//
//	🤖 Running 2 solver(s)... ✅❌ (3.2s)
//	🧠 Getting consensus... ✅ (4.0s)
type StatusPrinter struct {
	w      io.Writer
	styles Styles
	mu     sync.Mutex
	open   bool // a header was printed without its closing mark
}

// NewStatusPrinter creates a status printer writing to w.
func NewStatusPrinter(w io.Writer, noColor bool) *StatusPrinter {
	return &StatusPrinter{w: w, styles: NewStyles(w, noColor)}
}

// SolversStarted prints the fan-out header.
func (p *StatusPrinter) SolversStarted(count int) {
	p.printf("🤖 Running %d solver(s)... ", count)
	p.setOpen(true)
}

// SolverFinished prints one outcome mark.
func (p *StatusPrinter) SolverFinished(o core.SolverOutcome) {
	if o.State == core.SolverSucceeded {
		p.printf("%s", p.styles.Success.Render("✅"))
		return
	}
	p.printf("%s", p.styles.Failure.Render("❌"))
}

// SolversFinished prints the fan-out elapsed time.
func (p *StatusPrinter) SolversFinished(elapsed time.Duration) {
	p.printf(" %s\n", p.styles.Muted.Render(formatElapsed(elapsed)))
	p.setOpen(false)
}

// ToolsSkipped prints the tools left out for not being installed.
func (p *StatusPrinter) ToolsSkipped(keys []string) {
	p.printf("%s\n", p.styles.Warning.Render(
		fmt.Sprintf("❌ Unavailable tools: %s (skipping)", strings.Join(keys, ", "))))
}

// ConsensusStarted prints the consensus header.
func (p *StatusPrinter) ConsensusStarted() {
	p.printf("🧠 Getting consensus... ")
	p.setOpen(true)
}

// ConsensusFinished prints the consensus elapsed time and a blank line.
func (p *StatusPrinter) ConsensusFinished(elapsed time.Duration) {
	p.printf("%s %s\n\n", p.styles.Success.Render("✅"), p.styles.Muted.Render(formatElapsed(elapsed)))
	p.setOpen(false)
}

// Abort closes a pending header with a failure mark so an error message
// starts on its own line.
func (p *StatusPrinter) Abort() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open {
		_, _ = fmt.Fprintln(p.w, p.styles.Failure.Render("❌"))
		p.open = false
	}
}

func (p *StatusPrinter) setOpen(open bool) {
	p.mu.Lock()
	p.open = open
	p.mu.Unlock()
}

// Warn prints a warning line.
func (p *StatusPrinter) Warn(msg string) {
	p.printf("%s\n", p.styles.Warning.Render("⚠ "+msg))
}

func (p *StatusPrinter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, format, args...)
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("(%.1fs)", d.Seconds())
}
