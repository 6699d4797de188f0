// Package tui renders run progress and the final answer for a terminal.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorTextMuted = lipgloss.Color("#9CA3AF") // Muted gray
)

// Styles holds the styles used for status lines, bound to one writer.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles creates styles for w. Color is used only when w is a terminal
// that supports it and noColor is false.
func NewStyles(w io.Writer, noColor bool) Styles {
	r := lipgloss.NewRenderer(w)
	if noColor || os.Getenv("NO_COLOR") != "" {
		r.SetColorProfile(termenv.Ascii)
	}
	return Styles{
		Header:  r.NewStyle().Foreground(ColorPrimary).Bold(true),
		Success: r.NewStyle().Foreground(ColorSuccess),
		Failure: r.NewStyle().Foreground(ColorError),
		Warning: r.NewStyle().Foreground(ColorWarning),
		Muted:   r.NewStyle().Foreground(ColorTextMuted),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// TerminalWidth returns the width of w, or fallback when unknown.
func TerminalWidth(w io.Writer, fallback int) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return fallback
}
