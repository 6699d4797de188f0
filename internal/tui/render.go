package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWrapWidth is used when the terminal width is unknown.
const DefaultWrapWidth = 80

// RenderMarkdown formats text as terminal markdown. With color disabled the
// plain "notty" style is used so no escape sequences are emitted.
func RenderMarkdown(text string, width int, color bool) (string, error) {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	style := glamour.WithStandardStyle("notty")
	if color {
		style = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(text)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
