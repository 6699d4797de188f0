package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/config"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
)

const usageExamples = `
Examples:
  ai-co -s q,gemini -c claude -p "Explain microservices architecture"
  ai-co -s q,ollama -c claude -p "Latest AI developments"
  ai-co -s q,gemini,claude,ollama -c q -p "Your question here"
`

// printUsage lists the configured tools and example invocations.
func printUsage(w io.Writer, registry *core.Registry) {
	_, _ = fmt.Fprintln(w, "Orchestrate multiple AI CLIs with consensus functionality.")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Available AI Tools:")
	printTools(w, registry)
	_, _ = fmt.Fprint(w, usageExamples)
}

func printTools(w io.Writer, registry *core.Registry) {
	for _, key := range registry.Keys() {
		spec, _ := registry.Get(key)
		_, _ = fmt.Fprintf(w, "• %-12s - %s: %s\n", key, spec.Name, spec.Description)
	}
}

// printError writes err and, for configuration problems, how to fix them.
func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)

	var de *core.DomainError
	if !errors.As(err, &de) || de.Kind != core.KindConfig {
		return
	}
	switch de.Code {
	case core.CodeConfigNotFound, core.CodeParseFailed:
		_, _ = fmt.Fprintf(w, `
To fix this:
1. Ensure config.toml exists at %s, or
2. Copy config.toml to your current directory, or
3. Use --config /path/to/config.toml to specify the location, or
4. Run 'ai-co init' to write a default configuration
`, userConfigDisplay())
	}
}

func userConfigDisplay() string {
	if p := config.UserConfigPath(); p != "" {
		return p
	}
	return "~/.config/" + config.AppName + "/" + config.DefaultConfigName
}
