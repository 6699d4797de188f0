package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigName is the registry document file name.
const DefaultConfigName = "config.toml"

// AppName names the per-user config directory.
const AppName = "ai-consensus-cli"

// UserConfigPath returns ~/.config/ai-consensus-cli/config.toml, or "" when the
// home directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", AppName, DefaultConfigName)
}

// DefaultTools is the registry written by `ai-co init`.
func DefaultTools() map[string]ToolEntry {
	return map[string]ToolEntry{
		"q": {
			Name:        "Amazon Q",
			Command:     "q",
			Args:        []string{"chat", "--no-interactive", "{prompt}"},
			Description: "AWS AI assistant",
		},
		"gemini": {
			Name:        "Gemini",
			Command:     "gemini",
			Args:        []string{"-p", "{prompt}"},
			Description: "Google Gemini CLI",
		},
		"claude": {
			Name:        "Claude",
			Command:     "claude",
			Args:        []string{"-p", "{prompt}"},
			Description: "Anthropic Claude Code CLI",
		},
		"ollama": {
			Name:        "Ollama",
			Command:     "ollama",
			Args:        []string{"run", "llama3.2", "{prompt}"},
			Description: "Local models via Ollama",
		},
	}
}

// initDocument is the layout of the document written by `ai-co init`.
type initDocument struct {
	Tools  map[string]ToolEntry `toml:"tools"`
	Log    LogSettings          `toml:"log"`
	Output OutputSettings       `toml:"output"`
}

// DefaultDocument renders the default registry plus ambient settings as TOML.
func DefaultDocument() ([]byte, error) {
	s := DefaultSettings()
	return toml.Marshal(initDocument{
		Tools:  DefaultTools(),
		Log:    s.Log,
		Output: s.Output,
	})
}
