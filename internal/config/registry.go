// Package config loads the tool registry document and the ambient settings
// stored alongside it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/security"
)

// ToolEntry is one [tools.<key>] table as written in the document.
type ToolEntry struct {
	Name        string   `toml:"name" yaml:"name"`
	Command     string   `toml:"command" yaml:"command"`
	Args        []string `toml:"args" yaml:"args"`
	Description string   `toml:"description" yaml:"description"`
}

// registryFile is the decoded shape of the registry part of a document.
type registryFile struct {
	Tools map[string]ToolEntry `toml:"tools" yaml:"tools"`
}

// Document is a loaded and validated registry document.
type Document struct {
	Path     string
	Format   string // toml or yaml
	Raw      []byte
	Registry *core.Registry
}

// candidateLocator lists the places a registry document is searched for.
// It is a variable so tests can avoid the real home and executable paths.
var candidateLocator = defaultCandidates

func defaultCandidates(explicitPath string) []string {
	var paths []string
	if p := UserConfigPath(); p != "" {
		paths = append(paths, p)
	}
	if explicitPath != "" {
		paths = append(paths, explicitPath)
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), DefaultConfigName))
	}
	return paths
}

// LoadRegistry finds, parses and validates the registry document. Candidates
// are the user config file, explicitPath and config.toml beside the
// executable, in that order. Candidates that fail path validation or cannot
// be read are skipped; the first readable one must parse and validate.
func LoadRegistry(explicitPath string) (*Document, error) {
	candidates := candidateLocator(explicitPath)

	for _, candidate := range candidates {
		path, err := security.ValidateConfigPath(candidate)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return ParseDocument(path, data)
	}

	return nil, core.ErrConfig(core.CodeConfigNotFound,
		fmt.Sprintf("could not read config file (tried: %s)", strings.Join(candidates, ", ")))
}

// ParseDocument decodes and validates a registry document. The format is
// chosen from the file extension; anything but .yaml/.yml is TOML.
func ParseDocument(path string, data []byte) (*Document, error) {
	format := FormatFor(path)

	var file registryFile
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = toml.NewDecoder(bytes.NewReader(data)).Decode(&file)
	}
	if err != nil {
		return nil, core.ErrConfig(core.CodeParseFailed,
			fmt.Sprintf("invalid config format in %s", path)).WithCause(describeDecodeError(err))
	}

	tools := make(map[string]core.ToolSpec, len(file.Tools))
	for key, entry := range file.Tools {
		tools[key] = core.ToolSpec{
			Name:        entry.Name,
			Command:     entry.Command,
			Args:        entry.Args,
			Description: entry.Description,
		}
	}
	registry := core.NewRegistry(tools)
	if err := ValidateRegistry(registry); err != nil {
		return nil, err
	}

	return &Document{Path: path, Format: format, Raw: data, Registry: registry}, nil
}

// FormatFor returns the document format implied by path.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

func describeDecodeError(err error) error {
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return fmt.Errorf("line %d, column %d: %w", row, col, err)
	}
	return err
}

// ValidateRegistry checks that the registry is non-empty and that every tool
// has a name, command and description and names an allowlisted command.
// Tools are checked in key order so the reported error is stable.
func ValidateRegistry(registry *core.Registry) error {
	if registry.Len() == 0 {
		return core.ErrConfig(core.CodeNoTools, "configuration must contain at least one tool")
	}

	for _, tool := range registry.Tools() {
		if strings.TrimSpace(tool.Key) == "" {
			return core.ErrConfig(core.CodeInvalidTool, "tool with empty key")
		}
		if strings.TrimSpace(tool.Name) == "" {
			return core.ErrConfig(core.CodeInvalidTool, fmt.Sprintf("tool '%s' has empty name", tool.Key))
		}
		if strings.TrimSpace(tool.Command) == "" {
			return core.ErrConfig(core.CodeInvalidTool, fmt.Sprintf("tool '%s' has empty command", tool.Key))
		}
		if strings.TrimSpace(tool.Description) == "" {
			return core.ErrConfig(core.CodeInvalidTool, fmt.Sprintf("tool '%s' has empty description", tool.Key))
		}
		if err := security.ValidateCommand(tool.Command); err != nil {
			return err
		}
	}
	return nil
}

// IsNotFound reports whether err means no registry document was found.
func IsNotFound(err error) bool {
	return errors.Is(err, &core.DomainError{Kind: core.KindConfig, Code: core.CodeConfigNotFound})
}
