// Package security guards everything that crosses the process boundary:
// tool commands, config paths, prompt text, process arguments and tool output.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
)

// ansiPattern matches CSI color and erase-line sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[mK]`)

// promptPunctuation lists the non-alphanumeric runes kept in a prompt.
const promptPunctuation = " .,?!-_:;()[]{}\"'`\n\t"

// argForbidden lists runes never allowed in a literal template argument.
const argForbidden = ";|&`"

// systemConfigPrefixes are absolute locations accepted for config files.
var systemConfigPrefixes = [...]string{"/usr/local/", "/opt/"}

// ValidateCommand checks that command is a literal allowlist member.
func ValidateCommand(command string) error {
	if !core.IsAllowedCommand(command) {
		return core.ErrCommandNotAllowed(command)
	}
	return nil
}

// ValidateConfigPath resolves a config file path and rejects parent-directory
// traversal in relative paths. Absolute paths are accepted; this is a
// traversal guard, not an allowlist.
func ValidateConfigPath(path string) (string, error) {
	home, _ := os.UserHomeDir()

	expanded := path
	if strings.HasPrefix(path, "~/") && home != "" {
		expanded = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(expanded) {
		for _, part := range strings.FieldsFunc(expanded, isPathSeparator) {
			if part == ".." {
				return "", core.ErrInvalidConfigPath(path)
			}
		}
		return expanded, nil
	}

	if home != "" && isWithin(home, expanded) {
		return expanded, nil
	}

	for _, prefix := range systemConfigPrefixes {
		if strings.HasPrefix(expanded, prefix) {
			return expanded, nil
		}
	}

	// Other absolute paths are allowed.
	return expanded, nil
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}

// isWithin reports whether target is base or lies beneath it, comparing
// path components rather than string prefixes.
func isWithin(base, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// SanitizePrompt validates prompt length and removes every rune outside the
// permitted character class. Removed runes are deleted, not escaped.
func SanitizePrompt(prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", core.ErrInvalidPrompt(core.CodeEmptyPrompt, "prompt cannot be empty")
	}
	if utf8.RuneCountInString(prompt) > core.MaxPromptLength {
		return "", core.ErrInvalidPrompt(core.CodePromptTooLong,
			fmt.Sprintf("prompt too long (max %d characters)", core.MaxPromptLength))
	}

	var b strings.Builder
	b.Grow(len(prompt))
	for _, r := range prompt {
		if isPromptRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isPromptRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || strings.ContainsRune(promptPunctuation, r)
}

// SanitizeArgs expands an argument template. Each {prompt} element becomes
// the sanitized prompt; any other element must be free of shell metacharacters.
func SanitizeArgs(template []string, prompt string) ([]string, error) {
	sanitized, err := SanitizePrompt(prompt)
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, len(template))
	for _, arg := range template {
		if arg == core.PromptPlaceholder {
			args = append(args, sanitized)
			continue
		}
		if strings.ContainsAny(arg, argForbidden) {
			return nil, core.ErrInvalidPrompt(core.CodeUnsafeArgument, "invalid characters in arguments")
		}
		args = append(args, arg)
	}
	return args, nil
}

// IsAuthenticationError reports whether text contains a known authentication
// failure phrase, ignoring case.
func IsAuthenticationError(text string) bool {
	lower := strings.ToLower(text)
	for _, pattern := range core.AuthErrorPatterns() {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// StripANSICodes removes color/erase escape sequences and bell characters and
// collapses doubled spaces. Removal repeats until the text is stable, so the
// function is idempotent even when a removal splices a new sequence together.
func StripANSICodes(text string) string {
	for {
		next := stripOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func stripOnce(text string) string {
	out := ansiPattern.ReplaceAllString(text, "")
	out = strings.ReplaceAll(out, "\a", "")
	return strings.ReplaceAll(out, "  ", " ")
}
