// Package core provides the domain types, fixed tables and error taxonomy
// shared by every other package.
package core

import "time"

// Execution limits applied to every tool invocation.
const (
	ToolTimeout     = 60 * time.Second
	MaxPromptLength = 50000
	MemoryLimitMB   = 512
	CPULimitSeconds = 60
)

// PromptPlaceholder is substituted with the sanitized prompt in tool arguments.
const PromptPlaceholder = "{prompt}"

// allowedCommands is the compiled-in set of executables a tool may name.
var allowedCommands = [...]string{
	"q",
	"gemini",
	"claude",
	"openai",
	"ollama",
	"mistral",
}

// authErrorPatterns are lowercase phrases that mark tool output as an
// authentication failure.
var authErrorPatterns = [...]string{
	"invalid api key",
	"api_key client option must be set",
	"please run /login",
	"authentication",
	"api key",
}

// AllowedCommands returns a copy of the command allowlist.
func AllowedCommands() []string {
	out := make([]string, len(allowedCommands))
	copy(out, allowedCommands[:])
	return out
}

// IsAllowedCommand reports whether command is a literal allowlist member.
func IsAllowedCommand(command string) bool {
	for _, c := range allowedCommands {
		if c == command {
			return true
		}
	}
	return false
}

// AuthErrorPatterns returns a copy of the authentication failure phrases.
func AuthErrorPatterns() []string {
	out := make([]string, len(authErrorPatterns))
	copy(out, authErrorPatterns[:])
	return out
}
