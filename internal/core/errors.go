package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind tags every domain error. The set is closed: callers switch on it.
type ErrorKind string

const (
	KindToolNotFound         ErrorKind = "tool_not_found"
	KindToolTimeout          ErrorKind = "tool_timeout"
	KindAuthenticationFailed ErrorKind = "authentication_failed"
	KindCommandNotAllowed    ErrorKind = "command_not_allowed"
	KindInvalidConfigPath    ErrorKind = "invalid_config_path"
	KindInvalidPrompt        ErrorKind = "invalid_prompt"
	KindAllSolversFailed     ErrorKind = "all_solvers_failed"
	KindConfig               ErrorKind = "config"
	KindExecution            ErrorKind = "execution"
)

// DomainError represents a structured error from the domain layer.
// Only the payload fields relevant to Kind are populated.
type DomainError struct {
	Kind ErrorKind
	Code string

	Tool     string        // ToolNotFound, ToolTimeout, AuthenticationFailed, Execution
	Command  string        // CommandNotAllowed
	Path     string        // InvalidConfigPath
	Reason   string        // AuthenticationFailed, InvalidPrompt, Config, Execution
	Timeout  time.Duration // ToolTimeout
	ExitCode int           // Execution
	Output   string        // Execution: captured text of a nonzero exit
	Failed   []string      // AllSolversFailed
	Hint     string        // optional user-facing suggestion

	Cause error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	var msg string
	switch e.Kind {
	case KindToolNotFound:
		msg = fmt.Sprintf("tool '%s' not found in configuration", e.Tool)
	case KindToolTimeout:
		msg = fmt.Sprintf("tool '%s' timed out after %s", e.Tool, e.Timeout)
	case KindAuthenticationFailed:
		msg = fmt.Sprintf("authentication failed for tool '%s': %s", e.Tool, e.Reason)
	case KindCommandNotAllowed:
		msg = fmt.Sprintf("command '%s' not allowed", e.Command)
	case KindInvalidConfigPath:
		msg = fmt.Sprintf("invalid config path: %s", e.Path)
	case KindInvalidPrompt:
		msg = fmt.Sprintf("prompt validation failed: %s", e.Reason)
	case KindAllSolversFailed:
		msg = "all solver tools failed"
		if len(e.Failed) > 0 {
			msg += " (" + strings.Join(e.Failed, ", ") + ")"
		}
	case KindConfig:
		msg = fmt.Sprintf("configuration error: %s", e.Reason)
	case KindExecution:
		msg = fmt.Sprintf("tool '%s' failed: %s", e.Tool, e.Reason)
	default:
		msg = fmt.Sprintf("[%s] %s", e.Kind, e.Reason)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another DomainError of the same kind. A target with a Code
// only matches errors carrying that code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Code == "" || e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithHint attaches a user-facing suggestion.
func (e *DomainError) WithHint(hint string) *DomainError {
	e.Hint = hint
	return e
}

// ErrToolNotFound creates a tool-not-found error.
func ErrToolNotFound(tool string) *DomainError {
	return &DomainError{Kind: KindToolNotFound, Code: "TOOL_NOT_FOUND", Tool: tool}
}

// ErrToolTimeout creates a timeout error for a single tool invocation.
func ErrToolTimeout(tool string, timeout time.Duration) *DomainError {
	return &DomainError{Kind: KindToolTimeout, Code: "TIMEOUT", Tool: tool, Timeout: timeout}
}

// ErrAuthenticationFailed creates an authentication error.
func ErrAuthenticationFailed(tool, reason string) *DomainError {
	return &DomainError{Kind: KindAuthenticationFailed, Code: "AUTH_FAILED", Tool: tool, Reason: reason}
}

// ErrCommandNotAllowed creates an allowlist violation error.
func ErrCommandNotAllowed(command string) *DomainError {
	return &DomainError{Kind: KindCommandNotAllowed, Code: "COMMAND_NOT_ALLOWED", Command: command}
}

// ErrInvalidConfigPath creates a config path error.
func ErrInvalidConfigPath(path string) *DomainError {
	return &DomainError{Kind: KindInvalidConfigPath, Code: "INVALID_CONFIG_PATH", Path: path}
}

// ErrInvalidPrompt creates a prompt validation error.
func ErrInvalidPrompt(code, reason string) *DomainError {
	return &DomainError{Kind: KindInvalidPrompt, Code: code, Reason: reason}
}

// ErrAllSolversFailed creates the error returned when no solver produced a usable answer.
func ErrAllSolversFailed(failed []string) *DomainError {
	return &DomainError{Kind: KindAllSolversFailed, Code: "ALL_SOLVERS_FAILED", Failed: failed}
}

// ErrConfig creates a configuration error.
func ErrConfig(code, reason string) *DomainError {
	return &DomainError{Kind: KindConfig, Code: code, Reason: reason}
}

// ErrExecution creates an execution error for a tool invocation.
func ErrExecution(tool, code, reason string) *DomainError {
	return &DomainError{Kind: KindExecution, Code: code, Tool: tool, Reason: reason}
}

// GetKind extracts the error kind. Non-domain errors report KindExecution.
func GetKind(err error) ErrorKind {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Kind
	}
	return KindExecution
}

// IsKind checks if an error is a DomainError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Kind == kind
	}
	return false
}

// Predefined error codes
const (
	CodeEmptyPrompt     = "EMPTY_PROMPT"
	CodePromptTooLong   = "PROMPT_TOO_LONG"
	CodeUnsafeArgument  = "UNSAFE_ARGUMENT"
	CodeNoTools         = "NO_TOOLS"
	CodeInvalidTool     = "INVALID_TOOL"
	CodeParseFailed     = "PARSE_FAILED"
	CodeConfigNotFound  = "CONFIG_NOT_FOUND"
	CodeSpawnFailed     = "SPAWN_FAILED"
	CodeNonZeroExit     = "NONZERO_EXIT"
	CodeCancelled       = "CANCELLED"
	CodeNoneAvailable   = "NONE_AVAILABLE"
	CodeInvalidSettings = "INVALID_SETTINGS"
)
