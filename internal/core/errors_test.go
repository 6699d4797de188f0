package core

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *DomainError
		want string
	}{
		{"tool not found", ErrToolNotFound("gpt"), "tool 'gpt' not found in configuration"},
		{"timeout", ErrToolTimeout("q", 60*time.Second), "tool 'q' timed out after 1m0s"},
		{"auth", ErrAuthenticationFailed("claude", "please run /login"), "authentication failed for tool 'claude': please run /login"},
		{"command", ErrCommandNotAllowed("rm"), "command 'rm' not allowed"},
		{"path", ErrInvalidConfigPath("../x"), "invalid config path: ../x"},
		{"prompt", ErrInvalidPrompt(CodeEmptyPrompt, "prompt cannot be empty"), "prompt validation failed: prompt cannot be empty"},
		{"all failed", ErrAllSolversFailed([]string{"q", "gemini"}), "all solver tools failed (q, gemini)"},
		{"all failed empty", ErrAllSolversFailed(nil), "all solver tools failed"},
		{"config", ErrConfig(CodeParseFailed, "bad toml"), "configuration error: bad toml"},
		{"execution", ErrExecution("q", CodeNonZeroExit, "exited with status 2"), "tool 'q' failed: exited with status 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestDomainError_HintAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("exec: not found")
	err := ErrToolNotFound("gemni").WithHint("did you mean 'gemini'?").WithCause(cause)

	assert.Equal(t, "tool 'gemni' not found in configuration (did you mean 'gemini'?): exec: not found", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestDomainError_Is(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("running solvers: %w", ErrInvalidPrompt(CodePromptTooLong, "too long"))

	assert.ErrorIs(t, wrapped, &DomainError{Kind: KindInvalidPrompt})
	assert.ErrorIs(t, wrapped, &DomainError{Kind: KindInvalidPrompt, Code: CodePromptTooLong})
	assert.NotErrorIs(t, wrapped, &DomainError{Kind: KindInvalidPrompt, Code: CodeEmptyPrompt})
	assert.NotErrorIs(t, wrapped, &DomainError{Kind: KindConfig})

	var domErr *DomainError
	require.ErrorAs(t, wrapped, &domErr)
	assert.Equal(t, CodePromptTooLong, domErr.Code)
}

func TestGetKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindToolTimeout, GetKind(ErrToolTimeout("q", time.Second)))
	assert.Equal(t, KindExecution, GetKind(errors.New("plain")))
	assert.True(t, IsKind(fmt.Errorf("x: %w", ErrCommandNotAllowed("sh")), KindCommandNotAllowed))
	assert.False(t, IsKind(errors.New("plain"), KindConfig))
	assert.False(t, IsKind(nil, KindConfig))
}
