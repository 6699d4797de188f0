package cli

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/testutil"
)

func spec(key, command string, args ...string) core.ToolSpec {
	return core.ToolSpec{Key: key, Name: key, Command: command, Args: args, Description: key}
}

func TestRunTool_Success(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	bin.Script("gemini", `printf 'args:'; for a in "$@"; do printf '[%s]' "$a"; done; printf 'warn' >&2`)

	r := NewRunner(DefaultLimits(), nil)
	out, err := r.RunTool(context.Background(), spec("gemini", "gemini", "-p", "{prompt}"), "What is 2+2? $(id)")
	require.NoError(t, err)
	assert.Equal(t, "args:[-p][What is 22? (id)]warn", out)
}

func TestRunTool_OutputVerbatim(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	bin.Echo("claude", "\x1b[1mbold\x1b[0m  answer\n")

	r := NewRunner(DefaultLimits(), nil)
	out, err := r.RunTool(context.Background(), spec("claude", "claude", "{prompt}"), "hi")
	require.NoError(t, err)
	assert.Equal(t, "\x1b[1mbold\x1b[0m  answer\n", out)
}

func TestRunTool_NonZeroExit(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	bin.Fail("claude", "Invalid API key", "3")

	r := NewRunner(DefaultLimits(), nil)
	_, err := r.RunTool(context.Background(), spec("claude", "claude", "{prompt}"), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, &core.DomainError{Kind: core.KindExecution, Code: core.CodeNonZeroExit})

	var domErr *core.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, 3, domErr.ExitCode)
	assert.Equal(t, "claude", domErr.Tool)
	assert.Equal(t, "Invalid API key", domErr.Output)
}

func TestRunTool_Timeout(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	bin.Sleep("q")

	r := NewRunner(Limits{Timeout: 200 * time.Millisecond}, nil)
	start := time.Now()
	_, err := r.RunTool(context.Background(), spec("q", "q", "chat", "{prompt}"), "hi")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindToolTimeout))
	assert.Less(t, elapsed, 10*time.Second)

	var domErr *core.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, "q", domErr.Tool)
	assert.Equal(t, 200*time.Millisecond, domErr.Timeout)
}

func TestRunTool_KillsProcessGroup(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	// The backgrounded sleep holds stdout open until the group is killed.
	bin.Script("ollama", "sleep 30 &\nwait")

	r := NewRunner(Limits{Timeout: 200 * time.Millisecond}, nil)
	start := time.Now()
	_, err := r.RunTool(context.Background(), spec("ollama", "ollama", "run", "{prompt}"), "hi")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindToolTimeout))
	assert.Less(t, time.Since(start), killGrace)
}

func TestRunTool_Cancelled(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	bin.Sleep("mistral")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	r := NewRunner(DefaultLimits(), nil)
	_, err := r.RunTool(ctx, spec("mistral", "mistral", "{prompt}"), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, &core.DomainError{Kind: core.KindExecution, Code: core.CodeCancelled})
}

func TestRunTool_SpawnFailure(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	r := NewRunner(DefaultLimits(), nil)
	_, err := r.RunTool(context.Background(), spec("openai", "openai", "{prompt}"), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, &core.DomainError{Kind: core.KindExecution, Code: core.CodeSpawnFailed})
}

func TestRunTool_RejectsBeforeSpawn(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	marker := bin.Dir + "/ran"
	bin.Script("q", "touch "+marker)

	r := NewRunner(DefaultLimits(), nil)

	_, err := r.RunTool(context.Background(), spec("q", "q", "{prompt}"), "   ")
	assert.True(t, core.IsKind(err, core.KindInvalidPrompt))

	_, err = r.RunTool(context.Background(), spec("q", "q", "chat; rm -rf /", "{prompt}"), "hi")
	assert.True(t, core.IsKind(err, core.KindInvalidPrompt))

	_, err = r.RunTool(context.Background(), spec("shell", "sh", "-c", "{prompt}"), "hi")
	assert.True(t, core.IsKind(err, core.KindCommandNotAllowed))

	assert.NoFileExists(t, marker)
}

func TestRunTool_PromptIsSingleArgument(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	bin.Script("q", `printf '%s' "$#"`)

	r := NewRunner(DefaultLimits(), nil)
	out, err := r.RunTool(context.Background(), spec("q", "q", "chat", "{prompt}"), "several words * here")
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))
}

func TestNewRunner_Defaults(t *testing.T) {
	t.Parallel()

	r := NewRunner(Limits{}, nil)
	assert.Equal(t, core.ToolTimeout, r.limits.Timeout)
	assert.NotNil(t, r.logger)

	d := DefaultLimits()
	assert.Equal(t, uint64(512*1024*1024), d.MemoryBytes)
	assert.Equal(t, uint64(60), d.CPUSeconds)
}

func TestRunTool_BackgroundChildHoldsOutput(t *testing.T) {
	bin := testutil.NewFakeBin(t)
	bin.Script("q", "(sleep 5) &\necho answer\nexit 0")

	r := NewRunner(DefaultLimits(), nil)
	start := time.Now()
	out, err := r.RunTool(context.Background(), spec("q", "q", "{prompt}"), "hi")
	require.NoError(t, err)
	assert.Equal(t, "answer\n", out)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncateForLog("short", 10))
	assert.Equal(t, "ab... [truncated]", truncateForLog("abcdef", 2))

	// "é" is two bytes; cutting inside it backs off to the rune start.
	out := truncateForLog("héllo", 2)
	assert.Equal(t, "h... [truncated]", out)
	assert.True(t, utf8.ValidString(out))

	out = truncateForLog(strings.Repeat("日本", 400), 1000)
	assert.True(t, utf8.ValidString(out))
}
