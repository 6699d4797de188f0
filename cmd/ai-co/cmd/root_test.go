package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/clip"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/config"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/testutil"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/tui"
)

const testConfig = `
[tools.q]
name = "Amazon Q"
command = "q"
args = ["chat", "--no-interactive", "{prompt}"]
description = "AWS AI assistant"

[tools.gemini]
name = "Gemini"
command = "gemini"
args = ["-p", "{prompt}"]
description = "Google Gemini CLI"

[tools.claude]
name = "Claude"
command = "claude"
args = ["-p", "{prompt}"]
description = "Anthropic Claude CLI"

[tools.ollama]
name = "Ollama"
command = "ollama"
args = ["run", "llama3.2", "{prompt}"]
description = "Local models"
`

type fakeCopier struct {
	copied []string
	result clip.Result
	err    error
}

func (f *fakeCopier) Copy(text string) (clip.Result, error) {
	f.copied = append(f.copied, text)
	return f.result, f.err
}

// setupEnv isolates HOME, writes the test registry and installs fake tools.
func setupEnv(t *testing.T) (configPath string, bin *testutil.FakeBin) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	bin = testutil.NewFakeBin(t)
	configPath = testutil.TempFile(t, t.TempDir(), "config.toml", testConfig)
	return configPath, bin
}

func execute(t *testing.T, copier Copier, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	if copier == nil {
		copier = &fakeCopier{}
	}
	root := newRootCmd(&rootOptions{loader: config.NewLoader(), clipboard: copier})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func installSolvers(bin *testutil.FakeBin) {
	bin.Echo("q", "Four.")
	bin.Echo("gemini", "2 + 2 = 4")
	bin.Script("claude", `printf '\033[32m  The answer is 4.\033[0m\n\n'`)
}

func TestRoot_FullRun(t *testing.T) {
	configPath, bin := setupEnv(t)
	installSolvers(bin)

	stdout, stderr, err := execute(t, nil,
		"--config", configPath, "--no-color",
		"-s", "q,gemini", "-c", "claude", "-p", "What is 2+2?")
	require.NoError(t, err)

	assert.Equal(t, "The answer is 4.\n", stdout)
	assert.Contains(t, stderr, "🤖 Running 2 solver(s)... ✅✅")
	assert.Contains(t, stderr, "🧠 Getting consensus... ✅")
}

func TestRoot_MissingArgumentsPrintsUsage(t *testing.T) {
	configPath, _ := setupEnv(t)

	stdout, _, err := execute(t, nil, "--config", configPath, "-s", "q,gemini")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Available AI Tools:")
	assert.Contains(t, stdout, "• claude       - Claude: Anthropic Claude CLI\n")
	assert.Contains(t, stdout, "Examples:")
}

func TestRoot_ConfigNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := execute(t, nil, "--config", filepath.Join(t.TempDir(), "missing.toml"),
		"-s", "q", "-c", "claude", "-p", "hi")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindConfig))

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Contains(t, buf.String(), "Error: configuration error")
	assert.Contains(t, buf.String(), "To fix this:")
	assert.Contains(t, buf.String(), "ai-co init")
}

func TestRoot_UnknownTool(t *testing.T) {
	configPath, bin := setupEnv(t)
	installSolvers(bin)

	_, _, err := execute(t, nil, "--config", configPath,
		"-s", "q,gemni", "-c", "claude", "-p", "hi")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindToolNotFound))

	var buf bytes.Buffer
	printError(&buf, err)
	assert.NotContains(t, buf.String(), "To fix this:")
}

func TestRoot_SkipsUnavailableTools(t *testing.T) {
	configPath, bin := setupEnv(t)
	installSolvers(bin)

	stdout, stderr, err := execute(t, nil, "--config", configPath, "--no-color",
		"-s", "q,ollama", "-c", "claude", "-p", "hi")
	require.NoError(t, err)

	assert.Equal(t, "The answer is 4.\n", stdout)
	assert.Contains(t, stderr, "❌ Unavailable tools: ollama (skipping)")
	assert.Contains(t, stderr, "🤖 Running 1 solver(s)...")
}

func TestRoot_AllSolversFailed(t *testing.T) {
	configPath, bin := setupEnv(t)
	bin.Fail("q", "boom", "1")
	bin.Fail("gemini", "Invalid API key", "1")
	bin.Echo("claude", "unused")

	stdout, _, err := execute(t, nil, "--config", configPath,
		"-s", "q,gemini", "-c", "claude", "-p", "hi")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindAllSolversFailed))
	assert.Empty(t, stdout)
}

func TestRoot_ConsensusFailureClosesStatusLine(t *testing.T) {
	configPath, bin := setupEnv(t)
	bin.Echo("q", "Four.")
	bin.Echo("gemini", "4")
	bin.Fail("claude", "crashed", "2")

	_, stderr, err := execute(t, nil, "--config", configPath, "--no-color",
		"-s", "q,gemini", "-c", "claude", "-p", "hi")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindExecution))
	assert.Contains(t, stderr, "🧠 Getting consensus... ❌\n")
}

func TestRoot_QuietFlag(t *testing.T) {
	configPath, bin := setupEnv(t)
	installSolvers(bin)

	stdout, stderr, err := execute(t, nil, "--config", configPath, "--quiet",
		"-s", "q,gemini", "-c", "claude", "-p", "hi")
	require.NoError(t, err)

	assert.Equal(t, "The answer is 4.\n", stdout)
	assert.NotContains(t, stderr, "Running")
}

func TestRoot_QuietFromEnvironment(t *testing.T) {
	configPath, bin := setupEnv(t)
	installSolvers(bin)
	t.Setenv("AICO_OUTPUT_QUIET", "true")

	_, stderr, err := execute(t, nil, "--config", configPath,
		"-s", "q,gemini", "-c", "claude", "-p", "hi")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "Running")
}

func TestRoot_Copy(t *testing.T) {
	configPath, bin := setupEnv(t)
	installSolvers(bin)
	copier := &fakeCopier{result: clip.Result{Method: clip.MethodFile, FilePath: "/tmp/answer.txt"}}

	_, stderr, err := execute(t, copier, "--config", configPath, "--copy",
		"-s", "q,gemini", "-c", "claude", "-p", "hi")
	require.NoError(t, err)

	assert.Equal(t, []string{"The answer is 4."}, copier.copied)
	assert.Contains(t, stderr, "📋 Saved to /tmp/answer.txt")
}

func TestRoot_CopyFailureIsNotFatal(t *testing.T) {
	configPath, bin := setupEnv(t)
	installSolvers(bin)
	copier := &fakeCopier{err: testutil.ErrTest}

	stdout, _, err := execute(t, copier, "--config", configPath, "--copy",
		"-s", "q,gemini", "-c", "claude", "-p", "hi")
	require.NoError(t, err)
	assert.Equal(t, "The answer is 4.\n", stdout)
}

func TestRoot_RenderMarkdown(t *testing.T) {
	configPath, bin := setupEnv(t)
	bin.Echo("q", "Four.")
	bin.Echo("gemini", "4")
	bin.Echo("claude", "# Result\n\nThe answer is 4.")

	stdout, _, err := execute(t, nil, "--config", configPath, "--render", "--no-color",
		"-s", "q,gemini", "-c", "claude", "-p", "hi")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Result")
	assert.Contains(t, stdout, "The answer is 4.")
}

func TestRoot_InvalidSettings(t *testing.T) {
	configPath, bin := setupEnv(t)
	installSolvers(bin)

	_, _, err := execute(t, nil, "--config", configPath, "--log-level", "loud",
		"-s", "q", "-c", "claude", "-p", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfig(core.CodeInvalidSettings, ""))
}

func TestRoot_LogFile(t *testing.T) {
	configPath, bin := setupEnv(t)
	installSolvers(bin)
	logPath := filepath.Join(t.TempDir(), "ai-co.log")
	t.Setenv("AICO_LOG_FILE", logPath)
	t.Setenv("AICO_LOG_LEVEL", "info")

	_, _, err := execute(t, nil, "--config", configPath,
		"-s", "q,gemini", "-c", "claude", "-p", "hi")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run completed")
	assert.Contains(t, string(data), "run_id=")
}

func newTestStatus(buf *bytes.Buffer) *tui.StatusPrinter {
	return tui.NewStatusPrinter(buf, true)
}
