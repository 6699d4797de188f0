package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	args := []string{"chat", PromptPlaceholder}
	registry := NewRegistry(map[string]ToolSpec{
		"q":      {Name: "Amazon Q", Command: "q", Args: args, Description: "AWS"},
		"claude": {Name: "Claude", Command: "claude", Description: "Anthropic"},
	})

	assert.Equal(t, 2, registry.Len())
	assert.Equal(t, []string{"claude", "q"}, registry.Keys())
	assert.True(t, registry.Has("q"))
	assert.False(t, registry.Has("gemini"))

	spec, ok := registry.Get("q")
	require.True(t, ok)
	assert.Equal(t, "q", spec.Key)
	assert.Equal(t, args, spec.Args)

	// Neither the input slice nor returned copies alias the registry.
	args[0] = "mutated"
	spec.Args[1] = "mutated"
	again, _ := registry.Get("q")
	assert.Equal(t, []string{"chat", PromptPlaceholder}, again.Args)

	tools := registry.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "claude", tools[0].Key)

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Nil(t *testing.T) {
	t.Parallel()

	var registry *Registry
	assert.Equal(t, 0, registry.Len())
	assert.Nil(t, registry.Keys())
	assert.False(t, registry.Has("q"))
	_, ok := registry.Get("q")
	assert.False(t, ok)
}

func TestAllowedCommands(t *testing.T) {
	t.Parallel()

	cmds := AllowedCommands()
	assert.Equal(t, []string{"q", "gemini", "claude", "openai", "ollama", "mistral"}, cmds)
	cmds[0] = "rm"
	assert.False(t, IsAllowedCommand("rm"))
	assert.True(t, IsAllowedCommand("q"))

	phrases := AuthErrorPatterns()
	phrases[0] = "changed"
	assert.Equal(t, "invalid api key", AuthErrorPatterns()[0])
}
