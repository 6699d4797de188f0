package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	t.Parallel()

	s, err := NewLoader().Load(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().Log, s.Log)
	assert.Nil(t, s.Log.Redact)
	assert.True(t, s.Diagnostics.Preflight)
	assert.False(t, s.Output.Render)
}

func TestLoader_FromDocument(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("config.toml", []byte(validTOML+`
[output]
render = true

[diagnostics]
preflight = false
`))
	require.NoError(t, err)

	s, err := NewLoader().Load(doc)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.Log.Level)
	assert.True(t, s.Output.Render)
	assert.False(t, s.Diagnostics.Preflight)
}

func TestLoader_YAMLDocument(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument("c.yaml", []byte(validYAML+"log:\n  format: json\n"))
	require.NoError(t, err)

	s, err := NewLoader().Load(doc)
	require.NoError(t, err)
	assert.Equal(t, "json", s.Log.Format)
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("AICO_LOG_LEVEL", "warn")
	t.Setenv("AICO_OUTPUT_COPY", "true")

	doc, err := ParseDocument("config.toml", []byte(validTOML))
	require.NoError(t, err)

	s, err := NewLoader().Load(doc)
	require.NoError(t, err)
	assert.Equal(t, "warn", s.Log.Level)
	assert.True(t, s.Output.Copy)
}

func TestLoader_FlagOverride(t *testing.T) {
	t.Parallel()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-format", "", "")
	require.NoError(t, flags.Parse([]string{"--log-format=text"}))

	l := NewLoader()
	require.NoError(t, l.Viper().BindPFlag("log.format", flags.Lookup("log-format")))

	s, err := l.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "text", s.Log.Format)
}

func TestLoader_Invalid(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Path:   "config.toml",
		Format: "toml",
		Raw:    []byte("[log]\nlevel = \"loud\"\nformat = \"xml\"\nredact = [\"(\"]\n"),
	}

	_, err := NewLoader().Load(doc)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Equal(t, "log.level", verrs[0].Field)
	assert.Equal(t, "log.format", verrs[1].Field)
	assert.Equal(t, "log.redact[0]", verrs[2].Field)
}

func TestValidator_Valid(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	v := NewValidator()
	assert.NoError(t, v.Validate(&s))
	assert.False(t, v.Errors().HasErrors())
}
