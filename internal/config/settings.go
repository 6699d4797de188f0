package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. AICO_LOG_LEVEL.
const EnvPrefix = "AICO"

// Settings holds the ambient configuration read alongside the registry.
type Settings struct {
	Log         LogSettings         `mapstructure:"log"`
	Output      OutputSettings      `mapstructure:"output"`
	Diagnostics DiagnosticsSettings `mapstructure:"diagnostics"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string   `mapstructure:"level" toml:"level"`
	Format string   `mapstructure:"format" toml:"format"`
	File   string   `mapstructure:"file" toml:"file,omitempty"`
	Redact []string `mapstructure:"redact" toml:"redact,omitempty"`
}

// OutputSettings configures how the answer is presented.
type OutputSettings struct {
	Render  bool `mapstructure:"render" toml:"render"`
	Copy    bool `mapstructure:"copy" toml:"copy"`
	NoColor bool `mapstructure:"no_color" toml:"no_color"`
	Quiet   bool `mapstructure:"quiet" toml:"quiet"`
}

// DiagnosticsSettings configures the pre-run resource check.
type DiagnosticsSettings struct {
	Preflight bool `mapstructure:"preflight"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Log:         LogSettings{Level: "warn", Format: "auto"},
		Diagnostics: DiagnosticsSettings{Preflight: true},
	}
}

// Loader reads settings. Precedence, highest first: bound flags, AICO_*
// environment variables, the registry document, defaults.
type Loader struct {
	v         *viper.Viper
	envPrefix string
}

// NewLoader creates a loader with its own viper instance.
func NewLoader() *Loader {
	return NewLoaderWithViper(viper.New())
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v, envPrefix: EnvPrefix}
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads settings from doc, which may be nil when no registry document
// was found, and validates them.
func (l *Loader) Load(doc *Document) (*Settings, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if doc != nil {
		l.v.SetConfigType(doc.Format)
		if err := l.v.ReadConfig(bytes.NewReader(doc.Raw)); err != nil {
			return nil, fmt.Errorf("reading settings from %s: %w", doc.Path, err)
		}
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	if err := NewValidator().Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (l *Loader) setDefaults() {
	d := DefaultSettings()
	l.v.SetDefault("log.level", d.Log.Level)
	l.v.SetDefault("log.format", d.Log.Format)
	l.v.SetDefault("log.file", "")
	l.v.SetDefault("output.render", d.Output.Render)
	l.v.SetDefault("output.copy", d.Output.Copy)
	l.v.SetDefault("output.no_color", d.Output.NoColor)
	l.v.SetDefault("output.quiet", d.Output.Quiet)
	l.v.SetDefault("diagnostics.preflight", d.Diagnostics.Preflight)
}
