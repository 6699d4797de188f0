package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Logger wraps slog.Logger with secret redaction.
type Logger struct {
	*slog.Logger
	sanitizer *Sanitizer
	closer    io.Closer
}

// Config configures the logger.
type Config struct {
	Level   string
	Format  string // auto, text, json
	File    string // optional; overrides Output
	Output  io.Writer
	NoColor bool
	Redact  []string // extra secret patterns
}

// DefaultConfig returns the default logger configuration. Logs go to stderr
// so stdout only carries the consensus answer.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "auto",
		Output: os.Stderr,
	}
}

// New creates a new logger. When cfg.File is set the file is opened for
// appending and released by Close.
func New(cfg Config) (*Logger, error) {
	var closer io.Closer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cfg.Output = f
		closer = f
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level := ParseLevel(cfg.Level)
	sanitizer := NewSanitizer()
	for _, pattern := range cfg.Redact {
		if err := sanitizer.AddPattern(pattern); err != nil {
			if closer != nil {
				_ = closer.Close()
			}
			return nil, fmt.Errorf("invalid redact pattern %q: %w", pattern, err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(cfg.Output, opts)
	case "text":
		handler = slog.NewTextHandler(cfg.Output, opts)
	default: // auto
		if isTerminal(cfg.Output) {
			handler = NewPrettyHandler(cfg.Output, level, !cfg.NoColor)
		} else {
			handler = slog.NewTextHandler(cfg.Output, opts)
		}
	}

	return &Logger{
		Logger:    slog.New(NewSanitizingHandler(handler, sanitizer)),
		sanitizer: sanitizer,
		closer:    closer,
	}, nil
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sanitizer: NewSanitizer(),
	}
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// WithRun returns a logger tagged with a run id.
func (l *Logger) WithRun(runID string) *Logger {
	return l.With("run_id", runID)
}

// WithTool returns a logger tagged with a tool key.
func (l *Logger) WithTool(tool string) *Logger {
	return l.With("tool", tool)
}

// With returns a logger with custom fields.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		sanitizer: l.sanitizer,
	}
}

// Sanitize redacts secrets from input using the logger's sanitizer.
func (l *Logger) Sanitize(input string) string {
	return l.sanitizer.Sanitize(input)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
