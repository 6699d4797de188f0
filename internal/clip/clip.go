// Package clip copies the consensus answer to the user's clipboard.
package clip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// Method represents the mechanism used to make content copyable.
type Method string

const (
	MethodNative Method = "native" // OS clipboard via github.com/atotto/clipboard
	MethodOSC52  Method = "osc52"  // Terminal clipboard via OSC52 escape sequence
	MethodFile   Method = "file"   // Temp file fallback
)

// Result reports how the text was made available.
type Result struct {
	Method   Method
	FilePath string // only set when Method == MethodFile
}

// Conservative default; terminals can have strict OSC52 limits.
const osc52LimitBytes = 100_000

const tempPattern = "ai-consensus-answer-*.txt"

// Clipboard copies text with the first mechanism that works: the native
// clipboard, then OSC52 on the terminal, then a temp file.
type Clipboard struct {
	native   func(string) error
	terminal io.Writer
	isTTY    func() bool
	tempDir  string
}

// New creates a clipboard that emits OSC52 sequences on stderr.
func New() *Clipboard {
	return &Clipboard{
		native:   atotto.WriteAll,
		terminal: os.Stderr,
		isTTY:    func() bool { return term.IsTerminal(int(os.Stderr.Fd())) },
	}
}

// Copy makes text available to the user.
func (c *Clipboard) Copy(text string) (Result, error) {
	if text == "" {
		return Result{}, errors.New("nothing to copy")
	}
	if c.native != nil && !atotto.Unsupported {
		if err := c.native(text); err == nil {
			return Result{Method: MethodNative}, nil
		}
	}
	if err := c.writeOSC52(text); err == nil {
		return Result{Method: MethodOSC52}, nil
	}

	path, err := c.writeTempFile(text)
	if err != nil {
		return Result{}, fmt.Errorf("copying answer: %w", err)
	}
	return Result{Method: MethodFile, FilePath: path}, nil
}

func (c *Clipboard) writeOSC52(text string) error {
	if c.terminal == nil || c.isTTY == nil || !c.isTTY() {
		return errors.New("no terminal for OSC52")
	}
	if len(text) > osc52LimitBytes {
		return fmt.Errorf("text too large for OSC52 (%d bytes > %d)", len(text), osc52LimitBytes)
	}

	seq := osc52.New(text).Limit(osc52LimitBytes)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if os.Getenv("STY") != "" {
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(c.terminal)
	return err
}

func (c *Clipboard) writeTempFile(text string) (path string, err error) {
	f, err := os.CreateTemp(c.tempDir, tempPattern)
	if err != nil {
		return "", err
	}
	path = f.Name()
	defer func() {
		_ = f.Close()
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if _, err = f.WriteString(text); err != nil {
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}
