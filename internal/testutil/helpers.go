package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// ErrTest is a generic test error.
var ErrTest = errors.New("test error")

// TempFile creates a temporary file with content.
func TempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

// FakeBin is a temporary directory of executable shell scripts placed first
// on PATH, standing in for the real AI CLIs.
type FakeBin struct {
	Dir string
	t   *testing.T
}

// NewFakeBin creates the directory and prepends it to PATH for the rest of
// the test. Tests using it cannot run in parallel.
func NewFakeBin(t *testing.T) *FakeBin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	dir := t.TempDir()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return &FakeBin{Dir: dir, t: t}
}

// Script installs an executable named name whose body is the given shell
// script. The positional arguments are the tool's arguments.
func (b *FakeBin) Script(name, body string) string {
	b.t.Helper()
	path := filepath.Join(b.Dir, name)
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		b.t.Fatalf("writing fake tool %s: %v", name, err)
	}
	return path
}

// Echo installs a tool that prints output and exits 0.
func (b *FakeBin) Echo(name, output string) string {
	b.t.Helper()
	return b.Script(name, "printf '%s' '"+shellQuote(output)+"'")
}

// Sleep installs a tool that sleeps far beyond any test timeout.
func (b *FakeBin) Sleep(name string) string {
	b.t.Helper()
	return b.Script(name, "sleep 30")
}

// Fail installs a tool that prints stderr and exits with code.
func (b *FakeBin) Fail(name, stderr string, code string) string {
	b.t.Helper()
	return b.Script(name, "printf '%s' '"+shellQuote(stderr)+"' >&2\nexit "+code)
}

func shellQuote(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}
