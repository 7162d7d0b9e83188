package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/rosterctl/internal/testutil/testlog"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestScriptedDerivedFromStack(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	a := writeScript(t, dir, "a.txt", "info\n")
	b := writeScript(t, dir, "b.txt", "show\n")

	c := NewController(strings.NewReader(""))
	if c.Scripted() {
		t.Fatalf("fresh controller must be interactive")
	}
	if err := c.EnterScript(a); err != nil {
		t.Fatalf("enter a: %v", err)
	}
	if !c.Scripted() || c.Depth() != 1 {
		t.Fatalf("expected depth 1 scripted, got depth=%d", c.Depth())
	}
	if err := c.EnterScript(b); err != nil {
		t.Fatalf("enter b: %v", err)
	}
	if c.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", c.Depth())
	}
	c.ExitScript()
	c.ExitScript()
	if c.Scripted() || c.Depth() != 0 {
		t.Fatalf("expected interactive after unwinding, got depth=%d", c.Depth())
	}
}

func TestEnterScriptMissingFile(t *testing.T) {
	testlog.Start(t)
	c := NewController(strings.NewReader(""))
	err := c.EnterScript(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, ErrScriptNotFound) {
		t.Fatalf("expected ErrScriptNotFound, got %v", err)
	}
	if c.Scripted() {
		t.Fatalf("failed enter must not change state")
	}
}

func TestEnterScriptRejectsActivePath(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	a := writeScript(t, dir, "a.txt", "info\n")

	c := NewController(strings.NewReader(""))
	if err := c.EnterScript(a); err != nil {
		t.Fatalf("enter a: %v", err)
	}
	// Re-entry through a relative spelling of the same file.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	rel, err := filepath.Rel(wd, a)
	if err != nil {
		rel = a
	}
	if err := c.EnterScript(rel); !errors.Is(err, ErrRecursiveScript) {
		t.Fatalf("expected ErrRecursiveScript, got %v", err)
	}
	if c.Depth() != 1 {
		t.Fatalf("failed enter must not push: depth=%d", c.Depth())
	}
}

func TestReadLineFollowsCurrentSource(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	a := writeScript(t, dir, "a.txt", "from-script\n")

	c := NewController(strings.NewReader("from-interactive\n"))
	if err := c.EnterScript(a); err != nil {
		t.Fatalf("enter a: %v", err)
	}
	line, ok := c.ReadLine()
	if !ok || line != "from-script" {
		t.Fatalf("expected script line, got %q ok=%v", line, ok)
	}
	if _, ok := c.ReadLine(); ok {
		t.Fatalf("script should be exhausted")
	}
	c.ExitScript()
	line, ok = c.ReadLine()
	if !ok || line != "from-interactive" {
		t.Fatalf("expected interactive line after exit, got %q ok=%v", line, ok)
	}
}

func TestResetDropsAllFrames(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	a := writeScript(t, dir, "a.txt", "info\n")
	b := writeScript(t, dir, "b.txt", "show\n")

	c := NewController(strings.NewReader("after-reset\n"))
	if err := c.EnterScript(a); err != nil {
		t.Fatalf("enter a: %v", err)
	}
	if err := c.EnterScript(b); err != nil {
		t.Fatalf("enter b: %v", err)
	}
	c.Reset()
	if c.Scripted() || c.Depth() != 0 {
		t.Fatalf("reset must empty the stack")
	}
	line, ok := c.ReadLine()
	if !ok || line != "after-reset" {
		t.Fatalf("expected interactive source after reset, got %q ok=%v", line, ok)
	}
}

func TestExitScriptEmptyStackPanics(t *testing.T) {
	testlog.Start(t)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty-stack exit")
		}
	}()
	NewController(strings.NewReader("")).ExitScript()
}
