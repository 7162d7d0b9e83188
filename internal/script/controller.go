package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

var (
	ErrScriptNotFound  = errors.New("script: script not found or unreadable")
	ErrRecursiveScript = errors.New("script: recursive script inclusion")
)

// frame is one active script: its canonical path and its line source.
// The file handle is held open until the frame is popped.
type frame struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
}

// Controller is the script-mode state machine: a stack of active script
// frames over a base interactive source. Scripted mode is derived from
// stack emptiness, never stored separately. Push and pop are the only
// mutation entry points, so the no-duplicate-path invariant is enforced
// in exactly one place.
type Controller struct {
	base  *bufio.Scanner
	stack []frame
}

// NewController wraps the interactive input source, normally os.Stdin.
func NewController(interactive io.Reader) *Controller {
	return &Controller{base: bufio.NewScanner(interactive)}
}

// Scripted reports whether any script frame is active.
func (c *Controller) Scripted() bool {
	return len(c.stack) > 0
}

// Depth returns the number of active script frames.
func (c *Controller) Depth() int {
	return len(c.stack)
}

// CurrentPath returns the canonical path of the innermost active script.
func (c *Controller) CurrentPath() (string, bool) {
	if len(c.stack) == 0 {
		return "", false
	}
	return c.stack[len(c.stack)-1].path, true
}

// ReadLine reads one line from the current source. ok=false means the
// current source is exhausted; the caller decides whether that pops a
// frame or ends the session.
func (c *Controller) ReadLine() (string, bool) {
	s := c.current()
	if !s.Scan() {
		return "", false
	}
	return s.Text(), true
}

// EnterScript canonicalizes path, rejects re-inclusion of any active
// script, and pushes a new frame whose source becomes current. On any
// failure the stack is untouched.
func (c *Controller) EnterScript(path string) error {
	canonical, err := canonicalize(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, path)
	}
	for _, f := range c.stack {
		if f.path == canonical {
			return fmt.Errorf("%w: %s", ErrRecursiveScript, canonical)
		}
	}
	file, err := os.Open(canonical)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, path)
	}
	c.stack = append(c.stack, frame{
		path:    canonical,
		file:    file,
		scanner: bufio.NewScanner(file),
	})
	log.Debug().Str("path", canonical).Int("depth", len(c.stack)).Msg("script enter")
	return nil
}

// ExitScript pops the innermost frame and rebinds the current source to
// the previous frame, or to the interactive source when the stack empties.
// Calling it with no active frame is a programming-contract violation.
func (c *Controller) ExitScript() {
	if len(c.stack) == 0 {
		panic("script: exit with empty stack")
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	_ = top.file.Close()
	log.Debug().Str("path", top.path).Int("depth", len(c.stack)).Msg("script exit")
}

// Reset unconditionally drops every active frame and returns to the
// interactive source. Used for top-level recovery.
func (c *Controller) Reset() {
	for i := len(c.stack) - 1; i >= 0; i-- {
		_ = c.stack[i].file.Close()
	}
	c.stack = nil
}

func (c *Controller) current() *bufio.Scanner {
	if len(c.stack) > 0 {
		return c.stack[len(c.stack)-1].scanner
	}
	return c.base
}

// canonicalize resolves path to a comparison-stable absolute form.
// Symlinks are resolved so the same file cannot re-enter under an alias.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}
