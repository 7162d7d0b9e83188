package dispatch

import (
	"fmt"
	"io"
	"strings"
)

// Sink presents prompts, results, and errors to the user. Noise text is
// suppressed while a script is running; errors never are.
type Sink interface {
	Show(text string, suppressWhenScripted, isError bool)
}

// ConsoleSink writes to the attached streams. The scripted view comes from
// the script controller so suppression always reflects the live mode.
type ConsoleSink struct {
	Out      io.Writer
	ErrOut   io.Writer
	Scripted func() bool
}

// Show writes text, routing errors to ErrOut. Prompts end in a space and
// stay on the open line; everything else gets its own line.
func (s *ConsoleSink) Show(text string, suppressWhenScripted, isError bool) {
	if suppressWhenScripted && s.Scripted != nil && s.Scripted() {
		return
	}
	w := s.Out
	if isError {
		w = s.ErrOut
	}
	if strings.HasSuffix(text, " ") || strings.HasSuffix(text, "\n") {
		fmt.Fprint(w, text)
		return
	}
	fmt.Fprintln(w, text)
}
