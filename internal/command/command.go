package command

import (
	"errors"

	"github.com/danmuck/rosterctl/internal/protocol/wire"
)

var (
	ErrNoCommand      = errors.New("command: no command given")
	ErrUnknownCommand = errors.New("command: unknown command")
	ErrCommandExists  = errors.New("command: command already registered")
	ErrCommandNil     = errors.New("command: descriptor is nil")
	ErrArgumentCount  = errors.New("command: wrong number of arguments")
	ErrArgumentValue  = errors.New("command: wrong argument value")
)

// Capability fixes where a command executes. It is decided when the
// descriptor is registered, never probed at runtime.
type Capability int

const (
	// LocalOnly commands run entirely in-process.
	LocalOnly Capability = iota
	// RemoteForwarded commands are serialized and sent to the roster server.
	RemoteForwarded
)

// Outcome is what one executed command hands back to the dispatcher.
// Text may be empty for commands that only cause a state transition.
type Outcome struct {
	Text string
	Quit bool
}

// Invocation is one validated, ready-to-run command. For LocalOnly
// descriptors Run is set; for RemoteForwarded descriptors Request is set.
type Invocation struct {
	Run     func() (Outcome, error)
	Request wire.CommandRequest
}

// ParseFunc validates raw argument tokens (everything after the command
// name) and produces an invocation, or fails with ErrArgumentCount or
// ErrArgumentValue. Parsing a record-bearing command may consume
// additional input lines, but never performs other I/O.
type ParseFunc func(args []string) (Invocation, error)

// Descriptor is one registered command definition. Immutable after
// registration.
type Descriptor struct {
	Name       string
	Usage      string
	Summary    string
	Capability Capability
	Parse      ParseFunc
}
