package command

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/danmuck/rosterctl/internal/protocol/wire"
	"github.com/danmuck/rosterctl/internal/roster"
)

// ScriptRunner is the single capability the execute descriptor needs from
// the script controller.
type ScriptRunner interface {
	EnterScript(path string) error
}

// RecordReader collects one roster record from the current input source.
type RecordReader interface {
	ReadPerson() (roster.Person, error)
}

// Deps carries the collaborators concrete descriptors close over.
type Deps struct {
	Scripts ScriptRunner
	Reader  RecordReader
}

// RegisterAll installs every rosterctl command into the registry.
func RegisterAll(r *Registry, deps Deps) error {
	descriptors := []*Descriptor{
		ExitDescriptor(),
		ExecuteDescriptor(deps.Scripts),
		remoteNoArg("help", "list commands known to the server"),
		remoteNoArg("info", "collection metadata"),
		remoteNoArg("show", "print every record"),
		remoteNoArg("clear", "remove every record"),
		remoteNoArg("shuffle", "shuffle the collection"),
		remoteNoArg("group", "count records grouped by height"),
		remoteNoArg("print_birthdays", "print all birthdays"),
		AddDescriptor("add", "add a record", deps.Reader),
		AddDescriptor("add_if_max", "add a record if it exceeds the current maximum", deps.Reader),
		AddDescriptor("add_if_min", "add a record if it is below the current minimum", deps.Reader),
		UpdateDescriptor(deps.Reader),
		RemoveDescriptor(),
		CountByBirthdayDescriptor(),
	}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// ExitDescriptor terminates the session. No remote round-trip: the
// dispatcher flushes the connection on its way out.
func ExitDescriptor() *Descriptor {
	return &Descriptor{
		Name:       "exit",
		Usage:      "exit",
		Summary:    "end the session",
		Capability: LocalOnly,
		Parse: func(args []string) (Invocation, error) {
			if len(args) != 0 {
				return Invocation{}, fmt.Errorf("%w: exit takes no arguments", ErrArgumentCount)
			}
			return Invocation{Run: func() (Outcome, error) {
				return Outcome{Quit: true}, nil
			}}, nil
		},
	}
}

// ExecuteDescriptor switches input to a script file. Path existence is
// checked by the controller at execution, not during parse.
func ExecuteDescriptor(scripts ScriptRunner) *Descriptor {
	return &Descriptor{
		Name:       "execute",
		Usage:      "execute <path>",
		Summary:    "run commands from a script file",
		Capability: LocalOnly,
		Parse: func(args []string) (Invocation, error) {
			if len(args) != 1 {
				return Invocation{}, fmt.Errorf("%w: execute takes exactly one path", ErrArgumentCount)
			}
			path := args[0]
			return Invocation{Run: func() (Outcome, error) {
				return Outcome{}, scripts.EnterScript(path)
			}}, nil
		},
	}
}

// AddDescriptor covers add, add_if_max, and add_if_min: no argument
// tokens, one record read from the current source.
func AddDescriptor(name, summary string, reader RecordReader) *Descriptor {
	return &Descriptor{
		Name:       name,
		Usage:      name,
		Summary:    summary,
		Capability: RemoteForwarded,
		Parse: func(args []string) (Invocation, error) {
			if len(args) != 0 {
				return Invocation{}, fmt.Errorf("%w: %s takes no arguments", ErrArgumentCount, name)
			}
			record, err := readRecord(reader)
			if err != nil {
				return Invocation{}, err
			}
			return Invocation{Request: wire.CommandRequest{Command: name, Record: record}}, nil
		},
	}
}

// UpdateDescriptor replaces the record with the given id.
func UpdateDescriptor(reader RecordReader) *Descriptor {
	return &Descriptor{
		Name:       "update",
		Usage:      "update <id>",
		Summary:    "replace the record with the given id",
		Capability: RemoteForwarded,
		Parse: func(args []string) (Invocation, error) {
			if len(args) != 1 {
				return Invocation{}, fmt.Errorf("%w: update takes exactly one id", ErrArgumentCount)
			}
			id, err := parseID(args[0])
			if err != nil {
				return Invocation{}, err
			}
			record, err := readRecord(reader)
			if err != nil {
				return Invocation{}, err
			}
			return Invocation{Request: wire.CommandRequest{
				Command: "update",
				Args:    []string{strconv.FormatInt(id, 10)},
				Record:  record,
			}}, nil
		},
	}
}

// RemoveDescriptor deletes the record with the given id.
func RemoveDescriptor() *Descriptor {
	return &Descriptor{
		Name:       "remove",
		Usage:      "remove <id>",
		Summary:    "delete the record with the given id",
		Capability: RemoteForwarded,
		Parse: func(args []string) (Invocation, error) {
			if len(args) != 1 {
				return Invocation{}, fmt.Errorf("%w: remove takes exactly one id", ErrArgumentCount)
			}
			id, err := parseID(args[0])
			if err != nil {
				return Invocation{}, err
			}
			return Invocation{Request: wire.CommandRequest{
				Command: "remove",
				Args:    []string{strconv.FormatInt(id, 10)},
			}}, nil
		},
	}
}

// CountByBirthdayDescriptor counts records born on the given date.
func CountByBirthdayDescriptor() *Descriptor {
	return &Descriptor{
		Name:       "count_by_birthday",
		Usage:      "count_by_birthday <YYYY-MM-DD>",
		Summary:    "count records born on the given date",
		Capability: RemoteForwarded,
		Parse: func(args []string) (Invocation, error) {
			if len(args) != 1 {
				return Invocation{}, fmt.Errorf("%w: count_by_birthday takes exactly one date", ErrArgumentCount)
			}
			if _, err := time.Parse(roster.BirthdayLayout, args[0]); err != nil {
				return Invocation{}, fmt.Errorf("%w: date must be %s", ErrArgumentValue, roster.BirthdayLayout)
			}
			return Invocation{Request: wire.CommandRequest{
				Command: "count_by_birthday",
				Args:    []string{args[0]},
			}}, nil
		},
	}
}

func remoteNoArg(name, summary string) *Descriptor {
	return &Descriptor{
		Name:       name,
		Usage:      name,
		Summary:    summary,
		Capability: RemoteForwarded,
		Parse: func(args []string) (Invocation, error) {
			if len(args) != 0 {
				return Invocation{}, fmt.Errorf("%w: %s takes no arguments", ErrArgumentCount, name)
			}
			return Invocation{Request: wire.CommandRequest{Command: name}}, nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", ErrArgumentValue)
	}
	return id, nil
}

func readRecord(reader RecordReader) ([]byte, error) {
	person, err := reader.ReadPerson()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgumentValue, err)
	}
	payload, err := json.Marshal(person)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgumentValue, err)
	}
	return payload, nil
}
