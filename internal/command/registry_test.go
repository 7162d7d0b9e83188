package command

import (
	"errors"
	"testing"

	"github.com/danmuck/rosterctl/internal/testutil/testlog"
)

func stubDescriptor(name string) *Descriptor {
	return &Descriptor{
		Name:       name,
		Capability: RemoteForwarded,
		Parse: func(args []string) (Invocation, error) {
			return Invocation{}, nil
		},
	}
}

func TestResolveIsCaseAndWhitespaceInsensitive(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if err := r.Register(stubDescriptor("add")); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, spelling := range []string{"ADD ", "add", " Add"} {
		d, args, err := r.Resolve([]string{spelling, "x"})
		if err != nil {
			t.Fatalf("resolve %q: %v", spelling, err)
		}
		if d.Name != "add" {
			t.Fatalf("resolve %q: got %q", spelling, d.Name)
		}
		if len(args) != 1 || args[0] != "x" {
			t.Fatalf("resolve %q: args=%v", spelling, args)
		}
	}
}

func TestResolveEmptyInputIsNoCommand(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if _, _, err := r.Resolve(nil); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand for nil tokens, got %v", err)
	}
	if _, _, err := r.Resolve([]string{"   "}); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand for blank token, got %v", err)
	}
}

func TestResolveUnknownName(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if _, _, err := r.Resolve([]string{"frobnicate"}); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestRegisterRejectsDuplicatesAndNil(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if err := r.Register(stubDescriptor("Show")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(stubDescriptor("show ")); !errors.Is(err, ErrCommandExists) {
		t.Fatalf("expected ErrCommandExists, got %v", err)
	}
	if err := r.Register(nil); !errors.Is(err, ErrCommandNil) {
		t.Fatalf("expected ErrCommandNil, got %v", err)
	}
}

func TestListSortedByName(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	for _, name := range []string{"show", "add", "exit"} {
		if err := r.Register(stubDescriptor(name)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	list := r.List()
	want := []string{"add", "exit", "show"}
	for i, d := range list {
		if d.Name != want[i] {
			t.Fatalf("list not sorted: got %v", list)
		}
	}
}
