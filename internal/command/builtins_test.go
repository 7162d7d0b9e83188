package command

import (
	"errors"
	"testing"

	"github.com/danmuck/rosterctl/internal/roster"
	"github.com/danmuck/rosterctl/internal/testutil/testlog"
)

type fakeScripts struct {
	entered []string
	err     error
}

func (f *fakeScripts) EnterScript(path string) error {
	if f.err != nil {
		return f.err
	}
	f.entered = append(f.entered, path)
	return nil
}

type fakeReader struct {
	person roster.Person
	err    error
}

func (f fakeReader) ReadPerson() (roster.Person, error) {
	return f.person, f.err
}

func testDeps() Deps {
	return Deps{
		Scripts: &fakeScripts{},
		Reader: fakeReader{person: roster.Person{
			Name:        "Ada",
			Coordinates: roster.Coordinates{X: 1, Y: 2},
			Height:      1.63,
			EyeColor:    roster.EyeBrown,
			Nationality: roster.CountryFrance,
		}},
	}
}

func TestRegisterAllInstallsEveryCommand(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if err := RegisterAll(r, testDeps()); err != nil {
		t.Fatalf("register all: %v", err)
	}
	for _, name := range []string{
		"help", "info", "show", "add", "update", "remove", "clear",
		"add_if_max", "add_if_min", "shuffle", "group",
		"count_by_birthday", "print_birthdays", "execute", "exit",
	} {
		if _, _, err := r.Resolve([]string{name}); err != nil {
			t.Fatalf("command %s missing: %v", name, err)
		}
	}
}

func TestExitParseAndRun(t *testing.T) {
	testlog.Start(t)
	d := ExitDescriptor()
	if d.Capability != LocalOnly {
		t.Fatalf("exit must be LocalOnly")
	}
	if _, err := d.Parse([]string{"now"}); !errors.Is(err, ErrArgumentCount) {
		t.Fatalf("expected ErrArgumentCount, got %v", err)
	}
	inv, err := d.Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := inv.Run()
	if err != nil || !out.Quit {
		t.Fatalf("exit outcome: %+v err=%v", out, err)
	}
}

func TestExecuteForwardsPathToController(t *testing.T) {
	testlog.Start(t)
	scripts := &fakeScripts{}
	d := ExecuteDescriptor(scripts)
	if _, err := d.Parse(nil); !errors.Is(err, ErrArgumentCount) {
		t.Fatalf("expected ErrArgumentCount, got %v", err)
	}
	inv, err := d.Parse([]string{"setup.txt"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := inv.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(scripts.entered) != 1 || scripts.entered[0] != "setup.txt" {
		t.Fatalf("script not entered: %v", scripts.entered)
	}
}

func TestRemoveValidatesID(t *testing.T) {
	testlog.Start(t)
	d := RemoveDescriptor()
	if _, err := d.Parse(nil); !errors.Is(err, ErrArgumentCount) {
		t.Fatalf("expected ErrArgumentCount, got %v", err)
	}
	for _, bad := range []string{"zero", "0", "-4", "1.5"} {
		if _, err := d.Parse([]string{bad}); !errors.Is(err, ErrArgumentValue) {
			t.Fatalf("id %q: expected ErrArgumentValue, got %v", bad, err)
		}
	}
	inv, err := d.Parse([]string{"42"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if inv.Request.Command != "remove" || inv.Request.Args[0] != "42" {
		t.Fatalf("unexpected request: %+v", inv.Request)
	}
}

func TestCountByBirthdayValidatesDate(t *testing.T) {
	testlog.Start(t)
	d := CountByBirthdayDescriptor()
	if _, err := d.Parse([]string{"12/10/1815"}); !errors.Is(err, ErrArgumentValue) {
		t.Fatalf("expected ErrArgumentValue, got %v", err)
	}
	inv, err := d.Parse([]string{"1815-12-10"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if inv.Request.Args[0] != "1815-12-10" {
		t.Fatalf("unexpected request: %+v", inv.Request)
	}
}

func TestAddCarriesSerializedRecord(t *testing.T) {
	testlog.Start(t)
	deps := testDeps()
	d := AddDescriptor("add", "add a record", deps.Reader)
	inv, err := d.Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if inv.Request.Command != "add" || len(inv.Request.Record) == 0 {
		t.Fatalf("unexpected request: %+v", inv.Request)
	}
}

func TestAddReaderFailureIsArgumentValue(t *testing.T) {
	testlog.Start(t)
	d := AddDescriptor("add", "add a record", fakeReader{err: roster.ErrAttemptsExpired})
	if _, err := d.Parse(nil); !errors.Is(err, ErrArgumentValue) {
		t.Fatalf("expected ErrArgumentValue, got %v", err)
	}
}
