package dispatch

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/rosterctl/internal/command"
	"github.com/danmuck/rosterctl/internal/protocol/wire"
	"github.com/danmuck/rosterctl/internal/remote"
	"github.com/danmuck/rosterctl/internal/script"
)

const (
	Prompt = "$ "

	welcomeNotice  = `Enter "help" to see available commands. Enter "exit" or Ctrl-D to end the session.`
	shutdownNotice = "end of input, closing the session"
	goodbyeNotice  = "session closed"

	msgNoCommand       = "no command, try again"
	msgUnknownCommand  = "no such command, try again"
	msgWrongArguments  = "wrong arguments, try again"
	msgScriptNotFound  = "that script doesn't exist or can't be read"
	msgRecursiveScript = "recursive script detected, not executing"
	msgConnLostScript  = "connection to the roster server lost, aborting script"
	msgConnLost        = "couldn't reach the roster server, the session will close"
)

// Boundary forwards validated commands to the roster server. It is the
// only path a RemoteForwarded command takes.
type Boundary interface {
	Start() error
	Send(req wire.CommandRequest, scripted bool) (string, error)
	Close() error
}

// Params wires one dispatcher.
type Params struct {
	Registry *command.Registry
	Scripts  *script.Controller
	Boundary Boundary
	Sink     Sink
	Prompt   string
}

// Dispatcher runs the read-validate-execute loop over the script
// controller's current source until top-level input is exhausted, the exit
// command runs, or the connection is lost.
type Dispatcher struct {
	registry *command.Registry
	scripts  *script.Controller
	boundary Boundary
	sink     Sink
	prompt   string
}

func New(p Params) *Dispatcher {
	if p.Prompt == "" {
		p.Prompt = Prompt
	}
	return &Dispatcher{
		registry: p.Registry,
		scripts:  p.Scripts,
		boundary: p.Boundary,
		sink:     p.Sink,
		prompt:   p.Prompt,
	}
}

// Run drives the session. The returned error is nil for every clean
// ending, including an interactive connection loss; only a connection
// failure during a script propagates out.
func (d *Dispatcher) Run() error {
	if err := d.boundary.Start(); err != nil {
		log.Error().Err(err).Msg("connect failed")
		d.sink.Show(msgConnLost, false, true)
		return nil
	}
	defer func() { _ = d.boundary.Close() }()

	d.sink.Show(welcomeNotice, true, false)
	for {
		d.sink.Show(d.prompt, true, false)
		line, ok := d.scripts.ReadLine()
		if !ok {
			if d.scripts.Scripted() {
				d.scripts.ExitScript()
				continue
			}
			d.sink.Show(shutdownNotice, true, false)
			return nil
		}

		outcome, err := d.dispatch(strings.Fields(line))
		if err != nil {
			if errors.Is(err, remote.ErrConnectionFailure) {
				return d.failConnection(err)
			}
			d.report(err)
			continue
		}
		if outcome.Text != "" {
			d.sink.Show(outcome.Text, false, false)
		}
		if outcome.Quit {
			d.sink.Show(goodbyeNotice, true, false)
			return nil
		}
	}
}

// dispatch resolves, validates, and executes one tokenized line.
func (d *Dispatcher) dispatch(tokens []string) (command.Outcome, error) {
	desc, args, err := d.registry.Resolve(tokens)
	if err != nil {
		return command.Outcome{}, err
	}
	inv, err := desc.Parse(args)
	if err != nil {
		return command.Outcome{}, err
	}

	switch desc.Capability {
	case command.LocalOnly:
		return inv.Run()
	default:
		body, err := d.boundary.Send(inv.Request, d.scripts.Scripted())
		if err != nil {
			return command.Outcome{}, err
		}
		return command.Outcome{Text: body}, nil
	}
}

// report surfaces one recoverable error and leaves every piece of state
// untouched; the loop continues with the next line from the same source.
func (d *Dispatcher) report(err error) {
	log.Debug().Err(err).Msg("command rejected")
	var srvErr *remote.ServerError
	switch {
	case errors.Is(err, command.ErrNoCommand):
		// Blank lines in scripts are noise, not faults.
		d.sink.Show(msgNoCommand, true, false)
	case errors.Is(err, command.ErrUnknownCommand):
		d.sink.Show(msgUnknownCommand, false, true)
	case errors.Is(err, command.ErrArgumentCount), errors.Is(err, command.ErrArgumentValue):
		d.sink.Show(msgWrongArguments, false, true)
	case errors.Is(err, script.ErrScriptNotFound):
		d.sink.Show(msgScriptNotFound, false, true)
	case errors.Is(err, script.ErrRecursiveScript):
		d.sink.Show(msgRecursiveScript, false, true)
	case errors.As(err, &srvErr):
		d.sink.Show(srvErr.Body, false, true)
	default:
		d.sink.Show(err.Error(), false, true)
	}
}

// failConnection applies the one mode-dependent error policy: fatal while
// scripted, clean shutdown while interactive.
func (d *Dispatcher) failConnection(err error) error {
	log.Error().Err(err).Bool("scripted", d.scripts.Scripted()).Msg("connection failure")
	if d.scripts.Scripted() {
		d.sink.Show(msgConnLostScript, false, true)
		d.scripts.Reset()
		return err
	}
	d.sink.Show(msgConnLost, false, true)
	return nil
}
