package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/rosterctl/internal/command"
	"github.com/danmuck/rosterctl/internal/config"
	"github.com/danmuck/rosterctl/internal/dispatch"
	"github.com/danmuck/rosterctl/internal/logging"
	"github.com/danmuck/rosterctl/internal/remote"
	"github.com/danmuck/rosterctl/internal/roster"
	"github.com/danmuck/rosterctl/internal/script"
)

const defaultConfigPath = "rosterctl.toml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the client config file")
	addr := flag.String("addr", "", "roster server address (overrides config)")
	writeDefault := flag.Bool("write-default-config", false, "write a starter config file and exit")
	flag.Parse()

	logging.ConfigureRuntime()

	if *writeDefault {
		if err := config.WriteDefault(*configPath); err != nil {
			fail(err)
		}
		fmt.Printf("wrote %s\n", *configPath)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fail(err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	if err := run(cfg); err != nil {
		fail(err)
	}
}

// loadConfig falls back to built-in defaults when the default config file
// is simply absent; an explicitly named file must exist.
func loadConfig(path string) (config.ClientConfig, error) {
	cfg, err := config.LoadClientConfig(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
		return config.ClientConfig{}.WithDefaults(), nil
	}
	return config.ClientConfig{}, err
}

func run(cfg config.ClientConfig) error {
	scripts := script.NewController(os.Stdin)
	sink := &dispatch.ConsoleSink{
		Out:      os.Stdout,
		ErrOut:   os.Stderr,
		Scripted: scripts.Scripted,
	}
	reader := roster.NewReader(scripts, func(text string) {
		sink.Show(text, true, false)
	}, cfg.FieldAttempts)

	registry := command.NewRegistry()
	if err := command.RegisterAll(registry, command.Deps{Scripts: scripts, Reader: reader}); err != nil {
		return err
	}

	client, err := remote.NewClient(cfg.RemoteConfig())
	if err != nil {
		return err
	}

	return dispatch.New(dispatch.Params{
		Registry: registry,
		Scripts:  scripts,
		Boundary: client,
		Sink:     sink,
		Prompt:   cfg.Prompt,
	}).Run()
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "rosterctl: %v\n", err)
	os.Exit(1)
}
