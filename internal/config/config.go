package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/rosterctl/internal/remote"
)

// ClientConfig is the rosterctl TOML configuration.
type ClientConfig struct {
	Addr             string    `toml:"addr"`
	Prompt           string    `toml:"prompt"`
	FieldAttempts    int       `toml:"field_attempts"`
	ConnectTimeoutMS int       `toml:"connect_timeout_ms"`
	ReadTimeoutMS    int       `toml:"read_timeout_ms"`
	WriteTimeoutMS   int       `toml:"write_timeout_ms"`
	TLS              TLSConfig `toml:"tls"`
}

type TLSConfig struct {
	Enabled            bool   `toml:"enabled"`
	CAFile             string `toml:"ca_file"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
}

// DefaultConfigTOML is the starter config written by -write-default-config.
const DefaultConfigTOML = `# rosterctl client configuration
addr = "127.0.0.1:7474"
prompt = "$ "
field_attempts = 3
connect_timeout_ms = 5000
read_timeout_ms = 15000
write_timeout_ms = 15000

[tls]
enabled = false
ca_file = ""
insecure_skip_verify = false
`

// LoadClientConfig reads, defaults, and validates one config file.
func LoadClientConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	cfg = cfg.WithDefaults()
	if err := ValidateClientConfig(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// WriteDefault writes the starter config, refusing to clobber an existing
// file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	return os.WriteFile(path, []byte(DefaultConfigTOML), 0o600)
}

func (c ClientConfig) WithDefaults() ClientConfig {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:7474"
	}
	if c.Prompt == "" {
		c.Prompt = "$ "
	}
	if c.FieldAttempts <= 0 {
		c.FieldAttempts = 3
	}
	return c
}

func ValidateClientConfig(cfg ClientConfig) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("client config missing addr")
	}
	if cfg.ConnectTimeoutMS < 0 || cfg.ReadTimeoutMS < 0 || cfg.WriteTimeoutMS < 0 {
		return fmt.Errorf("client config timeouts must not be negative")
	}
	if cfg.TLS.Enabled && strings.TrimSpace(cfg.TLS.CAFile) == "" && !cfg.TLS.InsecureSkipVerify {
		return fmt.Errorf("client config tls requires ca_file or insecure_skip_verify")
	}
	return nil
}

// RemoteConfig converts the file shape into the transport's config.
func (c ClientConfig) RemoteConfig() remote.Config {
	return remote.Config{
		Addr:           c.Addr,
		ConnectTimeout: time.Duration(c.ConnectTimeoutMS) * time.Millisecond,
		ReadTimeout:    time.Duration(c.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:   time.Duration(c.WriteTimeoutMS) * time.Millisecond,
		TLS: remote.TLSConfig{
			Enabled:            c.TLS.Enabled,
			CAFile:             c.TLS.CAFile,
			InsecureSkipVerify: c.TLS.InsecureSkipVerify,
		},
	}
}
