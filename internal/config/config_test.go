package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadClientConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosterctl.toml")
	if err := os.WriteFile(path, []byte("addr = \"10.0.0.5:9999\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "10.0.0.5:9999" {
		t.Fatalf("addr: %q", cfg.Addr)
	}
	if cfg.Prompt != "$ " || cfg.FieldAttempts != 3 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadClientConfigMissingFile(t *testing.T) {
	if _, err := LoadClientConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRejectsBadShapes(t *testing.T) {
	if err := ValidateClientConfig(ClientConfig{Addr: "  "}); err == nil {
		t.Fatalf("expected missing addr error")
	}
	if err := ValidateClientConfig(ClientConfig{Addr: "a:1", ReadTimeoutMS: -1}); err == nil {
		t.Fatalf("expected negative timeout error")
	}
	bad := ClientConfig{Addr: "a:1", TLS: TLSConfig{Enabled: true}}
	if err := ValidateClientConfig(bad); err == nil {
		t.Fatalf("expected tls ca error")
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosterctl.toml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("write default: %v", err)
	}
	if err := WriteDefault(path); err == nil {
		t.Fatalf("must refuse to clobber an existing config")
	}
	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	rc := cfg.RemoteConfig()
	if rc.Addr != "127.0.0.1:7474" || rc.ConnectTimeout != 5*time.Second {
		t.Fatalf("unexpected remote config: %+v", rc)
	}
}
