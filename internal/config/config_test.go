package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Fatalf("port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Namespace != DefaultNamespace {
		t.Fatalf("namespace = %q, want %q", cfg.Server.Namespace, DefaultNamespace)
	}
	if !cfg.TTY.StripANSI {
		t.Fatal("strip_ansi = false, want true")
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(Default()) error = %v", err)
	}
}

func TestLoadReadsDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "itermctl", "config.toml")
	if got := DefaultPath(); got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
	if err := os.MkdirAll(filepath.Dir(want), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(want, []byte("[server]\nport = 4500\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 4500 {
		t.Fatalf("port = %d, want 4500", cfg.Server.Port)
	}
}

func TestLoadFromKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	const raw = `
[server]
port = 4100

[tty]
strip_ansi = false
`
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 4100 {
		t.Fatalf("port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.Server.Address != DefaultAddress {
		t.Fatalf("address = %q, want %q", cfg.Server.Address, DefaultAddress)
	}
	if cfg.TTY.StripANSI {
		t.Fatal("strip_ansi = true, want false")
	}
	if cfg.TTY.BufferSize != DefaultBufferSize {
		t.Fatalf("buffer_size = %d, want %d", cfg.TTY.BufferSize, DefaultBufferSize)
	}
}

func TestLoadFromExpandsEnvValuesAfterParsing(t *testing.T) {
	t.Setenv("ITERMCTL_TEST_TTY", "/dev/ttys042")

	path := filepath.Join(t.TempDir(), "config.toml")
	const raw = `
[tty]
path = "${ITERMCTL_TEST_TTY}"

[applescript]
application = "${ITERMCTL_UNSET_APP}"
`
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.TTY.Path != "/dev/ttys042" {
		t.Fatalf("tty.path = %q, want %q", cfg.TTY.Path, "/dev/ttys042")
	}
	if cfg.AppleScript.Application != "${ITERMCTL_UNSET_APP}" {
		t.Fatalf("application = %q, want unresolved placeholder", cfg.AppleScript.Application)
	}
}

func TestLoadFromRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nprot = 1\n"), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom() error = nil, want unknown key error")
	}
}

func TestLoadFromRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\n"), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom() error = nil, want parse error")
	}
}

func TestScriptTimeoutFallsBackToDefault(t *testing.T) {
	cases := map[string]time.Duration{
		"250ms": 250 * time.Millisecond,
		"":      DefaultTimeout,
		"abc":   DefaultTimeout,
		"-1s":   DefaultTimeout,
	}
	for raw, want := range cases {
		got := AppleScriptConfig{Timeout: raw}.ScriptTimeout()
		if got != want {
			t.Fatalf("ScriptTimeout(%q) = %v, want %v", raw, got, want)
		}
	}
}
