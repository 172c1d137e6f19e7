package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("ParseLevel(verbose) error = nil, want non-nil")
	}
}

func TestNewAutoUsesJSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "auto")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("listening", "port", 3000)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output %q is not JSON: %v", buf.String(), err)
	}
	if record["msg"] != "listening" {
		t.Fatalf("msg = %v, want listening", record["msg"])
	}
}

func TestNewAutoUsesTextOnTerminal(t *testing.T) {
	orig := isTerminal
	isTerminal = func(io.Writer) bool { return true }
	defer func() { isTerminal = orig }()

	var buf bytes.Buffer
	logger, err := New(&buf, "info", "auto")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("listening", "port", 3000)

	if !strings.Contains(buf.String(), "msg=listening") {
		t.Fatalf("output = %q, want text handler output", buf.String())
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("output = %q, want only warn record", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(io.Discard, "info", "yaml"); err == nil {
		t.Fatal("New() error = nil, want unknown format error")
	}
}
