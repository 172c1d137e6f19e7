package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"auto", "text", "json"}
	validStripModes = []string{StripModeCSI, StripModeAll}
)

// Validate checks configuration invariants and returns actionable errors.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var errs []error
	errs = append(errs, validateServer(cfg.Server)...)
	errs = append(errs, validateLog(cfg.Log)...)
	errs = append(errs, validateAppleScript(cfg.AppleScript)...)
	errs = append(errs, validateTTY(cfg.TTY)...)
	return errors.Join(errs...)
}

func validateServer(srv ServerConfig) []error {
	var errs []error

	if strings.TrimSpace(srv.Address) == "" {
		errs = append(errs, errors.New("server.address: must not be empty"))
	} else if net.ParseIP(srv.Address) == nil && srv.Address != "localhost" {
		errs = append(errs, fmt.Errorf("server.address: invalid IP address %q", srv.Address))
	}
	if srv.Port < 0 || srv.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: must be within 0..65535, got %d", srv.Port))
	}
	if strings.TrimSpace(srv.Namespace) == "" {
		errs = append(errs, errors.New("server.namespace: must not be empty"))
	} else if strings.ContainsAny(srv.Namespace, ": \t\r\n") {
		errs = append(errs, fmt.Errorf("server.namespace: must not contain ':' or whitespace, got %q", srv.Namespace))
	}

	return errs
}

func validateLog(lc LogConfig) []error {
	var errs []error
	if !oneOf(lc.Level, validLogLevels) {
		errs = append(errs, fmt.Errorf("log.level: must be one of %s, got %q", strings.Join(validLogLevels, ", "), lc.Level))
	}
	if !oneOf(lc.Format, validLogFormats) {
		errs = append(errs, fmt.Errorf("log.format: must be one of %s, got %q", strings.Join(validLogFormats, ", "), lc.Format))
	}
	return errs
}

func validateAppleScript(ac AppleScriptConfig) []error {
	var errs []error

	if strings.TrimSpace(ac.Interpreter) == "" {
		errs = append(errs, errors.New("applescript.interpreter: must not be empty"))
	}
	if strings.TrimSpace(ac.Application) == "" {
		errs = append(errs, errors.New("applescript.application: must not be empty"))
	} else if strings.ContainsAny(ac.Application, "\"\\\n") {
		errs = append(errs, fmt.Errorf("applescript.application: must not contain quotes, backslashes or newlines, got %q", ac.Application))
	}

	timeout, err := time.ParseDuration(ac.Timeout)
	if err != nil {
		errs = append(errs, fmt.Errorf("applescript.timeout: invalid duration %q: %w", ac.Timeout, err))
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("applescript.timeout: must be > 0, got %q", ac.Timeout))
	}

	return errs
}

func validateTTY(tc TTYConfig) []error {
	var errs []error
	if tc.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("tty.buffer_size: must be > 0, got %d", tc.BufferSize))
	}
	if !oneOf(tc.StripMode, validStripModes) {
		errs = append(errs, fmt.Errorf("tty.strip_mode: must be one of %s, got %q", strings.Join(validStripModes, ", "), tc.StripMode))
	}
	if tc.Path != "" && !strings.HasPrefix(tc.Path, "/dev/") {
		errs = append(errs, fmt.Errorf("tty.path: must be a device under /dev, got %q", tc.Path))
	}
	return errs
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
