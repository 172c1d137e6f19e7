package iterm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lydakis/itermctl/internal/applescript"
	"github.com/lydakis/itermctl/internal/config"
)

// Resolver finds the TTY device of the session being driven.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// ScriptResolver asks the terminal application for the current session's tty.
type ScriptResolver struct {
	runner      applescript.Runner
	application string
	timeout     time.Duration
}

// NewScriptResolver returns a resolver that queries application through runner.
func NewScriptResolver(runner applescript.Runner, application string, timeout time.Duration) *ScriptResolver {
	if application == "" {
		application = config.DefaultApplication
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &ScriptResolver{runner: runner, application: application, timeout: timeout}
}

func (r *ScriptResolver) Resolve(ctx context.Context) (string, error) {
	script := fmt.Sprintf(`tell application "%s" to get tty of current session of current window`, r.application)
	out, err := runWithin(ctx, r.runner, applescript.Invocation{
		Lines:   []string{script},
		Timeout: r.timeout,
	})
	if err != nil {
		return "", fmt.Errorf("querying session tty: %w", err)
	}
	path := strings.TrimSpace(out)
	if !strings.HasPrefix(path, "/dev/") {
		return "", fmt.Errorf("querying session tty: unexpected answer %q", path)
	}
	return path, nil
}

// StaticResolver always resolves to a fixed device path.
type StaticResolver string

func (p StaticResolver) Resolve(context.Context) (string, error) {
	if p == "" {
		return "", errors.New("no tty path configured")
	}
	return string(p), nil
}

// NewResolver picks a StaticResolver when path is set and a ScriptResolver
// otherwise.
func NewResolver(path string, runner applescript.Runner, application string, timeout time.Duration) Resolver {
	if path != "" {
		return StaticResolver(path)
	}
	return NewScriptResolver(runner, application, timeout)
}
