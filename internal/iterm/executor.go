package iterm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lydakis/itermctl/internal/applescript"
	"github.com/lydakis/itermctl/internal/config"
	"github.com/lydakis/itermctl/internal/logging"
)

// CommandExecutor types commands into the current iTerm2 session.
type CommandExecutor struct {
	runner      applescript.Runner
	application string
	timeout     time.Duration
	logger      *slog.Logger
}

// NewCommandExecutor returns an executor that submits scripts through runner
// to application, bounding every submission by timeout.
func NewCommandExecutor(runner applescript.Runner, application string, timeout time.Duration, logger *slog.Logger) *CommandExecutor {
	if application == "" {
		application = config.DefaultApplication
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &CommandExecutor{
		runner:      runner,
		application: application,
		timeout:     timeout,
		logger:      logger,
	}
}

// Script returns the AppleScript that writes command to the current session.
func (e *CommandExecutor) Script(command string) string {
	return fmt.Sprintf(`tell application "%s" to tell current session of current window to write text %s`,
		e.application, applescript.Escape(command))
}

// Execute submits command and returns once the interpreter confirms the
// text was delivered. It does not wait for the command itself to finish.
//
// Cancelling ctx does not abort a submission already in flight; only the
// configured timeout does.
func (e *CommandExecutor) Execute(ctx context.Context, command string) error {
	inv := applescript.Invocation{
		Lines:   []string{e.Script(command)},
		Timeout: e.timeout,
	}
	e.logger.Debug("submitting command", "bytes", len(command), "timeout", e.timeout)

	if _, err := runWithin(context.WithoutCancel(ctx), e.runner, inv); err != nil {
		e.logger.Warn("command submission failed", "error", err)
		return fmt.Errorf("writing to terminal: %w", err)
	}
	return nil
}

// runWithin runs inv on a separate goroutine and gives up once inv.Timeout
// passes, even if runner ignores its context. An abandoned runner call
// finishes in the background and its result is dropped.
func runWithin(ctx context.Context, runner applescript.Runner, inv applescript.Invocation) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, inv.Timeout)
	defer cancel()

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := runner.Run(ctx, inv)
		done <- result{out: out, err: err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("%w after %s", applescript.ErrTimeout, inv.Timeout)
	}
}
