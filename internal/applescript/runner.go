package applescript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultInterpreter is the macOS AppleScript interpreter.
const DefaultInterpreter = "/usr/bin/osascript"

const defaultWaitDelay = 500 * time.Millisecond

var (
	// ErrTimeout is returned when a script does not finish within its timeout.
	ErrTimeout = errors.New("applescript: execution timed out")
	// ErrExecutionFailed matches every *ExitError.
	ErrExecutionFailed = errors.New("applescript: execution failed")

	errEmptyScript = errors.New("applescript: empty script")
)

var execCommandContext = exec.CommandContext

// Invocation is one script submission.
type Invocation struct {
	// Lines are passed to the interpreter one per -e argument.
	Lines []string
	// Timeout bounds the whole run. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// Runner executes AppleScript and returns its standard output.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (string, error)
}

// ExitError reports a non-zero interpreter exit.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("applescript: interpreter exited with status %d", e.Code)
	}
	return fmt.Sprintf("applescript: interpreter exited with status %d: %s", e.Code, e.Stderr)
}

// Is makes errors.Is(err, ErrExecutionFailed) true for any *ExitError.
func (e *ExitError) Is(target error) bool {
	return target == ErrExecutionFailed
}

// SystemRunner spawns a real interpreter process per invocation.
type SystemRunner struct {
	// Interpreter is the executable path. Empty means DefaultInterpreter.
	Interpreter string
	// ScriptFlag precedes every script line. Empty means "-e".
	ScriptFlag string
	// WaitDelay bounds how long Run waits for pipes after the process is
	// killed. Zero means 500ms.
	WaitDelay time.Duration
}

// NewSystemRunner returns a runner for the given interpreter path.
func NewSystemRunner(interpreter string) *SystemRunner {
	return &SystemRunner{Interpreter: interpreter}
}

// Run executes inv.Lines and returns stdout with CR and CRLF normalized to LF.
func (r *SystemRunner) Run(ctx context.Context, inv Invocation) (string, error) {
	if len(inv.Lines) == 0 {
		return "", errEmptyScript
	}

	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	interpreter := r.interpreter()
	flag := r.ScriptFlag
	if flag == "" {
		flag = "-e"
	}
	args := make([]string, 0, 2*len(inv.Lines))
	for _, line := range inv.Lines {
		args = append(args, flag, line)
	}

	var stdout, stderr bytes.Buffer
	cmd := execCommandContext(ctx, interpreter, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = defaultWaitDelay
	}

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, inv.Timeout)
		}
		return "", ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExitError{
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(normalizeNewlines(stderr.String())),
			}
		}
		return "", fmt.Errorf("starting %s: %w", interpreter, err)
	}

	return normalizeNewlines(stdout.String()), nil
}

func (r *SystemRunner) interpreter() string {
	if r.Interpreter == "" {
		return DefaultInterpreter
	}
	return r.Interpreter
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
