package iterm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type lookupPathFunc func(file string) (string, error)

type processRunningFunc func(ctx context.Context, name string) (bool, error)

var (
	hostOS           = runtime.GOOS
	lookPathFn       = lookupPathFunc(exec.LookPath)
	processRunningFn = processRunningFunc(processRunning)
)

// Preflight reports why this host cannot drive application: a non-macOS
// host, a missing interpreter, or the application not running. All
// problems are returned together.
func Preflight(ctx context.Context, interpreter, application string) error {
	return checkPreflight(ctx, interpreter, application, hostOS, lookPathFn, processRunningFn)
}

func checkPreflight(ctx context.Context, interpreter, application, goos string, lookup lookupPathFunc, running processRunningFunc) error {
	var errs []error

	if goos != "darwin" {
		errs = append(errs, fmt.Errorf("unsupported platform %q: %s only runs on macOS", goos, application))
	}

	interpreter = strings.TrimSpace(interpreter)
	if _, err := lookup(interpreter); err != nil {
		errs = append(errs, fmt.Errorf("script interpreter %q not found: %w", interpreter, err))
	}

	if goos == "darwin" {
		ok, err := running(ctx, application)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("checking whether %s is running: %w", application, err))
		case !ok:
			errs = append(errs, fmt.Errorf("%s is not running", application))
		}
	}

	return errors.Join(errs...)
}

// processRunning reports whether a process named exactly name exists.
func processRunning(ctx context.Context, name string) (bool, error) {
	out, err := exec.CommandContext(ctx, "pgrep", "-x", name).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(string(out)) != "", nil
}
