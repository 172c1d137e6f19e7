package iterm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func foundPath(file string) (string, error) { return "/usr/bin/" + file, nil }

func missingPath(string) (string, error) { return "", errors.New("not found") }

func runningState(ok bool, err error) processRunningFunc {
	return func(context.Context, string) (bool, error) { return ok, err }
}

func TestPreflightPassesOnReadyHost(t *testing.T) {
	err := checkPreflight(context.Background(), "/usr/bin/osascript", "iTerm2", "darwin", foundPath, runningState(true, nil))
	if err != nil {
		t.Fatalf("checkPreflight() error = %v, want nil", err)
	}
}

func TestPreflightReportsEveryProblem(t *testing.T) {
	err := checkPreflight(context.Background(), "osascript", "iTerm2", "darwin", missingPath, runningState(false, nil))
	if err == nil {
		t.Fatal("checkPreflight() error = nil, want non-nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, `script interpreter "osascript" not found`) {
		t.Fatalf("error = %q, want interpreter message", msg)
	}
	if !strings.Contains(msg, "iTerm2 is not running") {
		t.Fatalf("error = %q, want not running message", msg)
	}
}

func TestPreflightRejectsOtherPlatforms(t *testing.T) {
	err := checkPreflight(context.Background(), "osascript", "iTerm2", "linux", foundPath, func(context.Context, string) (bool, error) {
		t.Fatal("process check ran on linux")
		return false, nil
	})
	if err == nil || !strings.Contains(err.Error(), `unsupported platform "linux"`) {
		t.Fatalf("checkPreflight() error = %v, want unsupported platform", err)
	}
}

func TestPreflightReportsProcessCheckFailure(t *testing.T) {
	err := checkPreflight(context.Background(), "osascript", "iTerm2", "darwin", foundPath, runningState(false, errors.New("pgrep missing")))
	if err == nil || !strings.Contains(err.Error(), "checking whether iTerm2 is running") {
		t.Fatalf("checkPreflight() error = %v, want process check failure", err)
	}
}
