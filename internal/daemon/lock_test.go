package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestAcquireInstanceLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itermctl.lock")

	release, err := acquireInstanceLock(path)
	if err != nil {
		t.Fatalf("first acquireInstanceLock() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading lock file: %v", err)
	}
	if strings.TrimSpace(string(data)) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("lock file = %q, want current pid", data)
	}

	_, err = acquireInstanceLock(path)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second acquireInstanceLock() error = %v, want ErrAlreadyRunning", err)
	}
	if !strings.Contains(err.Error(), strconv.Itoa(os.Getpid())) {
		t.Fatalf("error = %q, want holder pid", err)
	}

	if err := release(); err != nil {
		t.Fatalf("release() error = %v", err)
	}
	release, err = acquireInstanceLock(path)
	if err != nil {
		t.Fatalf("acquireInstanceLock() after release error = %v", err)
	}
	_ = release()
}

func TestAcquireInstanceLockReportsOpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "itermctl.lock")
	if _, err := acquireInstanceLock(path); err == nil || errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("acquireInstanceLock() error = %v, want open failure", err)
	}
}
