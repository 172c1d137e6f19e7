//go:build unix

package iterm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSnapshotRejectsNonTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(path, []byte("data"), 0600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err := readSnapshot(path, 16)
	if err == nil || !strings.Contains(err.Error(), "not a terminal") {
		t.Fatalf("readSnapshot() error = %v, want not a terminal", err)
	}
}

func TestReadSnapshotReportsMissingDevice(t *testing.T) {
	if _, err := readSnapshot(filepath.Join(t.TempDir(), "ttys999"), 16); !os.IsNotExist(err) {
		t.Fatalf("readSnapshot() error = %v, want not exist", err)
	}
}

func TestWriteByteWritesExactlyOneByte(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sink")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("creating file: %v", err)
	}

	if err := writeByte(path, 3); err != nil {
		t.Fatalf("writeByte() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("file = %v, want [3]", got)
	}
}
