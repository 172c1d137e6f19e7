package iterm

import (
	"context"
	"errors"
	"testing"
)

func TestTTYReaderReturnsStrippedTail(t *testing.T) {
	var gotPath string
	var gotSize int
	defer stubReadSnapshot(func(path string, size int) ([]byte, error) {
		gotPath, gotSize = path, size
		return []byte("one\n\x1b[32mtwo\x1b[0m\nthree\n"), nil
	})()

	r := NewTTYReader(StaticResolver("/dev/ttys007"), ReaderConfig{BufferSize: 64, StripANSI: true}, nil)
	got, err := r.Read(context.Background(), 2)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "two\nthree" {
		t.Fatalf("Read() = %q, want %q", got, "two\nthree")
	}
	if gotPath != "/dev/ttys007" || gotSize != 64 {
		t.Fatalf("snapshot(%q, %d), want (/dev/ttys007, 64)", gotPath, gotSize)
	}
}

func TestTTYReaderKeepsEscapesWhenStripDisabled(t *testing.T) {
	defer stubReadSnapshot(func(string, int) ([]byte, error) {
		return []byte("\x1b[1mbold\x1b[0m"), nil
	})()

	r := NewTTYReader(StaticResolver("/dev/ttys007"), ReaderConfig{StripANSI: false}, nil)
	got, err := r.Read(context.Background(), 1)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "\x1b[1mbold\x1b[0m" {
		t.Fatalf("Read() = %q, want escapes preserved", got)
	}
}

func TestTTYReaderReplacesInvalidUTF8(t *testing.T) {
	defer stubReadSnapshot(func(string, int) ([]byte, error) {
		return []byte("ok \xff\xfe done"), nil
	})()

	r := NewTTYReader(StaticResolver("/dev/ttys007"), ReaderConfig{StripANSI: true}, nil)
	got, err := r.Read(context.Background(), 1)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "ok \uFFFD done" {
		t.Fatalf("Read() = %q, want replacement character", got)
	}
}

func TestTTYReaderEmptySnapshot(t *testing.T) {
	defer stubReadSnapshot(func(string, int) ([]byte, error) { return nil, nil })()

	r := NewTTYReader(StaticResolver("/dev/ttys007"), ReaderConfig{}, nil)
	got, err := r.Read(context.Background(), 10)
	if err != nil || got != "" {
		t.Fatalf("Read() = %q, %v, want empty", got, err)
	}
}

func TestTTYReaderZeroLinesSkipsDevice(t *testing.T) {
	defer stubReadSnapshot(func(string, int) ([]byte, error) {
		t.Fatal("device read for n=0")
		return nil, nil
	})()
	resolver := &countingResolver{paths: []string{"/dev/ttys001"}}

	r := NewTTYReader(resolver, ReaderConfig{}, nil)
	got, err := r.Read(context.Background(), 0)
	if err != nil || got != "" {
		t.Fatalf("Read(0) = %q, %v, want empty", got, err)
	}
	if resolver.count() != 0 {
		t.Fatalf("resolver calls = %d, want 0", resolver.count())
	}
}

func TestTTYReaderCachesPathUntilFailure(t *testing.T) {
	fail := false
	defer stubReadSnapshot(func(string, int) ([]byte, error) {
		if fail {
			return nil, errors.New("device gone")
		}
		return []byte("x\n"), nil
	})()
	resolver := &countingResolver{paths: []string{"/dev/ttys001", "/dev/ttys002"}}
	r := NewTTYReader(resolver, ReaderConfig{}, nil)

	for i := 0; i < 3; i++ {
		if _, err := r.Read(context.Background(), 1); err != nil {
			t.Fatalf("Read() #%d error = %v", i, err)
		}
	}
	if resolver.count() != 1 {
		t.Fatalf("resolver calls = %d, want 1", resolver.count())
	}
	if r.Path() != "/dev/ttys001" {
		t.Fatalf("Path() = %q, want /dev/ttys001", r.Path())
	}

	fail = true
	_, err := r.Read(context.Background(), 1)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("Read() error = %v, want ErrIO", err)
	}
	if r.Path() != "" {
		t.Fatalf("Path() after failure = %q, want empty", r.Path())
	}

	fail = false
	if _, err := r.Read(context.Background(), 1); err != nil {
		t.Fatalf("Read() after recovery error = %v", err)
	}
	if resolver.count() != 2 || r.Path() != "/dev/ttys002" {
		t.Fatalf("resolver calls = %d, path = %q, want re-resolution to /dev/ttys002", resolver.count(), r.Path())
	}
}

func TestTTYReaderReportsResolutionFailure(t *testing.T) {
	resolver := &countingResolver{err: errors.New("no window")}
	r := NewTTYReader(resolver, ReaderConfig{}, nil)

	_, err := r.Read(context.Background(), 1)
	if !errors.Is(err, ErrInitializationFailed) {
		t.Fatalf("Read() error = %v, want ErrInitializationFailed", err)
	}
	if errors.Is(err, ErrIO) {
		t.Fatal("resolution failure also matched ErrIO")
	}
}
