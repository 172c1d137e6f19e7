package iterm

import (
	"context"
	"sync"
)

// countingResolver hands out paths in order and counts calls.
type countingResolver struct {
	mu    sync.Mutex
	paths []string
	err   error
	calls int
}

func (r *countingResolver) Resolve(context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	path := r.paths[0]
	if len(r.paths) > 1 {
		r.paths = r.paths[1:]
	}
	return path, nil
}

func (r *countingResolver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func stubReadSnapshot(fn func(path string, size int) ([]byte, error)) func() {
	orig := readSnapshotFn
	readSnapshotFn = fn
	return func() { readSnapshotFn = orig }
}

func stubWriteByte(fn func(path string, b byte) error) func() {
	orig := writeByteFn
	writeByteFn = fn
	return func() { writeByteFn = orig }
}
