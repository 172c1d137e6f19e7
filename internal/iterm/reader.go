package iterm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lydakis/itermctl/internal/config"
	"github.com/lydakis/itermctl/internal/logging"
)

var readSnapshotFn = readSnapshot

// ReaderConfig tunes a TTYReader.
type ReaderConfig struct {
	BufferSize int
	StripANSI  bool
	StripMode  string
}

// ReaderConfigFrom converts the [tty] config section.
func ReaderConfigFrom(tc config.TTYConfig) ReaderConfig {
	return ReaderConfig{
		BufferSize: tc.BufferSize,
		StripANSI:  tc.StripANSI,
		StripMode:  tc.StripMode,
	}
}

// TTYReader returns the tail of whatever is buffered on the session's TTY.
type TTYReader struct {
	state  ttyState
	cfg    ReaderConfig
	logger *slog.Logger
}

// NewTTYReader returns a reader resolving its device through resolver.
func NewTTYReader(resolver Resolver, cfg ReaderConfig, logger *slog.Logger) *TTYReader {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = config.DefaultBufferSize
	}
	if cfg.StripMode == "" {
		cfg.StripMode = config.StripModeCSI
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &TTYReader{
		state:  ttyState{resolver: resolver},
		cfg:    cfg,
		logger: logger,
	}
}

// Read takes one non-blocking snapshot of the device and returns its last n
// lines. An empty input queue yields "".
func (r *TTYReader) Read(ctx context.Context, n int) (string, error) {
	if n <= 0 {
		return "", nil
	}

	path, err := r.state.acquire(ctx)
	if err != nil {
		r.logger.Warn("tty resolution failed", "error", err)
		return "", err
	}

	data, err := readSnapshotFn(path, r.cfg.BufferSize)
	if err != nil {
		r.state.invalidate(path)
		r.logger.Warn("tty read failed", "tty", path, "error", err)
		return "", fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}
	r.logger.Debug("tty snapshot", "tty", path, "bytes", len(data))

	text := strings.ToValidUTF8(string(data), "\uFFFD")
	if r.cfg.StripANSI {
		text = StripANSI(text, r.cfg.StripMode)
	}
	return LastLines(text, n), nil
}

// Path returns the cached device path, or "" when none is resolved.
func (r *TTYReader) Path() string {
	return r.state.cached()
}
