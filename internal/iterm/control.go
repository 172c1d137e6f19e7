package iterm

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/lydakis/itermctl/internal/logging"
	"github.com/mark3labs/mcp-go/mcp"
)

var writeByteFn = writeByte

// ControlByte maps a control character token to its byte: A-Z (either
// case) become 1-26, and @ [ \ ] ^ _ become 0 and 27-31.
func ControlByte(token string) (byte, error) {
	if utf8.RuneCountInString(token) != 1 {
		return 0, fmt.Errorf("%w: control character must be a single character, got %q", mcp.ErrInvalidParams, token)
	}

	r, _ := utf8.DecodeRuneInString(token)
	switch {
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, nil
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, nil
	}
	switch r {
	case '@':
		return 0, nil
	case '[':
		return 27, nil
	case '\\':
		return 28, nil
	case ']':
		return 29, nil
	case '^':
		return 30, nil
	case '_':
		return 31, nil
	}
	return 0, fmt.Errorf("%w: unsupported control character %q", mcp.ErrInvalidParams, token)
}

// ControlSender writes single control bytes to the session's TTY.
type ControlSender struct {
	state  ttyState
	logger *slog.Logger
}

// NewControlSender returns a sender resolving its device through resolver.
func NewControlSender(resolver Resolver, logger *slog.Logger) *ControlSender {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ControlSender{state: ttyState{resolver: resolver}, logger: logger}
}

// Send validates token before touching the device, then writes exactly one
// byte.
func (s *ControlSender) Send(ctx context.Context, token string) error {
	b, err := ControlByte(token)
	if err != nil {
		return err
	}

	path, err := s.state.acquire(ctx)
	if err != nil {
		s.logger.Warn("tty resolution failed", "error", err)
		return err
	}

	if err := writeByteFn(path, b); err != nil {
		s.state.invalidate(path)
		s.logger.Warn("tty write failed", "tty", path, "error", err)
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}
	s.logger.Debug("control character sent", "tty", path, "code", b)
	return nil
}

// Path returns the cached device path, or "" when none is resolved.
func (s *ControlSender) Path() string {
	return s.state.cached()
}
