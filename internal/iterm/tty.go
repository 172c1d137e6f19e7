package iterm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/lydakis/itermctl/internal/config"
)

var csiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes escape sequences from s. Mode "csi" removes CSI
// sequences such as colors and cursor movement; mode "all" removes every
// ANSI sequence, OSC titles and hyperlinks included.
func StripANSI(s, mode string) string {
	if mode == config.StripModeAll {
		return ansi.Strip(s)
	}
	return csiRe.ReplaceAllString(s, "")
}

// LastLines returns the final n lines of text joined by "\n". A trailing
// newline does not start an extra empty line and a CR before each LF is
// dropped.
func LastLines(text string, n int) string {
	if n <= 0 || text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return strings.Join(lines, "\n")
}

// ttyState caches a resolved device path. The path is kept until an
// operation against it fails.
type ttyState struct {
	mu       sync.Mutex
	resolver Resolver
	path     string
}

func (s *ttyState) acquire(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path != "" {
		return s.path, nil
	}
	path, err := s.resolver.Resolve(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInitializationFailed, err)
	}
	s.path = path
	return path, nil
}

// invalidate drops path if it is still the cached one.
func (s *ttyState) invalidate(path string) {
	s.mu.Lock()
	if s.path == path {
		s.path = ""
	}
	s.mu.Unlock()
}

func (s *ttyState) cached() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}
