// Package iterm drives an iTerm2 session: it submits commands through
// AppleScript and talks to the session's TTY device directly.
package iterm

import "errors"

var (
	// ErrInitializationFailed means the session's TTY path could not be resolved.
	ErrInitializationFailed = errors.New("iterm: tty initialization failed")
	// ErrIO means the TTY device could not be opened, read or written.
	ErrIO = errors.New("iterm: tty i/o failed")
)
