//go:build unix

package iterm

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// readSnapshot reads at most size bytes from the device without blocking.
// An empty input queue returns no data and no error.
func readSnapshot(path string, size int) ([]byte, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	defer unix.Close(fd)

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", path)
	}

	buf := make([]byte, size)
	for {
		n, err := unix.Read(fd, buf)
		switch {
		case err == nil:
			return buf[:n], nil
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return nil, nil
		default:
			return nil, &os.PathError{Op: "read", Path: path, Err: err}
		}
	}
}

// writeByte writes b to the device in a single write.
func writeByte(path string, b byte) error {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return &os.PathError{Op: "open", Path: path, Err: err}
	}
	defer unix.Close(fd)

	for {
		n, err := unix.Write(fd, []byte{b})
		switch {
		case err == nil && n == 1:
			return nil
		case err == nil:
			return &os.PathError{Op: "write", Path: path, Err: errors.New("short write")}
		case errors.Is(err, unix.EINTR):
			continue
		default:
			return &os.PathError{Op: "write", Path: path, Err: err}
		}
	}
}
