//go:build !unix

package iterm

import "errors"

var errUnsupported = errors.New("tty access is not supported on this platform")

func readSnapshot(string, int) ([]byte, error) {
	return nil, errUnsupported
}

func writeByte(string, byte) error {
	return errUnsupported
}
