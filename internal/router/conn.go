package router

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ReadChunkSize is how much Serve reads from the transport per call.
const ReadChunkSize = 8 << 10

// Conn is the protocol state of one connection: the bytes received but not
// yet terminated by a newline. A Conn is not safe for concurrent use.
//
// Requests on one Conn are handled strictly in arrival order and each
// response is produced before the next line is parsed, so a slow tool
// delays only the connection that called it.
type Conn struct {
	router  *Router
	logger  *slog.Logger
	buf     []byte
	scanned int // prefix of buf known to hold no newline
}

// NewConn starts protocol state for a new connection.
func (r *Router) NewConn(logger *slog.Logger) *Conn {
	if logger == nil {
		logger = r.logger
	}
	return &Conn{router: r, logger: logger}
}

// Feed appends chunk and returns one response frame per complete line, in
// order. Partial trailing input is kept for the next call and is not
// rescanned. A CR before the LF is ignored. Blank and whitespace-only lines
// are keepalives and get no response.
func (c *Conn) Feed(ctx context.Context, chunk []byte) [][]byte {
	c.buf = append(c.buf, chunk...)

	var frames [][]byte
	start := 0
	for {
		from := max(start, c.scanned)
		i := bytes.IndexByte(c.buf[from:], '\n')
		if i < 0 {
			c.scanned = len(c.buf)
			break
		}
		i += from - start
		line := bytes.TrimSuffix(c.buf[start:start+i], []byte{'\r'})
		start += i + 1
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		frames = append(frames, c.router.handle(ctx, line, c.logger))
	}

	if start > 0 {
		c.buf = append(c.buf[:0], c.buf[start:]...)
		c.scanned = max(c.scanned-start, 0)
	}
	return frames
}

// Pending returns the number of buffered bytes not yet forming a line.
func (c *Conn) Pending() int {
	return len(c.buf)
}

// Serve runs the protocol over rw until EOF or a transport error. All
// responses produced by one read are written with a single write. EOF
// ends the connection cleanly; an unterminated trailing line is dropped.
func (r *Router) Serve(ctx context.Context, rw io.ReadWriter, logger *slog.Logger) error {
	conn := r.NewConn(logger)
	chunk := make([]byte, ReadChunkSize)

	for {
		n, readErr := rw.Read(chunk)
		if n > 0 {
			if frames := conn.Feed(ctx, chunk[:n]); len(frames) > 0 {
				if _, err := rw.Write(bytes.Join(frames, nil)); err != nil {
					return fmt.Errorf("writing response: %w", err)
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				if pending := conn.Pending(); pending > 0 {
					conn.logger.Debug("discarding unterminated request", "bytes", pending)
				}
				return nil
			}
			return fmt.Errorf("reading request: %w", readErr)
		}
	}
}
