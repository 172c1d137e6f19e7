// Package server accepts TCP connections and runs the request router on
// each of them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lydakis/itermctl/internal/logging"
	"github.com/lydakis/itermctl/internal/router"
)

var listenFn = net.Listen

// Server listens on a TCP address and serves one goroutine per connection.
type Server struct {
	addr     string
	router   *router.Router
	logger   *slog.Logger
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// New creates a server for addr ("host:port").
func New(addr string, r *router.Router, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		addr:   addr,
		router: r,
		logger: logger,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Start begins listening and accepting connections in the background.
func (s *Server) Start() error {
	ln, err := listenFn("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.logger.Info("listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and every open connection, then waits for
// connection goroutines to return. Tool calls already running are not
// interrupted; their responses are dropped.
func (s *Server) Stop() {
	if s.listener != nil {
		s.listener.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	var backoff time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff < time.Second {
				backoff *= 2
			}
			s.logger.Warn("accept failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		if !s.track(conn) {
			conn.Close()
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	logger := s.logger.With("conn", uuid.NewString(), "remote", conn.RemoteAddr().String())
	logger.Info("connection opened")

	if err := s.router.Serve(s.ctx, conn, logger); err != nil && s.ctx.Err() == nil {
		logger.Warn("connection closed with error", "error", err)
		return
	}
	logger.Info("connection closed")
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}
