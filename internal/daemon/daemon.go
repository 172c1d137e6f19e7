// Package daemon wires configuration, the terminal tools, the router and
// the TCP server into the long-running itermctl process.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/lydakis/itermctl/internal/applescript"
	"github.com/lydakis/itermctl/internal/config"
	"github.com/lydakis/itermctl/internal/iterm"
	"github.com/lydakis/itermctl/internal/logging"
	"github.com/lydakis/itermctl/internal/paths"
	"github.com/lydakis/itermctl/internal/router"
	"github.com/lydakis/itermctl/internal/server"
	"github.com/lydakis/itermctl/internal/tools"
)

var (
	preflightFn   = iterm.Preflight
	notifySignals = func(c chan<- os.Signal) {
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	}
)

// Options configures Run.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Runner overrides the AppleScript runner. Nil runs the configured
	// interpreter.
	Runner applescript.Runner
	// SkipPreflight disables the host checks.
	SkipPreflight bool
	// LockPath overrides the single-instance lock location.
	LockPath string
	// OnReady, when set, is called with the bound address once the
	// server accepts connections.
	OnReady func(net.Addr)
}

// BuildRegistry assembles the terminal tools described by cfg.
func BuildRegistry(cfg *config.Config, runner applescript.Runner, logger *slog.Logger) (*tools.Registry, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	timeout := cfg.AppleScript.ScriptTimeout()
	app := cfg.AppleScript.Application

	ts := iterm.Toolset{
		Executor: iterm.NewCommandExecutor(runner, app, timeout, logger.With("component", "executor")),
		Reader: iterm.NewTTYReader(
			iterm.NewResolver(cfg.TTY.Path, runner, app, timeout),
			iterm.ReaderConfigFrom(cfg.TTY),
			logger.With("component", "reader"),
		),
		Sender: iterm.NewControlSender(
			iterm.NewResolver(cfg.TTY.Path, runner, app, timeout),
			logger.With("component", "sender"),
		),
	}

	reg, err := tools.NewRegistry(ts.Tools(cfg.Server.Namespace)...)
	if err != nil {
		return nil, fmt.Errorf("building tool registry: %w", err)
	}
	return reg, nil
}

// Run serves until ctx is done or SIGINT/SIGTERM arrives.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if !opts.SkipPreflight {
		if err := preflightFn(ctx, cfg.AppleScript.Interpreter, cfg.AppleScript.Application); err != nil {
			return fmt.Errorf("preflight: %w", err)
		}
	}

	lockPath := opts.LockPath
	if lockPath == "" {
		lockPath = paths.LockPath()
	}
	if err := paths.EnsureDir(filepath.Dir(lockPath)); err != nil {
		return fmt.Errorf("creating runtime dir: %w", err)
	}
	release, err := acquireInstanceLock(lockPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("releasing instance lock", "error", err)
		}
	}()

	runner := opts.Runner
	if runner == nil {
		runner = applescript.NewSystemRunner(cfg.AppleScript.Interpreter)
	}
	reg, err := BuildRegistry(cfg, runner, logger)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port))
	srv := server.New(addr, router.New(reg, logger), logger)
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()

	logger.Info("itermctl ready",
		"address", srv.Addr().String(),
		"namespace", cfg.Server.Namespace,
		"tools", reg.Names(),
	)
	if opts.OnReady != nil {
		opts.OnReady(srv.Addr())
	}

	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		logger.Info("shutting down", "reason", ctx.Err())
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}
	return nil
}
