package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/lydakis/itermctl/internal/applescript"
	"github.com/lydakis/itermctl/internal/config"
	"github.com/lydakis/itermctl/internal/daemon"
	"github.com/lydakis/itermctl/internal/logging"
	"github.com/spf13/pflag"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUsage   = 2
)

var daemonRun = daemon.Run

// Run is the main CLI entry point. Returns an exit code.
func Run(args []string) int {
	var opts rootOptions
	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printRootHelp(rootStdout, fs)
			return ExitOK
		}
		fmt.Fprintf(rootStderr, "itermctl: %v\n", err)
		return ExitUsage
	}

	if opts.help {
		printRootHelp(rootStdout, fs)
		return ExitOK
	}
	if opts.version {
		fmt.Fprintf(rootStdout, "itermctl %s\n", buildVersion)
		return ExitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(rootStderr, "itermctl: unexpected argument: %s\n", fs.Arg(0))
		return ExitUsage
	}

	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(rootStderr, "itermctl: %v\n", err)
		return ExitUsage
	}
	applyOverrides(cfg, fs, &opts)
	if verr := config.Validate(cfg); verr != nil {
		fmt.Fprintf(rootStderr, "itermctl: invalid config: %v\n", verr)
		return ExitUsage
	}

	switch {
	case opts.initConfig:
		return initConfig(path, cfg)
	case opts.listTools:
		return listTools(cfg)
	}

	logger, err := logging.New(rootStderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(rootStderr, "itermctl: %v\n", err)
		return ExitUsage
	}

	if err := daemonRun(context.Background(), daemon.Options{
		Config:        cfg,
		Logger:        logger,
		SkipPreflight: opts.noPreflight,
	}); err != nil {
		logger.Error("itermctl stopped", "error", err)
		return ExitRuntime
	}
	return ExitOK
}

func initConfig(path string, cfg *config.Config) int {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(rootStderr, "itermctl: config already exists at %s\n", path)
		return ExitUsage
	}
	if err := config.SaveTo(path, cfg); err != nil {
		fmt.Fprintf(rootStderr, "itermctl: %v\n", err)
		return ExitRuntime
	}
	fmt.Fprintf(rootStdout, "wrote %s\n", path)
	return ExitOK
}

func listTools(cfg *config.Config) int {
	reg, err := daemon.BuildRegistry(cfg, applescript.NewSystemRunner(cfg.AppleScript.Interpreter), nil)
	if err != nil {
		fmt.Fprintf(rootStderr, "itermctl: %v\n", err)
		return ExitRuntime
	}

	enc := json.NewEncoder(rootStdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reg.List()); err != nil {
		fmt.Fprintf(rootStderr, "itermctl: encoding tools: %v\n", err)
		return ExitRuntime
	}
	return ExitOK
}
