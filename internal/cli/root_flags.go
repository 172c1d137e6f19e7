package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/lydakis/itermctl/internal/config"
	"github.com/spf13/pflag"
)

var (
	rootStdout   io.Writer = os.Stdout
	rootStderr   io.Writer = os.Stderr
	buildVersion           = "dev"
)

func init() {
	buildVersion = resolveBuildVersion(buildVersion)
}

type rootOptions struct {
	configPath  string
	address     string
	port        int
	namespace   string
	logLevel    string
	logFormat   string
	timeout     string
	tty         string
	noPreflight bool
	listTools   bool
	initConfig  bool
	version     bool
	help        bool
}

func newFlagSet(opts *rootOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet("itermctl", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	fs.StringVar(&opts.address, "address", config.DefaultAddress, "address to listen on")
	fs.IntVar(&opts.port, "port", config.DefaultPort, "TCP port to listen on")
	fs.StringVar(&opts.namespace, "namespace", config.DefaultNamespace, "prefix for tool names")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", "auto", "log format: auto, text, json")
	fs.StringVar(&opts.timeout, "timeout", config.DefaultTimeout.String(), "AppleScript timeout")
	fs.StringVar(&opts.tty, "tty", "", "pin the TTY device instead of asking iTerm2")
	fs.BoolVar(&opts.noPreflight, "no-preflight", false, "skip the macOS, interpreter and iTerm2 checks")
	fs.BoolVar(&opts.listTools, "list-tools", false, "print tool definitions as JSON and exit")
	fs.BoolVar(&opts.initConfig, "init-config", false, "write the effective config to the config file and exit")
	fs.BoolVarP(&opts.version, "version", "V", false, "show version")
	fs.BoolVarP(&opts.help, "help", "h", false, "show help")
	return fs
}

// applyOverrides copies explicitly set flags over cfg.
func applyOverrides(cfg *config.Config, fs *pflag.FlagSet, opts *rootOptions) {
	if fs.Changed("address") {
		cfg.Server.Address = opts.address
	}
	if fs.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if fs.Changed("namespace") {
		cfg.Server.Namespace = opts.namespace
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
	if fs.Changed("timeout") {
		cfg.AppleScript.Timeout = opts.timeout
	}
	if fs.Changed("tty") {
		cfg.TTY.Path = opts.tty
	}
}

func resolveBuildVersion(defaultVersion string) string {
	if defaultVersion != "" && defaultVersion != "dev" {
		return defaultVersion
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return defaultVersion
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return defaultVersion
	}
	return info.Main.Version
}

func printRootHelp(out io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(out, "itermctl drives the active iTerm2 session over a line-delimited JSON TCP protocol.")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  itermctl [flags]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Flags:")
	fmt.Fprint(out, fs.FlagUsages())
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Flags override values from the config file.")
}
