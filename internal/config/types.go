package config

import "time"

// Config is the top-level itermctl configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
	AppleScript AppleScriptConfig `toml:"applescript"`
	TTY         TTYConfig         `toml:"tty"`
}

// ServerConfig describes the listening socket and the tool namespace.
type ServerConfig struct {
	Address   string `toml:"address"`
	Port      int    `toml:"port"`
	Namespace string `toml:"namespace"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// AppleScriptConfig configures the script interpreter used to drive the terminal.
type AppleScriptConfig struct {
	Interpreter string `toml:"interpreter"`
	Application string `toml:"application"`
	Timeout     string `toml:"timeout"`
}

// TTYConfig configures raw terminal device access.
type TTYConfig struct {
	// Path pins the device. Empty asks the terminal application.
	Path       string `toml:"path"`
	BufferSize int    `toml:"buffer_size"`
	StripANSI  bool   `toml:"strip_ansi"`
	StripMode  string `toml:"strip_mode"`
}

const (
	DefaultAddress     = "127.0.0.1"
	DefaultPort        = 3000
	DefaultNamespace   = "iterm-mcp"
	DefaultInterpreter = "/usr/bin/osascript"
	DefaultApplication = "iTerm2"
	DefaultTimeout     = 5 * time.Second
	DefaultBufferSize  = 8192

	StripModeCSI = "csi"
	StripModeAll = "all"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:   DefaultAddress,
			Port:      DefaultPort,
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		AppleScript: AppleScriptConfig{
			Interpreter: DefaultInterpreter,
			Application: DefaultApplication,
			Timeout:     DefaultTimeout.String(),
		},
		TTY: TTYConfig{
			BufferSize: DefaultBufferSize,
			StripANSI:  true,
			StripMode:  StripModeCSI,
		},
	}
}

// ScriptTimeout returns the parsed applescript timeout, or DefaultTimeout
// when the value is empty or invalid. Validate reports invalid values.
func (c AppleScriptConfig) ScriptTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}
