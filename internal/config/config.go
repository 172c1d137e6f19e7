package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/lydakis/itermctl/internal/paths"
)

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the config file and returns the parsed Config.
// If the config file does not exist, it returns Default() (no error).
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads and parses a config file at the given path. Keys absent
// from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
	}

	expandConfigEnvVars(cfg)
	return cfg, nil
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return paths.ConfigFile()
}

func expandConfigEnvVars(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Server.Address = expandEnvVars(cfg.Server.Address)
	cfg.Server.Namespace = expandEnvVars(cfg.Server.Namespace)
	cfg.AppleScript.Interpreter = expandEnvVars(cfg.AppleScript.Interpreter)
	cfg.AppleScript.Application = expandEnvVars(cfg.AppleScript.Application)
	cfg.AppleScript.Timeout = expandEnvVars(cfg.AppleScript.Timeout)
	cfg.TTY.Path = expandEnvVars(cfg.TTY.Path)
}

// expandEnvVars replaces ${VAR_NAME} with the value of the environment variable.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRe.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match // leave unresolved vars as-is
	})
}
