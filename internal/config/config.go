// Package config handles daemon configuration: defaults, the YAML
// config file, and key=value overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds daemon configuration.
type Config struct {
	// Enabled is the initial state of automatic locking.
	Enabled bool `yaml:"is_enabled"`

	// Triggers are the commands that force the locked mode.
	Triggers []string `yaml:"triggers"`

	// ReactionSeconds is the debounce latency. Must be positive.
	ReactionSeconds float64 `yaml:"reaction_seconds"`

	// PrintToLog enables diagnostic output (debug level logging).
	PrintToLog bool `yaml:"print_to_log"`

	// Socket is the control-socket path.
	Socket string `yaml:"socket"`

	// Session is the tmux session to attach to. Empty attaches to the
	// most recently used session.
	Session string `yaml:"session"`

	// LogFile receives log output instead of stderr when set.
	LogFile string `yaml:"log_file"`
}

// fileConfig mirrors Config with optional scalars so an absent key can
// be told apart from an explicit false or zero.
type fileConfig struct {
	Enabled         *bool    `yaml:"is_enabled"`
	Triggers        []string `yaml:"triggers"`
	ReactionSeconds *float64 `yaml:"reaction_seconds"`
	PrintToLog      *bool    `yaml:"print_to_log"`
	Socket          string   `yaml:"socket"`
	Session         string   `yaml:"session"`
	LogFile         string   `yaml:"log_file"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Enabled:         true,
		Triggers:        []string{"vim", "nvim"},
		ReactionSeconds: 0.3,
		PrintToLog:      false,
		Socket:          DefaultSocketPath(),
	}
}

// Reaction returns the debounce latency as a duration.
func (c *Config) Reaction() time.Duration {
	return time.Duration(c.ReactionSeconds * float64(time.Second))
}

// Validate reports whether the configuration is usable. A non-positive
// reaction latency is a fatal error: retrying with a broken timer
// duration cannot succeed.
func (c *Config) Validate() error {
	if c.ReactionSeconds <= 0 {
		return fmt.Errorf("reaction_seconds must be positive, got %v", c.ReactionSeconds)
	}
	return nil
}

// Load loads configuration from the default config file, falling back
// to defaults when the file does not exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile())
}

// LoadFrom loads configuration from path, merging file values over
// defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	mergeConfig(cfg, &fileCfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges file configuration into the default configuration.
// Only keys present in the file are applied.
func mergeConfig(dst *Config, src *fileConfig) {
	if src.Enabled != nil {
		dst.Enabled = *src.Enabled
	}
	if src.Triggers != nil {
		dst.Triggers = src.Triggers
	}
	if src.ReactionSeconds != nil {
		dst.ReactionSeconds = *src.ReactionSeconds
	}
	if src.PrintToLog != nil {
		dst.PrintToLog = *src.PrintToLog
	}
	if src.Socket != "" {
		dst.Socket = src.Socket
	}
	if src.Session != "" {
		dst.Session = src.Session
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
}

// ApplyPairs applies key=value overrides on top of c. It implements
// the plain-string configuration surface: truthy flags accept
// "true", "t", "y" or "1"; triggers are pipe-delimited. An unparsable
// reaction latency is an error; unknown keys are ignored.
func (c *Config) ApplyPairs(pairs map[string]string) error {
	for key, value := range pairs {
		switch key {
		case "is_enabled":
			c.Enabled = truthy(value)
		case "triggers":
			c.Triggers = splitTriggers(value)
		case "reaction_seconds":
			seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return fmt.Errorf("invalid reaction_seconds %q: %w", value, err)
			}
			c.ReactionSeconds = seconds
		case "print_to_log":
			c.PrintToLog = truthy(value)
		case "socket":
			c.Socket = value
		case "session":
			c.Session = value
		case "log_file":
			c.LogFile = value
		}
	}
	return c.Validate()
}

// truthy reports whether a configuration string means enabled.
// Anything outside the accepted spellings disables.
func truthy(value string) bool {
	switch strings.TrimSpace(value) {
	case "true", "t", "y", "1":
		return true
	}
	return false
}

// splitTriggers splits a pipe-delimited trigger spec, trimming entries
// and dropping empties.
func splitTriggers(spec string) []string {
	var names []string
	for _, entry := range strings.Split(spec, "|") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			names = append(names, entry)
		}
	}
	return names
}

// Render returns the configuration as YAML, for diff logging and the
// inspector's config view.
func (c *Config) Render() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		// Config is a plain struct; marshaling cannot realistically fail
		return ""
	}
	return string(data)
}

// DefaultConfigFile returns the path of the config file.
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigDir(), "config.yaml")
}

// defaultConfigDir returns the configuration directory.
func defaultConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "autolock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".autolock"
	}
	return filepath.Join(home, ".config", "autolock")
}

// DefaultSocketPath returns the control-socket path.
func DefaultSocketPath() string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "autolock.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("autolock-%d.sock", os.Getuid()))
}
