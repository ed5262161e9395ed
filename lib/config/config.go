// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for termtap.
//
// Configuration is loaded from a single YAML file specified by:
//   - the TERMTAP_CONFIG environment variable, or
//   - the --config flag passed to the command.
//
// There are no fallbacks or automatic discovery: when neither is set,
// the built-in defaults apply. This keeps configuration deterministic
// and auditable with no hidden overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath is the environment variable naming the config file.
const EnvConfigPath = "TERMTAP_CONFIG"

// Config is the master configuration for termtap.
type Config struct {
	// Log configures session log persistence.
	Log LogConfig `yaml:"log"`

	// Capture configures the PTY capture loop.
	Capture CaptureConfig `yaml:"capture"`

	// RealTerminal configures the ground-truth replay collaborator.
	RealTerminal RealTerminalConfig `yaml:"real_terminal"`
}

// LogConfig configures session log persistence.
type LogConfig struct {
	// Directory receives session logs. Default: ~/.cache/termtap/logs.
	Directory string `yaml:"directory"`

	// Disabled turns session logging off entirely.
	Disabled bool `yaml:"disabled"`

	// Compress enables zstd compression for large logs.
	Compress bool `yaml:"compress"`
}

// CaptureConfig configures the PTY capture loop.
type CaptureConfig struct {
	// TimeoutSeconds is the default capture deadline. Default: 5.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// PollIntervalMS is the readiness poll interval in milliseconds.
	// Default: 100. This bounds deadline-check and interrupt latency.
	PollIntervalMS int `yaml:"poll_interval_ms"`

	// Shell runs commands via `shell -c`. Empty prefers bash.
	Shell string `yaml:"shell"`
}

// RealTerminalConfig configures the replay validation collaborator.
type RealTerminalConfig struct {
	// Disabled skips the real-terminal comparison by default.
	Disabled bool `yaml:"disabled"`

	// Shell used for the replay. Empty means bash.
	Shell string `yaml:"shell"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Directory: defaultLogDirectory(),
		},
		Capture: CaptureConfig{
			TimeoutSeconds: 5,
			PollIntervalMS: 100,
		},
	}
}

// Load reads and parses the config file at path, layering it over the
// defaults. A missing file or malformed YAML is an error; an
// explicitly selected config must load or the invocation stops.
func Load(path string) (Config, error) {
	configuration := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &configuration); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := configuration.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return configuration, nil
}

// Resolve returns the configuration for this invocation: the file
// named by flagPath when non-empty, else by TERMTAP_CONFIG, else the
// defaults.
func Resolve(flagPath string) (Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Timeout returns the capture deadline as a duration.
func (configuration Config) Timeout() time.Duration {
	return time.Duration(configuration.Capture.TimeoutSeconds) * time.Second
}

// PollInterval returns the readiness poll interval as a duration.
func (configuration Config) PollInterval() time.Duration {
	return time.Duration(configuration.Capture.PollIntervalMS) * time.Millisecond
}

func (configuration Config) validate() error {
	if configuration.Capture.TimeoutSeconds <= 0 {
		return fmt.Errorf("capture.timeout_seconds must be positive, got %d", configuration.Capture.TimeoutSeconds)
	}
	if configuration.Capture.PollIntervalMS <= 0 {
		return fmt.Errorf("capture.poll_interval_ms must be positive, got %d", configuration.Capture.PollIntervalMS)
	}
	if configuration.Log.Directory == "" && !configuration.Log.Disabled {
		return fmt.Errorf("log.directory must be set when logging is enabled")
	}
	return nil
}

func defaultLogDirectory() string {
	cacheDirectory, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "termtap", "logs")
	}
	return filepath.Join(cacheDirectory, "termtap", "logs")
}
