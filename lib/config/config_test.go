// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termtap.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()
	configuration := Default()
	if err := configuration.validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
	if configuration.Timeout() != 5*time.Second {
		t.Errorf("default timeout: got %v, want 5s", configuration.Timeout())
	}
	if configuration.PollInterval() != 100*time.Millisecond {
		t.Errorf("default poll interval: got %v, want 100ms", configuration.PollInterval())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
log:
  directory: /var/log/termtap
  compress: true
capture:
  timeout_seconds: 30
  poll_interval_ms: 50
real_terminal:
  disabled: true
`)

	configuration, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.Log.Directory != "/var/log/termtap" {
		t.Errorf("log directory: got %q", configuration.Log.Directory)
	}
	if !configuration.Log.Compress {
		t.Error("compress: got false")
	}
	if configuration.Timeout() != 30*time.Second {
		t.Errorf("timeout: got %v", configuration.Timeout())
	}
	if configuration.PollInterval() != 50*time.Millisecond {
		t.Errorf("poll interval: got %v", configuration.PollInterval())
	}
	if !configuration.RealTerminal.Disabled {
		t.Error("real_terminal.disabled: got false")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "capture:\n  timeout_seconds: 9\n")

	configuration, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.Capture.TimeoutSeconds != 9 {
		t.Errorf("timeout: got %d", configuration.Capture.TimeoutSeconds)
	}
	if configuration.Capture.PollIntervalMS != 100 {
		t.Errorf("poll interval kept default: got %d", configuration.Capture.PollIntervalMS)
	}
	if configuration.Log.Directory == "" {
		t.Error("log directory default lost")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
	}{
		{"zero timeout", "capture:\n  timeout_seconds: 0\n"},
		{"negative poll", "capture:\n  poll_interval_ms: -1\n"},
		{"not yaml", "{{{{"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, test.content)
			if _, err := Load(path); err == nil {
				t.Error("Load: got nil error")
			}
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	t.Parallel()
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file: got nil error")
	}
}

func TestResolveWithoutSelectionUsesDefaults(t *testing.T) {
	// Not parallel: manipulates the process environment.
	t.Setenv(EnvConfigPath, "")

	configuration, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if configuration.Capture.TimeoutSeconds != 5 {
		t.Errorf("timeout: got %d, want default 5", configuration.Capture.TimeoutSeconds)
	}
}

func TestResolveEnvVariableSelectsFile(t *testing.T) {
	path := writeConfig(t, "capture:\n  timeout_seconds: 42\n")
	t.Setenv(EnvConfigPath, path)

	configuration, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if configuration.Capture.TimeoutSeconds != 42 {
		t.Errorf("timeout: got %d, want 42", configuration.Capture.TimeoutSeconds)
	}
}

func TestResolveFlagBeatsEnv(t *testing.T) {
	envPath := writeConfig(t, "capture:\n  timeout_seconds: 1\n")
	flagPath := writeConfig(t, "capture:\n  timeout_seconds: 2\n")
	t.Setenv(EnvConfigPath, envPath)

	configuration, err := Resolve(flagPath)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if configuration.Capture.TimeoutSeconds != 2 {
		t.Errorf("timeout: got %d, want flag file value 2", configuration.Capture.TimeoutSeconds)
	}
}
