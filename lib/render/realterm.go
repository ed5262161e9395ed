// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// realTerminalTimeout bounds the replay shell. The replay only cats a
// heredoc, so anything beyond a few seconds means a wedged shell.
const realTerminalTimeout = 5 * time.Second

// RealTerminal replays the captured bytes through a real shell and
// renders what it emits. The bytes are embedded in a quoted heredoc so
// the shell performs no expansion: it writes them to stdout exactly
// as captured, after its own terminal-layer processing.
//
// This is the validation reference for Render: a disagreement between
// the two marks an approximation in the renderer, not necessarily a
// bug. Any execution failure is returned as an error for the caller
// to surface as text; it never aborts the surrounding analysis.
func RealTerminal(raw string, shell string) (string, error) {
	if shell == "" {
		shell = "bash"
	}

	scriptDirectory, err := os.MkdirTemp("", "termtap-replay-")
	if err != nil {
		return "", fmt.Errorf("create replay script directory: %w", err)
	}
	defer os.RemoveAll(scriptDirectory)

	scriptPath := filepath.Join(scriptDirectory, "replay.sh")
	script := "#!/usr/bin/env " + shell + "\ncat << 'TERMTAP_REPLAY_EOF'\n" + raw + "\nTERMTAP_REPLAY_EOF\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		return "", fmt.Errorf("write replay script: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), realTerminalTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, shell, scriptPath)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("replay shell timed out after %v", realTerminalTimeout)
		}
		return "", fmt.Errorf("replay shell failed: %w (stderr: %s)", err, bytes.TrimSpace(stderr.Bytes()))
	}

	// The heredoc delimiter forces a final newline onto captures that
	// did not end with one; drop it so the views stay comparable.
	output := stdout.String()
	if !strings.HasSuffix(raw, "\n") {
		output = strings.TrimSuffix(output, "\n")
	}
	return Render(output), nil
}
