// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package ptyrun

import "unicode/utf8"

// Result is the outcome of one command execution: the raw captured
// bytes and how the capture ended. It is immutable once returned.
type Result struct {
	// Raw is every byte the child wrote to the terminal, in order,
	// escape sequences included.
	Raw []byte

	// ExitCode is the child's exit code, or -1 when the child was
	// still running at capture end (timeout or interrupt) or was
	// killed by the cleanup signal.
	ExitCode int

	// TimedOut is true when the capture deadline expired before the
	// child exited. The partial output in Raw is still valid.
	TimedOut bool

	// Interrupted is true when an interactive relay ended early on
	// the interrupt byte rather than child exit.
	Interrupted bool
}

// Text returns the captured bytes decoded for analysis. Valid UTF-8
// decodes directly. Anything else falls back to a byte-to-rune mapping
// (Latin-1 style) so that every captured byte maps to exactly one
// character and none is dropped.
func (result Result) Text() string {
	return DecodeText(result.Raw)
}

// DecodeText decodes raw captured bytes to a string without loss. See
// Result.Text.
func DecodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	characters := make([]rune, len(raw))
	for index, value := range raw {
		characters[index] = rune(value)
	}
	return string(characters)
}
