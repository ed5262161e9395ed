// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/termtap/termtap/lib/ptyrun"
)

func TestBuildPlainOutput(t *testing.T) {
	t.Parallel()
	result := ptyrun.Result{Raw: []byte("hello\n"), ExitCode: 0}

	built := Build("echo hello", result, Options{})

	if built.RawText != "hello\n" {
		t.Errorf("RawText: got %q", built.RawText)
	}
	if len(built.Sequences) != 0 {
		t.Errorf("Sequences: got %d, want 0", len(built.Sequences))
	}
	if built.Rendered != "hello\n" || built.Stripped != "hello\n" {
		t.Errorf("views diverge on plain text: rendered %q stripped %q", built.Rendered, built.Stripped)
	}
	if built.HasRealTerminal {
		t.Error("HasRealTerminal set without the replay requested")
	}

	comparison := built.Compare()
	if !comparison.RawEqualsRendered || !comparison.RawEqualsStripped || !comparison.RenderedEqualsStripped {
		t.Errorf("plain text comparison: got %+v, want all true", comparison)
	}
}

func TestBuildColoredOutput(t *testing.T) {
	t.Parallel()
	result := ptyrun.Result{Raw: []byte("\x1b[31mRed\x1b[0m"), ExitCode: 0}

	built := Build("printf red", result, Options{})

	if len(built.Sequences) != 2 {
		t.Fatalf("Sequences: got %d, want 2", len(built.Sequences))
	}
	if built.Sequences[0].Description != "Set Graphics Mode 31" {
		t.Errorf("first description: got %q", built.Sequences[0].Description)
	}
	if built.Stripped != "Red" {
		t.Errorf("Stripped: got %q", built.Stripped)
	}

	comparison := built.Compare()
	if comparison.RawEqualsStripped {
		t.Error("raw should differ from stripped when sequences are present")
	}
	if !comparison.RenderedEqualsStripped {
		t.Errorf("rendered %q should equal stripped %q for pure SGR output", built.Rendered, built.Stripped)
	}
}

func TestBuildRealTerminalFailureIsNonFatal(t *testing.T) {
	t.Parallel()
	result := ptyrun.Result{Raw: []byte("text"), ExitCode: 0}

	built := Build("true", result, Options{
		RealTerminal:      true,
		RealTerminalShell: "/termtap/no/such/shell",
	})

	if built.HasRealTerminal {
		t.Error("HasRealTerminal set after replay failure")
	}
	if built.RealTerminalError == "" {
		t.Error("RealTerminalError empty after replay failure")
	}
	if built.RawText != "text" {
		t.Errorf("analysis lost on replay failure: RawText %q", built.RawText)
	}
}

func TestFormatContainsSections(t *testing.T) {
	t.Parallel()
	result := ptyrun.Result{Raw: []byte("\x1b[31mRed\x1b[0m"), ExitCode: 3, TimedOut: true}
	built := Build("demo", result, Options{})

	text := Format(built, FormatOptions{Compare: true, Hex: true})

	for _, want := range []string{
		"command:    demo",
		"exit code:  3",
		"timed out:  true",
		"Escape sequences found: 2",
		"Set Graphics Mode 31",
		"Raw output",
		"Rendered output",
		"Stripped output",
		"Comparison",
		"Hex dump",
		`"\x1b[31mRed\x1b[0m"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Format output missing %q", want)
		}
	}
}

func TestFormatOmitsOptionalSections(t *testing.T) {
	t.Parallel()
	built := Build("demo", ptyrun.Result{Raw: []byte("plain")}, Options{})

	text := Format(built, FormatOptions{})

	if strings.Contains(text, "Comparison") {
		t.Error("comparison section present without Compare")
	}
	if strings.Contains(text, "Hex dump") {
		t.Error("hex dump section present without Hex")
	}
}

func TestFormatTruncatesLongSequenceLists(t *testing.T) {
	t.Parallel()
	var input strings.Builder
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&input, "\x1b[%dm", i)
	}
	built := Build("demo", ptyrun.Result{Raw: []byte(input.String())}, Options{})

	text := Format(built, FormatOptions{})

	if !strings.Contains(text, "Escape sequences found: 25") {
		t.Error("sequence count missing")
	}
	if !strings.Contains(text, "... and 15 more sequences") {
		t.Error("truncation marker missing")
	}
}

func TestFormatNotesSuppressedSequences(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("plain output without any colors here\n", 3)
	built := Build("ls", ptyrun.Result{Raw: []byte(long)}, Options{})

	text := Format(built, FormatOptions{})

	if !strings.Contains(text, "suppress escape sequences") {
		t.Error("suppression note missing for long sequence-free output")
	}
}

func TestHexDump(t *testing.T) {
	t.Parallel()

	if got := HexDump(nil); got != "no data" {
		t.Errorf("empty dump: got %q", got)
	}

	got := HexDump([]byte("\x1b[31mRed"))
	if !strings.HasPrefix(got, "00000000:") {
		t.Errorf("offset prefix missing: %q", got)
	}
	if !strings.Contains(got, "1b 5b 33 31 6d 52 65 64") {
		t.Errorf("hex bytes missing: %q", got)
	}
	if !strings.Contains(got, "|.[31mRed|") {
		t.Errorf("ascii gutter: %q", got)
	}

	two := HexDump([]byte(strings.Repeat("a", 17)))
	if len(strings.Split(two, "\n")) != 2 {
		t.Errorf("17 bytes should span two rows: %q", two)
	}
	if !strings.Contains(two, "00000010: 61") {
		t.Errorf("second row offset: %q", two)
	}
}

func TestVisibleControls(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		chunk string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"newline passes", "a\nb", "a\nb"},
		{"tab and cr pass", "a\tb\r", "a\tb\r"},
		{"escape quoted", "\x1b[31m", `\x1b[31m`},
		{"bell quoted", "\a", `\a`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := VisibleControls([]byte(test.chunk)); got != test.want {
				t.Errorf("VisibleControls(%q): got %q, want %q", test.chunk, got, test.want)
			}
		})
	}
}
