// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"github.com/termtap/termtap/lib/ansiscan"
	"github.com/termtap/termtap/lib/ptyrun"
	"github.com/termtap/termtap/lib/render"
)

// Options selects the optional report inputs.
type Options struct {
	// RealTerminal enables the ground-truth replay comparison.
	RealTerminal bool

	// RealTerminalShell is the shell used for the replay. Empty
	// means bash.
	RealTerminalShell string
}

// Report is the full analysis of one captured execution.
type Report struct {
	Command  string
	ExitCode int
	TimedOut bool

	// RawText is the captured byte stream decoded losslessly.
	RawText string

	// Sequences is every recognized escape sequence, in order.
	Sequences []ansiscan.Described

	// Rendered approximates what a terminal displays for RawText.
	Rendered string

	// Stripped is RawText with all escape content removed.
	Stripped string

	// RealTerminal is the replay reference, present only when the
	// replay was requested and succeeded.
	RealTerminal string

	// RealTerminalError carries the replay failure as text. The
	// replay is validation-only, so failure never aborts the report.
	RealTerminalError string

	// HasRealTerminal is true when RealTerminal holds a usable
	// reference.
	HasRealTerminal bool
}

// Comparison relates the report's views to each other. The
// real-terminal rows are meaningful only when HasRealTerminal is set.
type Comparison struct {
	RawEqualsRendered      bool
	RawEqualsStripped      bool
	RenderedEqualsStripped bool
	RealEqualsRendered     bool
	RealEqualsStripped     bool
}

// Build assembles the report for one execution result. It runs the
// scanner and describer over the decoded capture, applies the render
// and strip collaborators, and optionally obtains the real-terminal
// reference.
func Build(command string, result ptyrun.Result, options Options) Report {
	rawText := result.Text()

	built := Report{
		Command:   command,
		ExitCode:  result.ExitCode,
		TimedOut:  result.TimedOut,
		RawText:   rawText,
		Sequences: ansiscan.DescribeAll(rawText),
		Rendered:  render.Render(rawText),
		Stripped:  render.Strip(rawText),
	}

	if options.RealTerminal {
		reference, err := render.RealTerminal(rawText, options.RealTerminalShell)
		if err != nil {
			built.RealTerminalError = err.Error()
		} else {
			built.RealTerminal = reference
			built.HasRealTerminal = true
		}
	}

	return built
}

// Compare computes the equality matrix between the report's views.
func (built Report) Compare() Comparison {
	comparison := Comparison{
		RawEqualsRendered:      built.RawText == built.Rendered,
		RawEqualsStripped:      built.RawText == built.Stripped,
		RenderedEqualsStripped: built.Rendered == built.Stripped,
	}
	if built.HasRealTerminal {
		comparison.RealEqualsRendered = built.RealTerminal == built.Rendered
		comparison.RealEqualsStripped = built.RealTerminal == built.Stripped
	}
	return comparison
}
