// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/termtap/termtap/lib/ansiscan"
)

// maxListedSequences bounds the sequence analysis section; captures
// from full-screen programs can contain thousands of sequences.
const maxListedSequences = 10

// hexDumpWidth is the number of bytes per hex dump row.
const hexDumpWidth = 16

// FormatOptions selects which report sections to emit.
type FormatOptions struct {
	// Hex includes the full hex dump of the raw capture.
	Hex bool

	// Compare includes the equality matrix between views.
	Compare bool
}

// renderer is pinned to the color profile termenv detects for stdout
// at startup. Piped output stays free of styling sequences, which
// would be confusing noise in a tool whose subject is exactly those
// sequences.
var renderer = newRenderer(os.Stdout)

var (
	headerStyle  = renderer.NewStyle().Bold(true)
	sectionStyle = renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			PaddingLeft(1).
			PaddingRight(1)
)

func newRenderer(output *os.File) *lipgloss.Renderer {
	profile := termenv.NewOutput(output).EnvColorProfile()
	lipRenderer := lipgloss.NewRenderer(output, termenv.WithProfile(profile))
	lipRenderer.SetColorProfile(profile)
	return lipRenderer
}

// Format renders the report as terminal text. Styling degrades
// automatically on non-terminal output through lipgloss's color
// profile detection.
func Format(built Report, options FormatOptions) string {
	var output strings.Builder

	output.WriteString(headerStyle.Render("termtap analysis"))
	output.WriteString("\n")
	fmt.Fprintf(&output, "command:    %s\n", built.Command)
	fmt.Fprintf(&output, "exit code:  %d\n", built.ExitCode)
	fmt.Fprintf(&output, "timed out:  %t\n", built.TimedOut)
	fmt.Fprintf(&output, "raw length: %d characters\n\n", len(built.RawText))

	output.WriteString(formatSequences(built.Sequences))

	output.WriteString(section("Raw output (with escape sequences)", quoteLines(built.RawText)))
	if built.HasRealTerminal {
		output.WriteString(section("Real terminal output (replay rendered)", quoteLines(built.RealTerminal)))
	} else if built.RealTerminalError != "" {
		output.WriteString(section("Real terminal output", "unavailable: "+built.RealTerminalError))
	}
	output.WriteString(section("Rendered output (renderer result)", quoteLines(built.Rendered)))
	output.WriteString(section("Stripped output (escape sequences removed)", quoteLines(built.Stripped)))

	if options.Compare {
		output.WriteString(formatComparison(built))
	}
	if options.Hex {
		output.WriteString(section("Hex dump", HexDump([]byte(built.RawText))))
	}

	if len(built.Sequences) == 0 && len(built.RawText) > 50 {
		output.WriteString("note: some commands suppress escape sequences when their output is captured;\n")
		output.WriteString("try explicit sequences, e.g. termtap \"printf '\\033[31mRed\\033[0m'\"\n")
	}

	return output.String()
}

// formatSequences lists the described sequences, truncated past
// maxListedSequences.
func formatSequences(sequences []ansiscan.Described) string {
	var body strings.Builder
	if len(sequences) == 0 {
		body.WriteString("none found")
	}
	for index, sequence := range sequences {
		if index == maxListedSequences {
			fmt.Fprintf(&body, "... and %d more sequences", len(sequences)-maxListedSequences)
			break
		}
		if index > 0 {
			body.WriteString("\n")
		}
		fmt.Fprintf(&body, "%2d. %-22s -> %s", index+1, strconv.Quote(sequence.Text), sequence.Description)
	}
	title := fmt.Sprintf("Escape sequences found: %d", len(sequences))
	return section(title, body.String())
}

// formatComparison emits the equality matrix between the report views.
func formatComparison(built Report) string {
	comparison := built.Compare()

	var body strings.Builder
	fmt.Fprintf(&body, "raw == rendered:       %t\n", comparison.RawEqualsRendered)
	fmt.Fprintf(&body, "raw == stripped:       %t\n", comparison.RawEqualsStripped)
	fmt.Fprintf(&body, "rendered == stripped:  %t", comparison.RenderedEqualsStripped)
	if built.HasRealTerminal {
		fmt.Fprintf(&body, "\nreal == rendered:      %t", comparison.RealEqualsRendered)
		fmt.Fprintf(&body, "\nreal == stripped:      %t", comparison.RealEqualsStripped)
		if comparison.RealEqualsRendered {
			body.WriteString("\nrenderer matches the real terminal output")
		} else {
			body.WriteString("\nrenderer differs from the real terminal output")
		}
	}
	return section("Comparison", body.String())
}

// section renders one titled, bordered report block.
func section(title, body string) string {
	if body == "" {
		body = "(empty)"
	}
	return headerStyle.Render(title) + "\n" + sectionStyle.Render(body) + "\n\n"
}

// quoteLines shows content with control bytes visible: each line is
// rendered in quoted form so escape sequences read as \x1b[... text.
func quoteLines(content string) string {
	if content == "" {
		return ""
	}
	lines := strings.Split(content, "\n")
	quoted := make([]string, len(lines))
	for index, line := range lines {
		quoted[index] = strconv.Quote(line)
	}
	return strings.Join(quoted, "\n")
}

// HexDump formats data as offset-prefixed rows of hex bytes with an
// ASCII gutter, 16 bytes per row.
func HexDump(data []byte) string {
	if len(data) == 0 {
		return "no data"
	}

	var output strings.Builder
	for offset := 0; offset < len(data); offset += hexDumpWidth {
		row := data[offset:min(offset+hexDumpWidth, len(data))]

		fmt.Fprintf(&output, "%08x:", offset)
		for _, value := range row {
			fmt.Fprintf(&output, " %02x", value)
		}
		output.WriteString(strings.Repeat("   ", hexDumpWidth-len(row)))

		output.WriteString(" |")
		for _, value := range row {
			if value >= 0x20 && value <= 0x7E {
				output.WriteByte(value)
			} else {
				output.WriteByte('.')
			}
		}
		output.WriteString("|")
		if offset+hexDumpWidth < len(data) {
			output.WriteString("\n")
		}
	}
	return output.String()
}

// VisibleControls makes control bytes in a live output chunk readable:
// newline, carriage return, and tab pass through, every other control
// byte appears in quoted form (for example \x1b). Used by the
// interactive bridge to show sequences literally instead of letting
// the terminal interpret them.
func VisibleControls(chunk []byte) string {
	var output strings.Builder
	for _, value := range chunk {
		if value < 0x20 && value != '\n' && value != '\r' && value != '\t' {
			quoted := strconv.Quote(string(rune(value)))
			output.WriteString(quoted[1 : len(quoted)-1])
		} else {
			output.WriteByte(value)
		}
	}
	return output.String()
}
