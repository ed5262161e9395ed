// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Strip removes all escape sequences from text, returning only the
// printable content in its original order. Text with no escape
// introducer bytes passes through unchanged.
func Strip(text string) string {
	return ansi.Strip(text)
}

// Render approximates the text a terminal would display for the given
// raw output. It is deterministic and total: every input produces a
// result, and no input can fail.
//
// Within each line, a carriage return moves the write position back to
// column zero so later bytes overwrite earlier ones, and a backspace
// steps the write position back one cell. Escape sequences are
// consumed and dropped. Cursor-addressing sequences are not simulated;
// output order follows input order line by line.
func Render(text string) string {
	var output strings.Builder
	line := newLineBuffer()

	var state byte
	remaining := text
	for len(remaining) > 0 {
		sequence, displayWidth, byteCount, newState := ansi.DecodeSequence(remaining, state, nil)
		state = newState
		remaining = remaining[byteCount:]

		if displayWidth > 0 {
			line.write(sequence)
			continue
		}

		switch sequence {
		case "\n":
			output.WriteString(line.flush())
			output.WriteByte('\n')
		case "\r":
			line.carriageReturn()
		case "\b":
			line.backspace()
		case "\t":
			line.write("\t")
		default:
			// Escape sequence or other control byte: dropped.
		}
	}

	output.WriteString(line.flush())
	return output.String()
}

// lineBuffer holds one display line as a rune slice with an explicit
// write position, so carriage returns and backspaces overwrite
// instead of appending.
type lineBuffer struct {
	cells    []rune
	position int
}

func newLineBuffer() *lineBuffer {
	return &lineBuffer{}
}

func (line *lineBuffer) write(text string) {
	for _, character := range text {
		if line.position < len(line.cells) {
			line.cells[line.position] = character
		} else {
			line.cells = append(line.cells, character)
		}
		line.position++
	}
}

func (line *lineBuffer) carriageReturn() {
	line.position = 0
}

func (line *lineBuffer) backspace() {
	if line.position > 0 {
		line.position--
	}
}

// flush returns the line content and resets the buffer for the next line.
func (line *lineBuffer) flush() string {
	content := string(line.cells)
	line.cells = line.cells[:0]
	line.position = 0
	return content
}
