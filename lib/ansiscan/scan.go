// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package ansiscan

// escapeIntroducer begins every recognized control sequence.
const escapeIntroducer = 0x1B

// bell terminates OSC and other string-command sequences.
const bell = 0x07

// Family identifies the shape of a recognized sequence.
type Family int

const (
	// FamilyCSI is a Control Sequence Introducer sequence: ESC [
	// followed by parameter and intermediate bytes and one final byte.
	// Cursor movement, erase, mode, and graphics sequences are CSI.
	FamilyCSI Family = iota

	// FamilyOSC is an Operating System Command: ESC ] followed by a
	// string payload terminated by BEL. Window titles and similar.
	FamilyOSC

	// FamilyString covers the remaining string-payload commands
	// (DCS, SOS, PM, APC): ESC followed by P, X, ^, or _, then a
	// payload terminated by BEL.
	FamilyString

	// FamilySingleChar is a two-byte escape with no parameters:
	// ESC followed by one byte in @-Z or \-_.
	FamilySingleChar

	// FamilyMalformed marks a span that starts with ESC but does not
	// complete any recognized shape (truncated CSI at end of buffer,
	// unterminated OSC, or a bare ESC before an unrecognized byte).
	FamilyMalformed
)

// String returns the family name used in report output.
func (family Family) String() string {
	switch family {
	case FamilyCSI:
		return "CSI"
	case FamilyOSC:
		return "OSC"
	case FamilyString:
		return "string"
	case FamilySingleChar:
		return "single-char"
	case FamilyMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Match is one recognized sequence span within the scanned buffer.
// Start and End are byte offsets forming the half-open interval
// [Start, End) over the original input; Text is the covered bytes.
type Match struct {
	Text   string
	Start  int
	End    int
	Family Family
}

// Scan finds every control sequence in text, in order of appearance.
// Matches never overlap, and every scan terminates: each iteration
// advances the cursor by at least one byte, and a lone ESC that starts
// no recognizable shape is consumed as a one-byte Malformed match.
//
// Sequence shapes are attempted in priority order at each ESC byte:
// CSI, OSC, other string commands, single-character escapes. Escape
// sequences are pure ASCII, so scanning byte offsets is safe on UTF-8
// input; multi-byte runes never contain the introducer.
func Scan(text string) []Match {
	var matches []Match

	for position := 0; position < len(text); {
		if text[position] != escapeIntroducer {
			position++
			continue
		}
		match := scanSequence(text, position)
		matches = append(matches, match)
		position = match.End
	}

	return matches
}

// scanSequence classifies the sequence starting at the ESC byte at
// start. It always returns a match that consumes at least one byte.
func scanSequence(text string, start int) Match {
	if start+1 >= len(text) {
		// ESC as the final byte of the buffer.
		return malformed(text, start, len(text))
	}

	switch text[start+1] {
	case '[':
		return scanCSI(text, start)
	case ']':
		return scanOSC(text, start)
	case 'P', 'X', '^', '_':
		return scanStringCommand(text, start)
	}

	second := text[start+1]
	if (second >= '@' && second <= 'Z') || (second >= '\\' && second <= '_') {
		return Match{
			Text:   text[start : start+2],
			Start:  start,
			End:    start + 2,
			Family: FamilySingleChar,
		}
	}

	// Nothing recognizable follows the introducer. Consume only the
	// ESC byte so scanning resumes on the next byte.
	return malformed(text, start, start+1)
}

// scanCSI recognizes ESC [ followed by parameter bytes (0x30-0x3F),
// then intermediate bytes (0x20-0x2F), then one final byte (0x40-0x7E).
// A truncated sequence (end of buffer or another introducer before a
// final byte) is Malformed over the bytes consumed so far.
func scanCSI(text string, start int) Match {
	position := start + 2
	for position < len(text) && text[position] >= 0x30 && text[position] <= 0x3F {
		position++
	}
	for position < len(text) && text[position] >= 0x20 && text[position] <= 0x2F {
		position++
	}
	if position >= len(text) || text[position] == escapeIntroducer {
		return malformed(text, start, position)
	}
	if text[position] >= 0x40 && text[position] <= 0x7E {
		return Match{
			Text:   text[start : position+1],
			Start:  start,
			End:    position + 1,
			Family: FamilyCSI,
		}
	}
	// A byte that is neither parameter, intermediate, nor final (for
	// example a control character mid-sequence). The consumed prefix
	// is malformed; scanning resumes on the offending byte.
	return malformed(text, start, position)
}

// scanOSC recognizes ESC ] followed by any bytes except BEL, terminated
// by BEL. An unterminated payload runs to the end of the buffer and is
// Malformed.
func scanOSC(text string, start int) Match {
	position := start + 2
	for position < len(text) && text[position] != bell {
		position++
	}
	if position >= len(text) {
		return malformed(text, start, len(text))
	}
	return Match{
		Text:   text[start : position+1],
		Start:  start,
		End:    position + 1,
		Family: FamilyOSC,
	}
}

// scanStringCommand recognizes ESC followed by P, X, ^, or _, then a
// payload excluding ESC and BEL, terminated by BEL.
func scanStringCommand(text string, start int) Match {
	position := start + 2
	for position < len(text) && text[position] != bell && text[position] != escapeIntroducer {
		position++
	}
	if position >= len(text) || text[position] == escapeIntroducer {
		return malformed(text, start, position)
	}
	return Match{
		Text:   text[start : position+1],
		Start:  start,
		End:    position + 1,
		Family: FamilyString,
	}
}

func malformed(text string, start, end int) Match {
	return Match{
		Text:   text[start:end],
		Start:  start,
		End:    end,
		Family: FamilyMalformed,
	}
}
