// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package ansiscan

import (
	"fmt"
	"strings"
)

// Described is a Match augmented with its decomposition: the command
// code (CSI final byte or single-character escape byte, 0 when the
// family has none), the ordered parameter list (empty strings mean
// "use the default"), and a human-readable description.
type Described struct {
	Match

	Command     byte
	Params      []string
	Description string
}

// Describe decomposes a match and attaches a semantic description.
// It is total: every match, including Malformed ones, produces a
// description. Unrecognized CSI final bytes echo the command code and
// raw parameter string instead of failing.
func Describe(match Match) Described {
	described := Described{Match: match}

	switch match.Family {
	case FamilyCSI:
		content := match.Text[2 : len(match.Text)-1]
		described.Command = match.Text[len(match.Text)-1]
		described.Params = strings.Split(content, ";")
		described.Description = describeCSI(described.Command, content, described.Params)
	case FamilyOSC:
		payload := strings.TrimSuffix(match.Text[2:], "\a")
		described.Description = "OSC (Operating System Command): " + payload
	case FamilyString, FamilySingleChar:
		if len(match.Text) >= 2 {
			described.Command = match.Text[1]
		}
		described.Description = "Other ANSI sequence: " + match.Text[1:]
	default:
		described.Description = fmt.Sprintf("Malformed or incomplete sequence: %q", match.Text)
	}

	return described
}

// describeCSI maps a CSI final byte and its raw parameter content to a
// description. The recognized set is closed; anything else falls
// through to a generic echo of the command and parameters.
//
// Defaulting rules: cursor-movement commands (A-G) treat a missing or
// empty parameter as 1; erase commands (J, K) as 0; cursor-position
// commands (H, f) default each axis to 1 independently.
func describeCSI(command byte, content string, params []string) string {
	switch command {
	case 'A':
		return fmt.Sprintf("Cursor Up %s lines", orDefault(content, "1"))
	case 'B':
		return fmt.Sprintf("Cursor Down %s lines", orDefault(content, "1"))
	case 'C':
		return fmt.Sprintf("Cursor Forward %s columns", orDefault(content, "1"))
	case 'D':
		return fmt.Sprintf("Cursor Back %s columns", orDefault(content, "1"))
	case 'E':
		return fmt.Sprintf("Cursor Next Line %s", orDefault(content, "1"))
	case 'F':
		return fmt.Sprintf("Cursor Previous Line %s", orDefault(content, "1"))
	case 'G':
		return fmt.Sprintf("Cursor Horizontal Absolute column %s", orDefault(content, "1"))
	case 'H', 'f':
		row := "1"
		column := "1"
		if len(params) > 0 {
			row = orDefault(params[0], "1")
		}
		if len(params) > 1 {
			column = orDefault(params[1], "1")
		}
		return fmt.Sprintf("Cursor Position row %s, col %s", row, column)
	case 'J':
		return fmt.Sprintf("Erase Display %s (0=cursor to end, 1=start to cursor, 2=entire screen)", orDefault(content, "0"))
	case 'K':
		return fmt.Sprintf("Erase Line %s (0=cursor to end, 1=start to cursor, 2=entire line)", orDefault(content, "0"))
	case 's':
		return "Save Cursor Position"
	case 'u':
		return "Restore Cursor Position"
	case 'm':
		// SGR 0 is the explicit full reset, so bare "m" and "0m"
		// describe identically.
		if content == "" || content == "0" {
			return "Reset Graphics Mode"
		}
		return "Set Graphics Mode " + content
	case 'h':
		return "Set Mode " + content
	case 'l':
		return "Reset Mode " + content
	default:
		return fmt.Sprintf("CSI %c with params %q", command, content)
	}
}

// DescribeAll scans text and describes every match in one pass.
func DescribeAll(text string) []Described {
	matches := Scan(text)
	described := make([]Described, len(matches))
	for index, match := range matches {
		described[index] = Describe(match)
	}
	return described
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
