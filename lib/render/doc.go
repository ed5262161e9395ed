// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns raw captured terminal output into visible text.
//
// Strip removes every escape sequence and control byte, leaving only
// printable content in order. Render goes one step further and
// approximates what a terminal would display by applying in-line
// carriage-return overwrites and backspaces before dropping the
// remaining control content. Neither maintains a screen grid; cursor
// addressing and scroll regions are labeled by the scanner but not
// simulated here.
//
// RealTerminal replays captured bytes through an actual shell and
// renders the result, giving a ground-truth reference for validating
// the approximation.
package render
