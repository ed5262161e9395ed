// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// Package ansiscan recognizes and classifies terminal escape sequences
// in captured output.
//
// The scanner is a pure function over a character buffer: it finds
// every recognizable control sequence, records its span, and tags it
// with a sequence family (CSI, OSC, string command, single-character
// escape, or malformed). The describer maps each recognized sequence
// to a human-readable description using fixed defaulting rules.
//
// Neither function performs I/O and neither can fail: unrecognizable
// input degrades to Malformed matches with generic descriptions rather
// than errors, so analysis always produces a complete result.
package ansiscan
