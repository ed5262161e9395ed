// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionlog persists captured sessions to disk.
//
// Each session produces a human-readable log file named by capture
// start time and a sanitized form of the command, written once at
// session end. A machine-readable CBOR sidecar carries the same
// record plus the described sequence list for later tooling.
//
// Persistence is best-effort: every failure here is a
// warning for the caller to report, never a reason to abort the
// analysis that the log describes.
package sessionlog
