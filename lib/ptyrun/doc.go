// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// Package ptyrun executes a child command under a pseudo-terminal and
// captures every byte it writes.
//
// A Session owns the PTY descriptor pair and the child process for its
// lifetime. The child runs through a shell in its own session and
// process group with the PTY slave as its controlling terminal, so
// terminal-aware programs emit the same escape sequences they would on
// a real terminal, and cleanup can signal the whole group.
//
// Two drive modes share the same readiness-polling discipline:
//
//   - Drain captures output until the child exits, the deadline
//     passes, or the stream ends, and returns a buffered Result.
//   - Relay additionally bridges a real keyboard to the child,
//     handing each output chunk to a callback for live display.
//
// All multiplexing is a single-threaded poll loop with a bounded wait
// interval; the only goroutine is the process reaper, which exists
// because waiting on a child is not a file-descriptor readiness event.
package ptyrun
