// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package ptyrun

import "time"

// Capture opens a session for command, drains it to completion under
// the deadline, and releases the PTY. This is the one-shot entry point
// for non-interactive analysis; the error is always a *SpawnError.
func Capture(command string, deadline time.Duration, options Options) (Result, error) {
	session, err := Open(command, options)
	if err != nil {
		return Result{}, err
	}
	defer session.Close()

	return session.Drain(deadline), nil
}

// CaptureInteractive opens a session for command and relays it against
// the given keyboard source until child exit or interrupt. The error
// is always a *SpawnError.
func CaptureInteractive(command string, relay RelayOptions, options Options) (Result, error) {
	session, err := Open(command, options)
	if err != nil {
		return Result{}, err
	}
	defer session.Close()

	return session.Relay(relay), nil
}
