// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds binary entrypoint helpers shared by termtap
// commands.
package process

import (
	"fmt"
	"os"
)

// Fatal writes "error: err" to stderr and exits with code 1. This is
// the standard termtap entrypoint error handler for failures before
// the structured logger is initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
