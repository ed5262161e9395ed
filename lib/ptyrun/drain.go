// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package ptyrun

import (
	"bytes"
	"time"
)

// Drain captures the child's output until it exits, the deadline
// passes, or the output stream ends. The loop re-checks child
// liveness and the deadline on every iteration, so the wall-clock
// overrun past the deadline is bounded by one poll interval.
//
// On loop exit with the child still alive, Drain performs the
// two-phase terminate (graceful signal to the process group, bounded
// wait) and returns regardless of its outcome: cleanup failure does
// not invalidate the captured bytes.
func (session *Session) Drain(deadline time.Duration) Result {
	var buffer bytes.Buffer
	started := time.Now()
	timedOut := false

	for {
		if session.checkExited() {
			// Collect bytes written between the last poll and exit.
			session.sweepRemaining(&buffer, nil)
			break
		}
		if time.Since(started) > deadline {
			timedOut = true
			break
		}
		readable, err := session.pollMaster(session.pollInterval)
		if err != nil {
			// Poll failure means the descriptor is unusable; treat
			// the stream as ended.
			break
		}
		if readable && !session.readChunk(&buffer, nil) {
			break
		}
	}

	session.terminate()

	return Result{
		Raw:      buffer.Bytes(),
		ExitCode: session.exitCode,
		TimedOut: timedOut,
	}
}
