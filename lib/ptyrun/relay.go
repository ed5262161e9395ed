// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package ptyrun

import (
	"bytes"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// DefaultInterruptByte ends an interactive relay: Ctrl-C in raw mode.
const DefaultInterruptByte = 0x03

// RelayOptions configures an interactive relay session.
type RelayOptions struct {
	// Input is the keyboard source, typically os.Stdin. Nil means no
	// interactive input is attached: the relay only captures output.
	// Whether Input is a real terminal must be decided by the caller
	// (see RawInput), not inferred here.
	Input *os.File

	// RawInput switches Input into raw discipline (no line
	// buffering, no signal-generating control characters) for the
	// duration of the relay. Set it when Input is a real terminal.
	// The prior discipline is restored on every exit path.
	RawInput bool

	// OnOutput receives each chunk of child output as it arrives,
	// before it is added to the result buffer. Nil means capture
	// only.
	OnOutput func([]byte)

	// InterruptByte ends the session early without being forwarded
	// to the child. Zero means DefaultInterruptByte.
	InterruptByte byte
}

// Relay bridges keyboard input to the child while capturing and
// forwarding its output, using the same single-threaded readiness
// polling as Drain. Each ready input byte is written to the child
// verbatim, except the interrupt byte, which ends the session. Each
// ready output chunk goes to OnOutput and into the result buffer.
//
// The relay ends on child exit, on the interrupt byte, or when the
// output stream ends. A child still alive at that point gets the
// two-phase terminate.
func (session *Session) Relay(options RelayOptions) Result {
	interruptByte := options.InterruptByte
	if interruptByte == 0 {
		interruptByte = DefaultInterruptByte
	}

	if options.RawInput && options.Input != nil {
		inputFd := int(options.Input.Fd())
		if priorState, err := term.MakeRaw(inputFd); err == nil {
			defer term.Restore(inputFd, priorState)
		} else {
			session.logger.Warn("could not enter raw input mode", "error", err)
		}
	}

	var buffer bytes.Buffer
	interrupted := false
	input := options.Input

relay:
	for {
		if session.checkExited() {
			session.sweepRemaining(&buffer, options.OnOutput)
			break
		}

		inputReady, outputReady, err := session.pollBoth(input)
		if err != nil {
			break
		}

		if inputReady {
			var keystroke [1]byte
			count, readErr := input.Read(keystroke[:])
			switch {
			case count > 0 && keystroke[0] == interruptByte:
				interrupted = true
				break relay
			case count > 0:
				if _, writeErr := session.master.Write(keystroke[:1]); writeErr != nil {
					// Write failure means the slave side closed.
					break relay
				}
			case readErr != nil || count == 0:
				// Keyboard source exhausted; keep capturing output.
				input = nil
			}
		}

		if outputReady && !session.readChunk(&buffer, options.OnOutput) {
			break
		}
	}

	session.terminate()

	return Result{
		Raw:         buffer.Bytes(),
		ExitCode:    session.exitCode,
		Interrupted: interrupted,
	}
}

// pollBoth waits up to the poll interval for readiness on the
// keyboard source (when attached) and the PTY master, in one call.
func (session *Session) pollBoth(input *os.File) (inputReady, outputReady bool, err error) {
	descriptors := make([]unix.PollFd, 0, 2)
	inputIndex := -1
	if input != nil {
		inputIndex = len(descriptors)
		descriptors = append(descriptors, unix.PollFd{
			Fd:     int32(input.Fd()),
			Events: unix.POLLIN,
		})
	}
	masterIndex := len(descriptors)
	descriptors = append(descriptors, unix.PollFd{
		Fd:     int32(session.master.Fd()),
		Events: unix.POLLIN,
	})

	count, err := unix.Poll(descriptors, int(session.pollInterval.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return false, false, nil
		}
		return false, false, err
	}
	if count == 0 {
		return false, false, nil
	}

	readyMask := unix.POLLIN | unix.POLLHUP | unix.POLLERR
	if inputIndex >= 0 {
		inputReady = descriptors[inputIndex].Revents&int16(readyMask) != 0
	}
	outputReady = descriptors[masterIndex].Revents&int16(readyMask) != 0
	return inputReady, outputReady, nil
}
