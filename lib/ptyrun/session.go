// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package ptyrun

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// DefaultPollInterval is the bounded wait used by the readiness loops.
// It caps the latency of deadline checks and interrupt detection.
const DefaultPollInterval = 100 * time.Millisecond

// terminateGracePeriod is how long cleanup waits for the child to die
// after the graceful signal before abandoning it.
const terminateGracePeriod = 1 * time.Second

// readChunkSize is the per-read buffer size for PTY output.
const readChunkSize = 4096

// SpawnError reports that the PTY pair could not be allocated or the
// child process could not be started. It is the only fatal error class
// in this package: everything after a successful spawn degrades into
// the Result instead of failing.
type SpawnError struct {
	Command string
	Err     error
}

func (spawn *SpawnError) Error() string {
	return fmt.Sprintf("spawn %q: %v", spawn.Command, spawn.Err)
}

func (spawn *SpawnError) Unwrap() error { return spawn.Err }

// Options configures a Session. The zero value is usable: shell
// resolution prefers bash, the poll interval is DefaultPollInterval,
// and logging is discarded.
type Options struct {
	// Shell runs the command via `shell -c command`. Empty means
	// bash when available, sh otherwise.
	Shell string

	// PollInterval overrides DefaultPollInterval. Values <= 0 use
	// the default.
	PollInterval time.Duration

	// Logger receives cleanup warnings. Nil discards them.
	Logger *slog.Logger
}

// Session owns one PTY pair and the child process attached to it.
// The descriptors and the process handle are exclusively owned by the
// session; no other component touches them.
type Session struct {
	command      string
	master       *os.File
	child        *exec.Cmd
	pollInterval time.Duration
	logger       *slog.Logger

	// reaped delivers the child's exit code exactly once. The reaper
	// goroutine is the only caller of Wait.
	reaped chan int

	// exitCode and exited record the reaped outcome once observed by
	// a drive loop, so later cleanup does not wait again.
	exitCode int
	exited   bool
}

// Open allocates a PTY pair and spawns command through a shell with
// its standard streams on the slave side, in its own session and
// process group. Returns a *SpawnError when either step fails; all
// descriptors are released on every failure path.
func Open(command string, options Options) (*Session, error) {
	shell := options.Shell
	if shell == "" {
		shell = "bash"
		if _, err := exec.LookPath(shell); err != nil {
			shell = "sh"
		}
	}
	pollInterval := options.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	master, slavePath, err := openPTY()
	if err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}

	slave, err := os.OpenFile(slavePath, os.O_RDWR, 0)
	if err != nil {
		master.Close()
		return nil, &SpawnError{Command: command, Err: fmt.Errorf("open PTY slave %s: %w", slavePath, err)}
	}

	// When the capture itself runs on a terminal, give the child the
	// same dimensions so column-dependent output matches what the
	// user sees.
	if columns, rows, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil {
		_ = setWindowSize(int(master.Fd()), uint16(columns), uint16(rows))
	}

	child := exec.Command(shell, "-c", command)
	child.Stdin = slave
	child.Stdout = slave
	child.Stderr = slave
	child.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0, // fd 0 in child = slave PTY
	}

	if err := child.Start(); err != nil {
		slave.Close()
		master.Close()
		return nil, &SpawnError{Command: command, Err: err}
	}
	// The child holds its own copies via fd 0/1/2.
	slave.Close()

	session := &Session{
		command:      command,
		master:       master,
		child:        child,
		pollInterval: pollInterval,
		logger:       logger,
		reaped:       make(chan int, 1),
		exitCode:     -1,
	}

	go func() {
		// Wait errors carry no information beyond the exit state:
		// a signal-killed child reports ExitCode -1.
		_ = child.Wait()
		code := -1
		if child.ProcessState != nil {
			code = child.ProcessState.ExitCode()
		}
		session.reaped <- code
	}()

	return session, nil
}

// Close releases the PTY master descriptor. Safe to call on every exit
// path; the underlying close is idempotent through os.File.
func (session *Session) Close() error {
	return session.master.Close()
}

// checkExited performs a non-blocking check of the reaper channel and
// records the exit code on first observation.
func (session *Session) checkExited() bool {
	if session.exited {
		return true
	}
	select {
	case code := <-session.reaped:
		session.exitCode = code
		session.exited = true
	default:
	}
	return session.exited
}

// pollMaster waits up to interval for output readiness on the PTY
// master. Returns readable=false on timeout. A poll error other than
// EINTR is reported so the caller can treat the stream as ended.
func (session *Session) pollMaster(interval time.Duration) (readable bool, err error) {
	descriptors := []unix.PollFd{{
		Fd:     int32(session.master.Fd()),
		Events: unix.POLLIN,
	}}
	count, err := unix.Poll(descriptors, int(interval.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	return descriptors[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0, nil
}

// readChunk reads available output into buffer. Returns false when the
// stream has ended: zero bytes read or any read error. EIO from the
// master is the normal Linux signal that the slave side closed, so no
// read error is surfaced as a failure.
func (session *Session) readChunk(buffer *bytes.Buffer, onOutput func([]byte)) bool {
	chunk := make([]byte, readChunkSize)
	count, err := session.master.Read(chunk)
	if count > 0 {
		buffer.Write(chunk[:count])
		if onOutput != nil {
			onOutput(chunk[:count])
		}
	}
	if err != nil || count == 0 {
		return false
	}
	return true
}

// sweepRemaining drains already-buffered output after child exit with
// zero-timeout polls, so bytes written just before exit are not lost.
func (session *Session) sweepRemaining(buffer *bytes.Buffer, onOutput func([]byte)) {
	for {
		readable, err := session.pollMaster(0)
		if err != nil || !readable {
			return
		}
		if !session.readChunk(buffer, onOutput) {
			return
		}
	}
}

// terminate is the two-phase shutdown for a child that outlived its
// capture: graceful SIGTERM to the whole process group, then a bounded
// wait for the reaper. Failures are logged and abandoned; the
// captured bytes remain valid regardless.
func (session *Session) terminate() {
	if session.exited {
		return
	}

	// The child leads its own process group (Setsid), so signaling
	// -pid reaches the shell and everything it spawned.
	if err := unix.Kill(-session.child.Process.Pid, unix.SIGTERM); err != nil && err != unix.ESRCH {
		session.logger.Warn("failed to signal process group",
			"command", session.command, "pid", session.child.Process.Pid, "error", err)
	}

	select {
	case code := <-session.reaped:
		session.exitCode = code
		session.exited = true
	case <-time.After(terminateGracePeriod):
		session.logger.Warn("child did not exit within grace period, abandoning",
			"command", session.command, "pid", session.child.Process.Pid)
	}
}

// openPTY allocates a PTY master/slave pair using the Linux devpts
// interface. Returns the master and the filesystem path of the slave.
func openPTY() (master *os.File, slavePath string, err error) {
	master, err = os.OpenFile("/dev/ptmx", os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, "", fmt.Errorf("open /dev/ptmx: %w", err)
	}

	fd := int(master.Fd())

	ptyNumber, err := unix.IoctlGetInt(fd, unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, "", fmt.Errorf("get PTY number (TIOCGPTN): %w", err)
	}

	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, "", fmt.Errorf("unlock PTY slave (TIOCSPTLCK): %w", err)
	}

	return master, fmt.Sprintf("/dev/pts/%d", ptyNumber), nil
}

// setWindowSize sets the terminal dimensions on a PTY master fd.
func setWindowSize(fd int, columns, rows uint16) error {
	return unix.IoctlSetWinsize(fd, unix.TIOCSWINSZ, &unix.Winsize{
		Col: columns,
		Row: rows,
	})
}
