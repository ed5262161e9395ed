// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// termtap runs a command under a pseudo-terminal, captures its raw
// output with every escape sequence intact, and prints an analysis:
// the sequences described one by one, rendered and stripped views of
// the output, and a comparison against a real terminal replay.
//
// Programs detect whether stdout is a terminal and only emit colors
// and cursor movement when it is. The PTY makes the command believe it
// is on a terminal while termtap records every byte it writes.
//
// Usage:
//
//	termtap [flags] "<command>"
//
// With --interactive, termtap relays the user's keyboard to the
// command and shows escape sequences literally as they arrive instead
// of letting the terminal interpret them.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/termtap/termtap/lib/config"
	"github.com/termtap/termtap/lib/process"
	"github.com/termtap/termtap/lib/ptyrun"
	"github.com/termtap/termtap/lib/report"
	"github.com/termtap/termtap/lib/sessionlog"
	"github.com/termtap/termtap/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		hexDump        bool
		noCompare      bool
		realTerminal   bool
		noRealTerminal bool
		timeoutSeconds int
		interactive    bool
		configPath     string
		logDirectory   string
		noLog          bool
		showVersion    bool
	)

	flagSet := pflag.NewFlagSet("termtap", pflag.ContinueOnError)
	flagSet.BoolVar(&hexDump, "hex", false, "include a hex dump of the raw capture")
	flagSet.BoolVar(&noCompare, "no-compare", false, "skip the view comparison section")
	flagSet.BoolVar(&realTerminal, "real-terminal", true, "replay the capture through a real terminal for comparison")
	flagSet.BoolVar(&noRealTerminal, "no-real-terminal", false, "disable the real terminal replay")
	flagSet.IntVar(&timeoutSeconds, "timeout", 0, "capture timeout in seconds (0 = config default)")
	flagSet.BoolVarP(&interactive, "interactive", "i", false, "relay your keyboard to the command, show sequences literally")
	flagSet.StringVar(&configPath, "config", "", "path to a termtap YAML config file")
	flagSet.StringVar(&logDirectory, "log-dir", "", "directory for session logs (overrides config)")
	flagSet.BoolVar(&noLog, "no-log", false, "do not write a session log")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if showVersion {
		fmt.Printf("termtap %s\n", version.Info())
		return nil
	}

	arguments := flagSet.Args()
	if len(arguments) == 0 {
		printHelp(flagSet)
		return fmt.Errorf("command argument required")
	}
	command := strings.Join(arguments, " ")

	configuration, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	if timeoutSeconds > 0 {
		configuration.Capture.TimeoutSeconds = timeoutSeconds
	}
	if logDirectory != "" {
		configuration.Log.Directory = logDirectory
	}
	if noLog {
		configuration.Log.Disabled = true
	}
	if noRealTerminal || !realTerminal {
		configuration.RealTerminal.Disabled = true
	}

	logger := newLogger()
	options := ptyrun.Options{
		Shell:        configuration.Capture.Shell,
		PollInterval: configuration.PollInterval(),
		Logger:       logger,
	}

	startedAt := time.Now()
	var result ptyrun.Result
	if interactive {
		result, err = runInteractive(command, options)
	} else {
		result, err = ptyrun.Capture(command, configuration.Timeout(), options)
	}
	if err != nil {
		return err
	}
	duration := time.Since(startedAt)

	built := report.Build(command, result, report.Options{
		RealTerminal:      !configuration.RealTerminal.Disabled,
		RealTerminalShell: configuration.RealTerminal.Shell,
	})
	fmt.Print(report.Format(built, report.FormatOptions{
		Hex:     hexDump,
		Compare: !noCompare,
	}))

	if !configuration.Log.Disabled {
		writeSessionLog(logger, configuration, sessionlog.Record{
			Command:     command,
			StartedAt:   startedAt,
			Duration:    duration,
			ExitCode:    result.ExitCode,
			TimedOut:    result.TimedOut,
			Interactive: interactive,
			Raw:         result.Raw,
			Sequences:   built.Sequences,
		})
	}
	return nil
}

// runInteractive relays the user's keyboard to the command while
// showing the command's escape sequences literally. The trailing
// newline separates the live exchange from the analysis that follows.
func runInteractive(command string, options ptyrun.Options) (ptyrun.Result, error) {
	relay := ptyrun.RelayOptions{
		Input:    os.Stdin,
		RawInput: term.IsTerminal(int(os.Stdin.Fd())),
		OnOutput: func(chunk []byte) {
			os.Stdout.WriteString(report.VisibleControls(chunk))
		},
		InterruptByte: ptyrun.DefaultInterruptByte,
	}

	fmt.Printf("interactive session: %s (Ctrl-C to end)\n", command)
	result, err := ptyrun.CaptureInteractive(command, relay, options)
	if err != nil {
		return ptyrun.Result{}, err
	}
	fmt.Println()
	return result, nil
}

// writeSessionLog persists the capture and its CBOR sidecar. Logging
// is best-effort: failures are warnings, never analysis failures.
func writeSessionLog(logger *slog.Logger, configuration config.Config, record sessionlog.Record) {
	sink := sessionlog.Sink{
		Directory: configuration.Log.Directory,
		Compress:  configuration.Log.Compress,
	}
	path, err := sink.Write(record)
	if err != nil {
		logger.Warn("session log write failed", "error", err)
		return
	}
	logger.Debug("session log written", "path", path)
	if _, err := sink.WriteSidecar(record); err != nil {
		logger.Warn("session sidecar write failed", "error", err)
	}
}

// newLogger builds the process logger: human-readable on a terminal,
// JSON when stderr is redirected. TERMTAP_DEBUG enables debug records.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("TERMTAP_DEBUG") != "" {
		level = slog.LevelDebug
	}
	handlerOptions := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOptions))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, handlerOptions))
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `termtap - capture and explain a command's terminal escape sequences.

Runs the command under a pseudo-terminal so it behaves as if attached
to a real terminal, records the raw byte stream, and prints each
escape sequence with a plain-language description alongside rendered
and stripped views of the output.

Usage:
  termtap [flags] "<command>"

Examples:
  # See the color sequences ls emits on a terminal
  termtap "ls --color=always"

  # Explicit sequences
  termtap "printf '\033[31mRed\033[0m\n'"

  # Cursor movement from an interactive program, shown literally
  termtap --interactive "top"

  # Raw bytes, no comparison matrix
  termtap --hex --no-compare "git log --oneline -3"

Configuration is read from the file named by --config or the
TERMTAP_CONFIG environment variable; flags override it.

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
