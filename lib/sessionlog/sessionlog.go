// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package sessionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/termtap/termtap/lib/ansiscan"
	"github.com/termtap/termtap/lib/codec"
	"github.com/termtap/termtap/lib/contenthash"
)

// DefaultCompressThreshold is the log size in bytes above which a
// compressing sink writes zstd instead of plain text. Terminal
// captures are text-like, where zstd ratios of 3-5x are typical.
const DefaultCompressThreshold = 256 * 1024

// maxFilenameCommandLength caps the sanitized command portion of log
// filenames.
const maxFilenameCommandLength = 50

// Record is one completed capture session to persist.
type Record struct {
	Command     string
	StartedAt   time.Time
	Duration    time.Duration
	ExitCode    int
	TimedOut    bool
	Interactive bool

	// Raw is the captured byte stream, escape sequences included.
	Raw []byte

	// Sequences is the described sequence list for the sidecar
	// record. May be nil when analysis was skipped.
	Sequences []ansiscan.Described
}

// Sink writes session records under a log directory, creating it on
// first use.
type Sink struct {
	// Directory receives the log files.
	Directory string

	// Compress enables zstd compression for logs at or above
	// CompressThreshold. Compressed logs get a .zst suffix.
	Compress bool

	// CompressThreshold overrides DefaultCompressThreshold.
	// Values <= 0 use the default.
	CompressThreshold int
}

// Write persists the human-readable session log and returns its path.
func (sink *Sink) Write(record Record) (string, error) {
	if err := os.MkdirAll(sink.Directory, 0o755); err != nil {
		return "", fmt.Errorf("create log directory %s: %w", sink.Directory, err)
	}

	var content strings.Builder
	sink.writeHeader(&content, record)
	content.Write(record.Raw)

	path := filepath.Join(sink.Directory, sink.baseName(record)+".log")

	threshold := sink.CompressThreshold
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	if sink.Compress && content.Len() >= threshold {
		return path + ".zst", writeCompressed(path+".zst", []byte(content.String()))
	}

	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		return "", fmt.Errorf("write session log: %w", err)
	}
	return path, nil
}

// WriteSidecar persists the machine-readable CBOR record alongside the
// text log and returns its path.
func (sink *Sink) WriteSidecar(record Record) (string, error) {
	if err := os.MkdirAll(sink.Directory, 0o755); err != nil {
		return "", fmt.Errorf("create log directory %s: %w", sink.Directory, err)
	}

	sidecar := sidecarRecord{
		Command:    record.Command,
		StartedAt:  record.StartedAt.Unix(),
		DurationMS: record.Duration.Milliseconds(),
		ExitCode:   record.ExitCode,
		TimedOut:   record.TimedOut,
		Digest:     contenthash.Capture(record.Raw).String(),
		Raw:        record.Raw,
	}
	for _, sequence := range record.Sequences {
		commandCode := ""
		if sequence.Command != 0 {
			commandCode = string(rune(sequence.Command))
		}
		sidecar.Sequences = append(sidecar.Sequences, sidecarSequence{
			Text:        sequence.Text,
			Start:       sequence.Start,
			End:         sequence.End,
			Family:      sequence.Family.String(),
			Command:     commandCode,
			Params:      sequence.Params,
			Description: sequence.Description,
		})
	}

	encoded, err := codec.Marshal(sidecar)
	if err != nil {
		return "", fmt.Errorf("encode session record: %w", err)
	}

	path := filepath.Join(sink.Directory, sink.baseName(record)+".cbor")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("write session record: %w", err)
	}
	return path, nil
}

// ReadSidecar decodes a CBOR session record written by WriteSidecar.
func ReadSidecar(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read session record: %w", err)
	}
	var sidecar sidecarRecord
	if err := codec.Unmarshal(data, &sidecar); err != nil {
		return Record{}, fmt.Errorf("decode session record %s: %w", path, err)
	}

	record := Record{
		Command:   sidecar.Command,
		StartedAt: time.Unix(sidecar.StartedAt, 0),
		Duration:  time.Duration(sidecar.DurationMS) * time.Millisecond,
		ExitCode:  sidecar.ExitCode,
		TimedOut:  sidecar.TimedOut,
		Raw:       sidecar.Raw,
	}
	return record, nil
}

func (sink *Sink) writeHeader(content *strings.Builder, record Record) {
	kind := "Session"
	if record.Interactive {
		kind = "Interactive session"
	}
	fmt.Fprintf(content, "# termtap %s log\n", strings.ToLower(kind))
	fmt.Fprintf(content, "# Generated: %s\n", record.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(content, "# Command: %s\n", record.Command)
	fmt.Fprintf(content, "# Duration: %.2f seconds\n", record.Duration.Seconds())
	fmt.Fprintf(content, "# Exit code: %d\n", record.ExitCode)
	fmt.Fprintf(content, "# Timed out: %t\n", record.TimedOut)
	fmt.Fprintf(content, "# Capture digest (BLAKE3): %s\n", contenthash.Capture(record.Raw))
	fmt.Fprintf(content, "# %s\n", strings.Repeat("=", 60))
	content.WriteString("# Raw output captured during the session.\n")
	content.WriteString("# Escape sequences are preserved as-is.\n")
	fmt.Fprintf(content, "# %s\n\n", strings.Repeat("=", 60))
}

// baseName builds `{unix_timestamp}_{sanitized_command}` for the
// record's files.
func (sink *Sink) baseName(record Record) string {
	sanitized := SanitizeCommand(record.Command)
	if sanitized == "" {
		if record.Interactive {
			sanitized = "interactive"
		} else {
			sanitized = "command"
		}
	}
	return fmt.Sprintf("%d_%s", record.StartedAt.Unix(), sanitized)
}

var (
	unsafeCharacters = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

// SanitizeCommand reduces a shell command to a filesystem-safe name:
// non-word characters dropped, whitespace collapsed to underscores,
// length capped. May return the empty string for commands made
// entirely of special characters.
func SanitizeCommand(command string) string {
	safe := unsafeCharacters.ReplaceAllString(command, "")
	safe = whitespaceRuns.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if len(safe) > maxFilenameCommandLength {
		safe = safe[:maxFilenameCommandLength]
	}
	return safe
}

func writeCompressed(path string, content []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create compressed session log: %w", err)
	}

	encoder, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		file.Close()
		return fmt.Errorf("initialize zstd encoder: %w", err)
	}
	if _, err := encoder.Write(content); err != nil {
		encoder.Close()
		file.Close()
		return fmt.Errorf("write compressed session log: %w", err)
	}
	if err := encoder.Close(); err != nil {
		file.Close()
		return fmt.Errorf("finish compressed session log: %w", err)
	}
	return file.Close()
}

// sidecarRecord is the CBOR wire form of a Record.
type sidecarRecord struct {
	Command    string            `cbor:"command"`
	StartedAt  int64             `cbor:"started_at"`
	DurationMS int64             `cbor:"duration_ms"`
	ExitCode   int               `cbor:"exit_code"`
	TimedOut   bool              `cbor:"timed_out"`
	Digest     string            `cbor:"digest"`
	Raw        []byte            `cbor:"raw"`
	Sequences  []sidecarSequence `cbor:"sequences,omitempty"`
}

type sidecarSequence struct {
	Text        string   `cbor:"text"`
	Start       int      `cbor:"start"`
	End         int      `cbor:"end"`
	Family      string   `cbor:"family"`
	Command     string   `cbor:"command,omitempty"`
	Params      []string `cbor:"params,omitempty"`
	Description string   `cbor:"description"`
}
