// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

package sessionlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/termtap/termtap/lib/ansiscan"
)

func testRecord() Record {
	return Record{
		Command:   "ls --color=always",
		StartedAt: time.Unix(1700000000, 0),
		Duration:  1230 * time.Millisecond,
		ExitCode:  0,
		Raw:       []byte("\x1b[31mRed\x1b[0m\n"),
	}
}

func TestWriteCreatesDirectoryAndLog(t *testing.T) {
	t.Parallel()
	sink := &Sink{Directory: filepath.Join(t.TempDir(), "nested", "logs")}

	path, err := sink.Write(testRecord())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "# Command: ls --color=always") {
		t.Errorf("log missing command header:\n%s", text)
	}
	if !strings.Contains(text, "Capture digest (BLAKE3):") {
		t.Errorf("log missing digest header:\n%s", text)
	}
	if !bytes.HasSuffix(content, []byte("\x1b[31mRed\x1b[0m\n")) {
		t.Errorf("log does not end with the raw capture:\n%q", content)
	}
}

func TestWriteFilenameUsesTimestampAndSanitizedCommand(t *testing.T) {
	t.Parallel()
	sink := &Sink{Directory: t.TempDir()}

	path, err := sink.Write(testRecord())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "1700000000_ls_--coloralways.log" {
		t.Errorf("filename: got %q", filepath.Base(path))
	}
}

func TestWriteCompressesLargeLogs(t *testing.T) {
	t.Parallel()
	sink := &Sink{
		Directory:         t.TempDir(),
		Compress:          true,
		CompressThreshold: 64,
	}
	record := testRecord()
	record.Raw = bytes.Repeat([]byte("output line\n"), 100)

	path, err := sink.Write(record)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasSuffix(path, ".log.zst") {
		t.Errorf("compressed log path: got %q, want .log.zst suffix", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() >= int64(len(record.Raw)) {
		t.Errorf("compressed size %d not smaller than raw %d", info.Size(), len(record.Raw))
	}
}

func TestSidecarRoundTrip(t *testing.T) {
	t.Parallel()
	sink := &Sink{Directory: t.TempDir()}
	record := testRecord()
	record.Sequences = ansiscan.DescribeAll(string(record.Raw))

	path, err := sink.WriteSidecar(record)
	if err != nil {
		t.Fatalf("WriteSidecar: %v", err)
	}
	if !strings.HasSuffix(path, ".cbor") {
		t.Errorf("sidecar path: got %q", path)
	}

	loaded, err := ReadSidecar(path)
	if err != nil {
		t.Fatalf("ReadSidecar: %v", err)
	}
	if loaded.Command != record.Command {
		t.Errorf("command: got %q, want %q", loaded.Command, record.Command)
	}
	if !bytes.Equal(loaded.Raw, record.Raw) {
		t.Errorf("raw: got %q, want %q", loaded.Raw, record.Raw)
	}
	if !loaded.StartedAt.Equal(record.StartedAt) {
		t.Errorf("started at: got %v, want %v", loaded.StartedAt, record.StartedAt)
	}
}

func TestSanitizeCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		command string
		want    string
	}{
		{"ls --color=always", "ls_--coloralways"},
		{"echo 'hi there'", "echo_hi_there"},
		{"!!!", ""},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
		{"ps aux | head -5", "ps_aux_head_-5"},
	}
	for _, test := range tests {
		if got := SanitizeCommand(test.command); got != test.want {
			t.Errorf("SanitizeCommand(%q): got %q, want %q", test.command, got, test.want)
		}
	}
}
