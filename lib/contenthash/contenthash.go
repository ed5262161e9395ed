// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// Package contenthash computes content digests for captured terminal
// streams. Session logs and sidecar records embed the digest so a
// capture can be verified against its analysis later.
package contenthash

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest of a captured byte stream.
type Digest [32]byte

// captureDomainKey is the BLAKE3 keyed-hash domain for capture
// digests. Changing it invalidates recorded digests.
// Readable ASCII, zero-padded to 32 bytes, so the key is inspectable
// in hex dumps without losing any cryptographic property.
var captureDomainKey = [32]byte{
	't', 'e', 'r', 'm', 't', 'a', 'p', '.', 'c', 'a', 'p', 't', 'u', 'r', 'e',
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Capture computes the capture-domain digest of the given raw bytes.
func Capture(data []byte) Digest {
	hasher, err := blake3.NewKeyed(captureDomainKey[:])
	if err != nil {
		// The key is a 32-byte constant; NewKeyed only rejects wrong
		// key sizes.
		panic("contenthash: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// String returns the hex encoding used in log headers and records.
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// Parse decodes a hex-encoded digest string.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing capture digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("capture digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
