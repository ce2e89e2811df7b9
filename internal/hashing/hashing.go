// Package hashing computes the short content digests recorded in scaffold
// headers. Digests are BLAKE2b-256, hex-encoded and truncated: long enough to
// make accidental collisions irrelevant for drift detection, short enough to
// keep headers readable.
package hashing

import (
	"encoding/hex"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
)

// DigestLength is the number of hex characters kept from the full digest.
const DigestLength = 16

// Sum returns the truncated hex digest of data.
func Sum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])[:DigestLength]
}

// SumString returns the truncated hex digest of s.
func SumString(s string) string {
	return Sum([]byte(s))
}

// SumFile returns the truncated hex digest of the file at path.
func SumFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return Sum(data), nil
}
