// Package fingerprint computes stable content hashes for document bodies.
// Byte-identical bodies always yield identical fingerprints; this is the sole
// basis for content-based duplicate detection.
package fingerprint

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"
)

// DefaultLength is the default hex truncation applied to fingerprints.
const DefaultLength = 16

func newHasher(algorithm string) hash.Hash {
	switch strings.ToLower(algorithm) {
	case "", "sha256":
		return sha256.New()
	case "sha1":
		return sha1.New()
	case "md5":
		return md5.New()
	default:
		// Unknown algorithms fall back to sha256 rather than failing:
		// fingerprinting must never abort a batch.
		return sha256.New()
	}
}

// Hash returns the hex fingerprint of content using the named algorithm,
// truncated to length characters. Length <= 0 keeps the full digest.
func Hash(content, algorithm string, length int) string {
	h := newHasher(algorithm)
	h.Write([]byte(content))
	digest := hex.EncodeToString(h.Sum(nil))

	if length > 0 && length < len(digest) {
		return digest[:length]
	}
	return digest
}

// Default fingerprints content with sha256 truncated to DefaultLength.
func Default(content string) string {
	return Hash(content, "sha256", DefaultLength)
}
