package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// KeyDigest hashes an API key so logs and error messages never carry the
// raw secret, only a short recognizable fingerprint like "A1B2C3D4".
func KeyDigest(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])[:8]
}

// KeysMatch compares a presented key against the configured one in constant
// time over the digests.
func KeysMatch(presented, configured string) bool {
	a := sha256.Sum256([]byte(presented))
	b := sha256.Sum256([]byte(configured))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
