package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key returns the cache key for text extracted under identity.
// Format: {identity}@{textHash} where the hash is the full SHA-256 hex digest.
func Key(identity, text string) string {
	return identity + "@" + hashString(text)
}

// hashString returns SHA-256 hash of the input string as hex.
func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
