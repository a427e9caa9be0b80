package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sha256Hex returns the SHA-256 digest of the input encoded as lowercase hex.
func Sha256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// CacheKey joins prefix with the hashed parts, e.g. "quote:<sha256>".
func CacheKey(prefix string, parts ...string) string {
	return prefix + ":" + Sha256Hex(strings.Join(parts, "|"))
}
