package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the SHA-256 of data as a 64-character hex string. Document
// bodies are hashed with this to build content-addressed artifact keys, so
// any edit produces a fresh key and stale artifacts simply stop being
// referenced.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a namespaced key from a prefix and the values that
// distinguish one artifact from another (document hash, format, render
// options). The full hash is kept; truncating would trade collisions for
// nothing.
func hashKey(prefix string, parts ...any) string {
	raw, _ := json.Marshal(parts)
	return prefix + ":" + Hash(raw)
}
