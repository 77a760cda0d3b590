package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// LayoutKey derives the cache key for a layout run from the raw diagram
// bytes and the engine configuration. Any config change, including
// budgets and geometry, produces a distinct key.
func LayoutKey(diagram []byte, config any) string {
	cfgData, _ := json.Marshal(config)
	h := sha256.New()
	h.Write(diagram)
	h.Write(cfgData)
	return "layout:" + hex.EncodeToString(h.Sum(nil))
}
