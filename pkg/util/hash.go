package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the lowercase hex SHA-256 digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
