package cowfs

import (
	"crypto/sha256"
	"fmt"
	"io"
)

// HashBytes returns the SHA-256 hash of data as a hex string. Version
// records store this hash for diagnostics and external deduplication.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}

// HashReader calculates the SHA-256 hash of data from an io.Reader.
// It returns the hash as a hexadecimal string.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
