package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Prefix marks the algorithm in a formatted checksum.
const Prefix = "sha256:"

// Calculator computes content fingerprints.
type Calculator interface {
	// Calculate returns the fingerprint of content, prefixed with the algorithm.
	Calculate(content []byte) string
}

// FileReader reads a whole file. filesystem.FileSystemProvider satisfies it.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// SHA256 implements Calculator using SHA-256. It is a zero-size value type.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// Calculate computes the SHA-256 of content.
func (c SHA256) Calculate(content []byte) string {
	hash := sha256.Sum256(content)
	return Prefix + hex.EncodeToString(hash[:])
}

// File reads path through r and returns its fingerprint.
func File(c Calculator, r FileReader, path string) (string, error) {
	content, err := r.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for checksum: %w", path, err)
	}
	return c.Calculate(content), nil
}
