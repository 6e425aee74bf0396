package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Checksum contains the digest and size of a byte sequence
type Checksum struct {
	SHA256 string
	Size   int64
}

// CalculateChecksum returns the lowercase hex SHA-256 digest of data
func CalculateChecksum(data []byte) *Checksum {
	sum := sha256.Sum256(data)
	return &Checksum{
		SHA256: hex.EncodeToString(sum[:]),
		Size:   int64(len(data)),
	}
}

// CalculateFileChecksum streams a file through SHA-256
func CalculateFileChecksum(path string) (*Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, err
	}

	return &Checksum{
		SHA256: hex.EncodeToString(h.Sum(nil)),
		Size:   n,
	}, nil
}
