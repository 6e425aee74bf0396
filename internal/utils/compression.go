package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Supported compression algorithms
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
	CompressionXz   = "xz"
)

// ValidCompression reports whether algo names a supported algorithm
func ValidCompression(algo string) bool {
	switch algo {
	case CompressionNone, CompressionGzip, CompressionZstd, CompressionXz:
		return true
	}
	return false
}

// Compress compresses data with the named algorithm.
// Output is deterministic for identical input.
func Compress(data []byte, algo string) ([]byte, error) {
	switch algo {
	case CompressionNone, "":
		return data, nil
	case CompressionGzip:
		return GzipCompress(data)
	case CompressionZstd:
		return ZstdCompress(data)
	case CompressionXz:
		return XzCompress(data)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", algo)
	}
}

// Decompress reverses Compress
func Decompress(data []byte, algo string) ([]byte, error) {
	switch algo {
	case CompressionNone, "":
		return data, nil
	case CompressionGzip:
		return GzipDecompress(data)
	case CompressionZstd:
		return ZstdDecompress(data)
	case CompressionXz:
		return XzDecompress(data)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", algo)
	}
}

// GzipCompress compresses data using gzip
func GzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GzipDecompress decompresses gzip data
func GzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// ZstdCompress compresses data using zstd with a single encoder goroutine
func ZstdCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ZstdDecompress decompresses zstd data
func ZstdDecompress(data []byte) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// XzCompress compresses data using xz
func XzCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// XzDecompress decompresses xz data
func XzDecompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return io.ReadAll(r)
}
