package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateChecksum(t *testing.T) {
	sum := CalculateChecksum(nil)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", sum.SHA256)
	assert.Equal(t, int64(0), sum.Size)

	data := []byte("packages")
	a := CalculateChecksum(data)
	assert.Len(t, a.SHA256, 64)
	assert.Equal(t, strings.ToLower(a.SHA256), a.SHA256)

	flipped := append([]byte(nil), data...)
	flipped[0] ^= 0x01
	assert.NotEqual(t, a.SHA256, CalculateChecksum(flipped).SHA256)
}

func TestCalculateFileChecksumMatchesInMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	data := bytes.Repeat([]byte("abc"), 10000)
	require.NoError(t, os.WriteFile(path, data, 0644))

	fromFile, err := CalculateFileChecksum(path)
	require.NoError(t, err)
	assert.Equal(t, CalculateChecksum(data), fromFile)
}

func TestCompressionRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("heimdal packages database "), 200)

	for _, algo := range []string{CompressionNone, CompressionGzip, CompressionZstd, CompressionXz} {
		t.Run(algo, func(t *testing.T) {
			require.True(t, ValidCompression(algo))

			compressed, err := Compress(data, algo)
			require.NoError(t, err)

			again, err := Compress(data, algo)
			require.NoError(t, err)
			assert.Equal(t, compressed, again, "compression must be deterministic")

			decompressed, err := Decompress(compressed, algo)
			require.NoError(t, err)
			assert.Equal(t, data, decompressed)
		})
	}
}

func TestCompressUnknown(t *testing.T) {
	assert.False(t, ValidCompression("lz4"))
	_, err := Compress([]byte("x"), "lz4")
	assert.Error(t, err)
	_, err = Decompress([]byte("x"), "lz4")
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "packages.db")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files may be left behind")
}
