package signer

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestKey(t *testing.T) string {
	t.Helper()

	entity, err := openpgp.NewEntity("pkgdb test", "", "test@example.com", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "signing.asc")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestSignDetachedVerifies(t *testing.T) {
	s, err := NewGPGSigner(writeTestKey(t), "")
	require.NoError(t, err)

	data := []byte("compiled database bytes")
	sig, err := s.SignDetached(data)
	require.NoError(t, err)
	assert.Contains(t, string(sig), "BEGIN PGP SIGNATURE")

	pub, err := s.PublicKey()
	require.NoError(t, err)
	assert.Contains(t, string(pub), s.Fingerprint())
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(pub))
	require.NoError(t, err)

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(data), bytes.NewReader(sig), nil)
	assert.NoError(t, err)

	tampered := append([]byte(nil), data...)
	tampered[0] ^= 0xff
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(tampered), bytes.NewReader(sig), nil)
	assert.Error(t, err)
}

func TestFingerprintMatchesKey(t *testing.T) {
	path := writeTestKey(t)
	s, err := NewGPGSigner(path, "")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	keyring, err := openpgp.ReadArmoredKeyRing(f)
	require.NoError(t, err)

	assert.Len(t, s.Fingerprint(), 40)
	assert.Equal(t, strings.ToUpper(hex.EncodeToString(keyring[0].PrimaryKey.Fingerprint)), s.Fingerprint())
}

func TestNewGPGSignerErrors(t *testing.T) {
	_, err := NewGPGSigner("", "")
	assert.Error(t, err)

	_, err = NewGPGSigner(filepath.Join(t.TempDir(), "missing.asc"), "")
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.asc")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0600))
	_, err = NewGPGSigner(garbage, "")
	assert.Error(t, err)
}
