package signer

// Signer interface for signing the compiled artifact
type Signer interface {
	// SignDetached creates an armored detached signature over data
	SignDetached(data []byte) ([]byte, error)

	// PublicKey returns the armored public key that verifies the signatures
	PublicKey() ([]byte, error)

	// Fingerprint identifies the signing key in logs
	Fingerprint() string
}
