package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// KeyManager owns the signing key for an instance and exposes the matching
// signer and verifier.
type KeyManager struct {
	Signer   Signer
	Verifier Verifier
}

// NewEphemeralKeyManager generates a fresh Ed25519 keypair in memory. All
// outstanding tokens become invalid when the process restarts; use
// NewPersistentKeyManager in production.
func NewEphemeralKeyManager(issuer string) (*KeyManager, error) {
	pemKey, err := generateEd25519PEM()
	if err != nil {
		return nil, err
	}
	return newFromPEM(pemKey, issuer)
}

// NewPersistentKeyManager loads the Ed25519 signing key from keyPath,
// generating and saving one on first run. Tokens minted before a restart
// remain verifiable.
func NewPersistentKeyManager(keyPath, issuer string) (*KeyManager, error) {
	keyPath = filepath.Clean(keyPath)

	pemKey, err := os.ReadFile(keyPath)
	if os.IsNotExist(err) {
		pemKey, err = generateEd25519PEM()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(keyPath), 0750); err != nil {
			return nil, err
		}
		if err := os.WriteFile(keyPath, pemKey, 0600); err != nil {
			return nil, fmt.Errorf("jwtx: write signing key: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("jwtx: read signing key: %w", err)
	}

	return newFromPEM(pemKey, issuer)
}

func newFromPEM(pemKey []byte, issuer string) (*KeyManager, error) {
	signer, err := NewSignerEdDSA(newKID(), pemKey)
	if err != nil {
		return nil, err
	}
	return &KeyManager{
		Signer:   signer,
		Verifier: NewVerifierEdDSA(signer.Public(), issuer),
	}, nil
}

func generateEd25519PEM() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate key: %w", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("jwtx: marshal PKCS8: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

func newKID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
