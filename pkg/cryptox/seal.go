// Package cryptox seals session tokens before they are written to the
// on-disk session store, so a copied database file does not hand out a
// live refresh token.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the sealing key from the master key
// material. Derivation runs once per Sealer, so the cost can be high.
const (
	kdfIterations  = 3
	kdfMemory      = 64 * 1024 // KiB
	kdfParallelism = 2
	kdfKeyLength   = 32 // AES-256

	masterKeySize = 32
)

// kdfSalt is a fixed application salt. The master key is already secret;
// the salt only domain-separates this derivation from other uses of the
// same material.
var kdfSalt = []byte("medwork-session-store-v1")

// ErrNoMasterKey reports that no master key source is configured. Sealing
// with a throwaway key would silently produce a store that no later
// process can read, so the absence of a key is an error rather than a
// fallback.
var ErrNoMasterKey = errors.New("cryptox: no master key configured")

// Sealer encrypts and decrypts token values with AES-256-GCM. The key is
// derived once at construction; a Sealer is safe for concurrent use.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a sealing key from the given master key material with
// Argon2id. Two Sealers built from the same material can read each other's
// output, which is what lets a session survive process restarts.
func NewSealer(keyMaterial []byte) (*Sealer, error) {
	if len(keyMaterial) == 0 {
		return nil, ErrNoMasterKey
	}

	key := argon2.IDKey(keyMaterial, kdfSalt, kdfIterations, kdfMemory, kdfParallelism, kdfKeyLength)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// LoadSealer builds a Sealer from the configured key source:
//
//  1. path, when non-empty: the key file is read, or created with fresh
//     random material on first use (0600, parent directory created), so
//     the default installation seals with the same key on every run.
//  2. The MEDIWORK_MASTER_KEY environment variable.
//
// With neither source configured LoadSealer fails with ErrNoMasterKey.
func LoadSealer(path string) (*Sealer, error) {
	material, err := loadKeyMaterial(path)
	if err != nil {
		return nil, err
	}
	return NewSealer(material)
}

func loadKeyMaterial(path string) ([]byte, error) {
	if path != "" {
		return loadOrCreateKeyFile(path)
	}
	if envKey := os.Getenv("MEDIWORK_MASTER_KEY"); envKey != "" {
		return []byte(envKey), nil
	}
	return nil, ErrNoMasterKey
}

// loadOrCreateKeyFile reads the master key file, generating it on first
// use. Creation is O_EXCL so two racing processes converge on one key.
func loadOrCreateKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read master key file: %w", err)
	}

	material := make([]byte, masterKeySize)
	if _, err := rand.Read(material); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create master key directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			// Another process won the race; use its key.
			return os.ReadFile(path)
		}
		return nil, fmt.Errorf("failed to create master key file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(material); err != nil {
		return nil, fmt.Errorf("failed to write master key file: %w", err)
	}
	return material, nil
}

// Seal encrypts a token value. The output format is:
// [12-byte nonce][encrypted data][16-byte auth tag]
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends the ciphertext and auth tag to nonce.
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts data encrypted with Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}
