// Package vault encrypts financial data at rest and derives keyed lookup hashes.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

var ErrMalformedCiphertext = errors.New("vault: malformed ciphertext")

// Vault encrypts with AES-256-GCM and hashes with HMAC-SHA256 using keys derived from one master key
type Vault struct {
	aead    cipher.AEAD
	hashKey []byte
}

// New derives encryption and hashing keys from master key
func New(masterKey []byte) (*Vault, error) {
	if len(masterKey) < keySize {
		return nil, fmt.Errorf("vault: master key must be at least %d bytes", keySize)
	}

	encKey, err := deriveKey(masterKey, "financial-data-encryption")
	if err != nil {
		return nil, err
	}
	hashKey, err := deriveKey(masterKey, "financial-data-index")
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("vault: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: create GCM: %w", err)
	}

	return &Vault{aead: aead, hashKey: hashKey}, nil
}

func deriveKey(master []byte, info string) ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("vault: derive %s key: %w", info, err)
	}
	return key, nil
}

// Encrypt returns base64 of nonce followed by sealed plaintext
func (v *Vault) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("vault: generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens ciphertext produced by Encrypt
func (v *Vault) Decrypt(ciphertext string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, ErrMalformedCiphertext
	}

	n := v.aead.NonceSize()
	if len(raw) < n {
		return nil, ErrMalformedCiphertext
	}

	plaintext, err := v.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("vault: decrypt: %w", err)
	}

	return plaintext, nil
}

// KeyedHash returns indexable token for value, never the value itself
func (v *Vault) KeyedHash(value string) string {
	mac := hmac.New(sha256.New, v.hashKey)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
