// Package cryptox implements the symmetric crypto used for credential escrow:
// argon2id key derivation from a user-supplied secret key and AES-GCM
// encryption of individual credential fields. The derived key exists only for
// the duration of a call; nothing here persists or logs key material.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	keyLen    = 32
	nonceLen  = 12
	argonTime = 1
	argonMem  = 64 * 1024
	argonPar  = 4
)

// DeriveKey stretches a user-supplied secret key into a 256-bit AES key using
// argon2id with the user's stored salt. Deterministic for a given
// (secret, salt) pair.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMem, argonPar, keyLen)
}

// Encrypt seals plaintext with AES-GCM under key. A fresh random 12-byte
// nonce is generated per call and returned alongside the ciphertext.
func Encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("nonce generation: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt opens an AES-GCM ciphertext. A failed authentication check (wrong
// key, corrupted payload, wrong nonce) is reported as common.ErrDecryptionFailed
// so callers can isolate per-item failures with errors.Is.
func Decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return plaintext, nil
}
