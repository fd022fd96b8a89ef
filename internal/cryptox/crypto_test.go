package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	secret := []byte("family-secret-key")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(secret, salt)
	key2 := DeriveKey(secret, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != 32 {
		t.Errorf("expected 32-byte key, got %d", len(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	secret := []byte("family-secret-key")

	key1 := DeriveKey(secret, []byte("salt-1"))
	key2 := DeriveKey(secret, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different keys for different salts, got same")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("secret"), []byte("salt"))
	plaintext := []byte("hunter2")

	ciphertext, nonce, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if bytes.Equal(ciphertext, plaintext) {
		t.Fatalf("ciphertext equals plaintext")
	}

	got, err := Decrypt(ciphertext, nonce, key)
	if err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("expected %q, got %q", plaintext, got)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	key := DeriveKey([]byte("secret"), []byte("salt"))
	ciphertext, nonce, err := Encrypt([]byte("hunter2"), key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	wrong := DeriveKey([]byte("not-the-secret"), []byte("salt"))
	_, err = Decrypt(ciphertext, nonce, wrong)
	if !errors.Is(err, common.ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecrypt_CorruptedCiphertext(t *testing.T) {
	key := DeriveKey([]byte("secret"), []byte("salt"))
	ciphertext, nonce, err := Encrypt([]byte("hunter2"), key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	ciphertext[0] ^= 0xff

	_, err = Decrypt(ciphertext, nonce, key)
	if !errors.Is(err, common.ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	key := DeriveKey([]byte("secret"), []byte("salt"))

	_, nonce1, err := Encrypt([]byte("x"), key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	_, nonce2, err := Encrypt([]byte("x"), key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if bytes.Equal(nonce1, nonce2) {
		t.Errorf("expected distinct nonces")
	}
}
