package cryptox

import (
	"errors"
	"fmt"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

// DecryptCredential opens one credential with the derived key.
//
// The primary secret and the optional PIN are decrypted independently: a
// failed PIN leaves the credential usable (PinMissing is set and the caller
// may record a diagnostic), while a failed primary secret fails the whole
// credential with common.ErrDecryptionFailed so the caller can exclude it
// from a disclosure set.
func DecryptCredential(c *models.Credential, key []byte) (*models.PlainCredential, error) {
	secret, err := Decrypt(c.EncryptedSecret, c.NonceSecret, key)
	if err != nil {
		if errors.Is(err, common.ErrDecryptionFailed) {
			return nil, common.ErrDecryptionFailed
		}
		return nil, fmt.Errorf("credential %s: %w", c.ID, err)
	}

	plain := &models.PlainCredential{
		ID:          c.ID,
		WebsiteName: c.WebsiteName,
		Description: c.Description,
		Username:    c.Username,
		Secret:      string(secret),
		Notes:       c.Notes,
		Category:    c.Category,
		ValidUntil:  c.ValidUntil,
	}

	if len(c.EncryptedPin) > 0 {
		pin, err := Decrypt(c.EncryptedPin, c.NoncePin, key)
		if err != nil {
			plain.PinMissing = true
		} else {
			plain.Pin = string(pin)
		}
	}

	return plain, nil
}

// EncryptCredential seals the plaintext secret (and optional PIN) into the
// credential's ciphertext fields. Metadata fields are left untouched.
func EncryptCredential(c *models.Credential, secret, pin string, key []byte) error {
	ciphertext, nonce, err := Encrypt([]byte(secret), key)
	if err != nil {
		return err
	}
	c.EncryptedSecret = ciphertext
	c.NonceSecret = nonce

	if pin != "" {
		ciphertext, nonce, err := Encrypt([]byte(pin), key)
		if err != nil {
			return err
		}
		c.EncryptedPin = ciphertext
		c.NoncePin = nonce
	}
	return nil
}
