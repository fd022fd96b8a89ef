package models

import "time"

// Credential is an opaque encrypted payload plus plaintext metadata. The
// secret (and optional PIN) are sealed per-field with AES-GCM; each field
// carries its own nonce. The key needed to open them is supplied per call
// and never stored.
type Credential struct {
	ID              string
	UserID          string
	WebsiteName     string
	Description     string
	Username        string
	EncryptedSecret []byte
	NonceSecret     []byte
	EncryptedPin    []byte
	NoncePin        []byte
	Notes           string
	Category        string
	ValidUntil      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PlainCredential is the decrypted view included in a disclosure payload.
// PinMissing marks a credential whose PIN field failed to decrypt while the
// primary secret succeeded.
type PlainCredential struct {
	ID          string
	WebsiteName string
	Description string
	Username    string
	Secret      string
	Pin         string
	PinMissing  bool
	Notes       string
	Category    string
	ValidUntil  *time.Time
}
