// Package models holds the persistence-layer entity structs shared by
// repositories and services.
package models

import "time"

// User identity. Rows are created by the dashboard's signup flow; this
// service only reads them. Salt feeds argon2id key derivation for the
// user's credential ciphertexts.
type User struct {
	ID        string
	Email     string
	Name      string
	Salt      []byte
	CreatedAt time.Time
}
