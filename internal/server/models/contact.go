package models

import "time"

// EmergencyContact is a pre-registered disclosure recipient. Deactivation
// (is_active=false) and hard deletion are both valid lifecycle ends.
type EmergencyContact struct {
	ID        string
	UserID    string
	Email     string
	Label     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactPatch carries the mutable fields of an update. Nil means "leave
// unchanged".
type ContactPatch struct {
	Email    *string
	Label    *string
	IsActive *bool
}
