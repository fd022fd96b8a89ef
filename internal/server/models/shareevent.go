package models

import "time"

// ShareReason classifies why a disclosure happened.
type ShareReason string

const (
	ReasonManual     ShareReason = "MANUAL"
	ReasonEmergency  ShareReason = "EMERGENCY"
	ReasonInactivity ShareReason = "INACTIVITY"
)

// Valid reports whether r is one of the known reasons.
func (r ShareReason) Valid() bool {
	switch r {
	case ReasonManual, ReasonEmergency, ReasonInactivity:
		return true
	}
	return false
}

// ShareEvent is the audit record of one successful recipient delivery.
// Insert-only, never mutated.
type ShareEvent struct {
	ID             string
	UserID         string
	RecipientEmail string
	PasswordCount  int
	ShareReason    ShareReason
	SentAt         time.Time
	ExpiresAt      *time.Time
}
