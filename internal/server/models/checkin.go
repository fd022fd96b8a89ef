package models

import "time"

// CheckIn is an explicit, user-initiated proof-of-activity event.
// Append-only; never inferred from other activity.
type CheckIn struct {
	ID        string
	UserID    string
	CheckinAt time.Time
	IPAddress string
	UserAgent string
}

// InactiveUser is one row of the inactivity population scan. LastCheckIn is
// nil for users that have never checked in; they always count as inactive.
type InactiveUser struct {
	UserID      string
	Email       string
	Name        string
	LastCheckIn *time.Time
}
