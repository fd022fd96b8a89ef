package models

import "time"

// NotificationType keys the metadata union and the dedup identity.
type NotificationType string

const (
	TypePasswordShared       NotificationType = "PASSWORD_SHARED"
	TypePasswordShareWarning NotificationType = "PASSWORD_SHARE_WARNING"
	TypeInactivityReminder   NotificationType = "INACTIVITY_REMINDER"
	TypePasswordExpiry       NotificationType = "PASSWORD_EXPIRY"
)

// NotificationPriority is the display priority hint for the dashboard.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityMedium NotificationPriority = "MEDIUM"
	PriorityHigh   NotificationPriority = "HIGH"
)

// Notification is a persisted user-facing message. EntityID is the explicit
// dedup key: when set, two notifications with the same (user, type, entity)
// inside the dedup window are considered the same; when empty, identity
// falls back to exact (user, type, title, message).
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Priority  NotificationPriority
	IsRead    bool
	ActionURL string
	EntityID  string
	Metadata  NotificationMeta
	CreatedAt time.Time
}

// NotificationMeta is a tagged union keyed by the notification type: at most
// one variant pointer is non-nil. It marshals to the jsonb metadata column.
type NotificationMeta struct {
	Disclosure     *DisclosureMeta     `json:"disclosure,omitempty"`
	Inactivity     *InactivityMeta     `json:"inactivity,omitempty"`
	PasswordExpiry *PasswordExpiryMeta `json:"password_expiry,omitempty"`
}

// DisclosureMeta annotates a "Passwords Shared" audit notification.
type DisclosureMeta struct {
	RecipientCount int         `json:"recipient_count"`
	ShareReason    ShareReason `json:"share_reason"`
}

// InactivityMeta annotates warnings and reminders about a lapsing check-in.
type InactivityMeta struct {
	DaysInactive int        `json:"days_inactive"`
	LastCheckIn  *time.Time `json:"last_check_in,omitempty"`
}

// PasswordExpiryMeta annotates a credential validity alert.
type PasswordExpiryMeta struct {
	CredentialID string    `json:"credential_id"`
	ValidUntil   time.Time `json:"valid_until"`
}

// NotificationSettings holds per-user toggles read by the sweeps. A default
// row is inserted on first use.
type NotificationSettings struct {
	UserID               string
	InactivityReminders  bool
	ShareWarnings        bool
	PasswordExpiryAlerts bool
	UpdatedAt            time.Time
}
