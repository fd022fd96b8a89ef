package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/logging"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/repositories/repomanager"
)

// Dedup windows. Generic alerts are suppressed for a month; inactivity
// reminders and disclosure receipts for a week.
const (
	GenericDedupWindow  = 30 * 24 * time.Hour
	ReminderDedupWindow = 7 * 24 * time.Hour
)

// NotificationService creates user notifications behind a time-windowed
// dedup check. Notification writing is a side channel: creation failures
// are logged and swallowed, never propagated to the workflow that
// triggered them.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *NotificationService {
	return &NotificationService{db: db, repomanager: m, logger: logger, now: time.Now}
}

// ShouldCreate decides whether a candidate notification is new inside the
// trailing window. Identity is (user, type, entityID) when the candidate
// carries an entity id, otherwise exact (user, type, title, message).
func (s *NotificationService) ShouldCreate(ctx context.Context, n *models.Notification, window time.Duration) (bool, error) {
	since := s.now().Add(-window)
	repo := s.repomanager.Notifications(s.db)

	var exists bool
	var err error
	if n.EntityID != "" {
		exists, err = repo.ExistsRecentByEntity(ctx, n.UserID, n.Type, n.EntityID, since)
	} else {
		exists, err = repo.ExistsRecentByContent(ctx, n.UserID, n.Type, n.Title, n.Message, since)
	}
	if err != nil {
		return false, fmt.Errorf("error checking notification identity: %w", err)
	}
	return !exists, nil
}

// Create persists one notification, filling in id, defaults, and timestamp.
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	repo := s.repomanager.Notifications(s.db)
	return repo.Create(ctx, n)
}

// CreateDeduped runs the dedup check and creates the notification if it is
// new. All failures are logged and swallowed. Returns whether a row was
// created, which callers use only for logging.
func (s *NotificationService) CreateDeduped(ctx context.Context, n *models.Notification, window time.Duration) bool {
	create, err := s.ShouldCreate(ctx, n, window)
	if err != nil {
		s.logger.Error(ctx, "notification dedup check failed", "user_id", n.UserID, "type", n.Type, "error", err)
		return false
	}
	if !create {
		return false
	}
	if err := s.Create(ctx, n); err != nil {
		s.logger.Error(ctx, "notification create failed", "user_id", n.UserID, "type", n.Type, "error", err)
		return false
	}
	return true
}

// Settings returns the user's notification settings, inserting the default
// row on first use.
func (s *NotificationService) Settings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	repo := s.repomanager.Notifications(s.db)

	settings, err := repo.GetSettings(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	if err := repo.EnsureSettings(ctx, userID); err != nil {
		return nil, fmt.Errorf("error creating default settings: %w", err)
	}
	return repo.GetSettings(ctx, userID)
}
