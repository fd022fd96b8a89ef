// Package notifications persists user-facing notifications plus the per-user
// settings row, and answers the time-windowed identity lookups the
// deduplicator is built on.
package notifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/dbx"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

// PostgresRepository implements notification storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts one notification. Metadata is marshaled into the jsonb
// column; the dedup key lives in its own entity_id column.
func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) error {
	meta, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("metadata marshal: %w", err)
	}

	query := `
		INSERT INTO notifications (id, user_id, type, title, message, priority, is_read, action_url, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(ctx, query,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, string(n.Priority),
		n.IsRead, nullIfEmpty(n.ActionURL), nullIfEmpty(n.EntityID), meta, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ExistsRecentByEntity checks the (user, type, entity) identity inside the
// trailing window.
func (r *PostgresRepository) ExistsRecentByEntity(ctx context.Context, userID string, typ models.NotificationType, entityID string, since time.Time) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM notifications
		WHERE user_id = $1 AND type = $2 AND entity_id = $3 AND created_at >= $4
	)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, string(typ), entityID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ExistsRecentByContent checks the (user, type, title, message) identity
// inside the trailing window. Exact string match.
func (r *PostgresRepository) ExistsRecentByContent(ctx context.Context, userID string, typ models.NotificationType, title, message string, since time.Time) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM notifications
		WHERE user_id = $1 AND type = $2 AND title = $3 AND message = $4 AND created_at >= $5
	)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, string(typ), title, message, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// GetSettings returns the user's settings row or common.ErrorNotFound.
func (r *PostgresRepository) GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	query := `
		SELECT user_id, inactivity_reminders, share_warnings, password_expiry_alerts, updated_at
		FROM notification_settings WHERE user_id = $1
	`
	var s models.NotificationSettings
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.InactivityReminders, &s.ShareWarnings, &s.PasswordExpiryAlerts, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}

// EnsureSettings inserts the default settings row if the user has none yet.
func (r *PostgresRepository) EnsureSettings(ctx context.Context, userID string) error {
	query := `
		INSERT INTO notification_settings (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
