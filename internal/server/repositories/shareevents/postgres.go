// Package shareevents persists the insert-only disclosure audit trail and
// implements the per-user lock that keeps the cooldown check-then-insert
// atomic across concurrent sweeps.
package shareevents

import (
	"context"
	"fmt"
	"time"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/dbx"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

// PostgresRepository implements share-event storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends one audit row. Share events are never updated or deleted.
func (r *PostgresRepository) Create(ctx context.Context, e *models.ShareEvent) error {
	query := `
		INSERT INTO share_events (id, user_id, recipient_email, password_count, share_reason, sent_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.RecipientEmail, e.PasswordCount, string(e.ShareReason), e.SentAt, e.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ExistsRecent reports whether the user already has a share event with the
// given reason at or after since. Used for the cooldown check.
func (r *PostgresRepository) ExistsRecent(ctx context.Context, userID string, reason models.ShareReason, since time.Time) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM share_events WHERE user_id = $1 AND share_reason = $2 AND sent_at >= $3
	)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, string(reason), since).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// LockUser tries to take a transaction-scoped advisory lock keyed on the
// user id. It returns false when another transaction holds the lock, which
// a sweep treats as "someone else is already processing this user". Only
// meaningful when the repository is bound to a *sql.Tx.
func (r *PostgresRepository) LockUser(ctx context.Context, userID string) (bool, error) {
	var got bool
	err := r.db.QueryRowContext(ctx, `SELECT pg_try_advisory_xact_lock(hashtext($1))`, userID).Scan(&got)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return got, nil
}
