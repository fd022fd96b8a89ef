// Package contacts persists emergency-contact rows. Every mutation is scoped
// by user_id so that a caller can never see or touch another user's contacts;
// a wrong id and a wrong owner are indistinguishable (both ErrorNotFound).
package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/common"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/dbx"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

// PostgresRepository implements contact storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, user_id, email, COALESCE(label, ''), is_active, created_at, updated_at`

// List returns all contacts for the user, active or not, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	query := `SELECT ` + selectColumns + ` FROM emergency_contacts WHERE user_id = $1 ORDER BY created_at DESC`
	return r.selectContacts(ctx, query, userID)
}

// ListActive returns only the contacts eligible to receive a disclosure.
func (r *PostgresRepository) ListActive(ctx context.Context, userID string) ([]*models.EmergencyContact, error) {
	query := `SELECT ` + selectColumns + ` FROM emergency_contacts WHERE user_id = $1 AND is_active ORDER BY created_at DESC`
	return r.selectContacts(ctx, query, userID)
}

// ActiveExists reports whether an active contact with the given email already
// exists for the user (case-insensitive).
func (r *PostgresRepository) ActiveExists(ctx context.Context, userID, email string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM emergency_contacts WHERE user_id = $1 AND lower(email) = $2 AND is_active
	)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, strings.ToLower(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Create inserts a new contact row.
func (r *PostgresRepository) Create(ctx context.Context, c *models.EmergencyContact) error {
	query := `
		INSERT INTO emergency_contacts (id, user_id, email, label, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Email, nullIfEmpty(c.Label), c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of patch to the contact owned by userID.
// Zero rows affected means not found or not owned; both yield ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, userID, id string, patch *models.ContactPatch) error {
	query := `
		UPDATE emergency_contacts SET
			email = COALESCE($3, email),
			label = COALESCE($4, label),
			is_active = COALESCE($5, is_active),
			updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID, patch.Email, patch.Label, patch.IsActive)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowOrNotFound(res)
}

// Deactivate soft-deletes the contact (kept for audit, excluded from
// disclosures and duplicate checks).
func (r *PostgresRepository) Deactivate(ctx context.Context, userID, id string) error {
	query := `UPDATE emergency_contacts SET is_active = FALSE, updated_at = now() WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowOrNotFound(res)
}

// Delete hard-deletes the contact row.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM emergency_contacts WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRowOrNotFound(res)
}

func (r *PostgresRepository) selectContacts(ctx context.Context, query string, args ...any) ([]*models.EmergencyContact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select contacts: %w", err)
	}
	defer rows.Close()

	var result []*models.EmergencyContact
	for rows.Next() {
		var item models.EmergencyContact
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Email, &item.Label, &item.IsActive,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func oneRowOrNotFound(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
