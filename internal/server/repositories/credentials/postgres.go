// Package credentials persists the encrypted credential rows. Only
// ciphertext and plaintext metadata ever touch the database; keys never do.
package credentials

import (
	"context"
	"fmt"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/dbx"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

// PostgresRepository implements credential storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new credential row.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) error {
	query := `
		INSERT INTO credentials (
			id, user_id, website_name, description, username,
			encrypted_secret, nonce_secret, encrypted_pin, nonce_pin,
			notes, category, valid_until, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.WebsiteName, nullIfEmpty(c.Description), c.Username,
		c.EncryptedSecret, c.NonceSecret, nilIfEmptyBytes(c.EncryptedPin), nilIfEmptyBytes(c.NoncePin),
		nullIfEmpty(c.Notes), nullIfEmpty(c.Category), c.ValidUntil, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByUser returns every credential owned by userID.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	query := `
		SELECT id, user_id, website_name, COALESCE(description, ''), username,
			encrypted_secret, nonce_secret, encrypted_pin, nonce_pin,
			COALESCE(notes, ''), COALESCE(category, ''), valid_until, created_at, updated_at
		FROM credentials
		WHERE user_id = $1
		ORDER BY website_name, username
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select credentials: %w", err)
	}
	defer rows.Close()

	var result []*models.Credential
	for rows.Next() {
		var item models.Credential
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.WebsiteName, &item.Description, &item.Username,
			&item.EncryptedSecret, &item.NonceSecret, &item.EncryptedPin, &item.NoncePin,
			&item.Notes, &item.Category, &item.ValidUntil, &item.CreatedAt, &item.UpdatedAt,
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

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilIfEmptyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
